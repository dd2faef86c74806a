// Package bahia implements the human-readable JSON interchange format: a
// per-document schema that ingests into, and exports back out of, the core
// document model (component D of the binary archive).
package bahia

import (
	"math"
	"sort"

	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/document"
	"github.com/nlabel/arriba/tagger"
)

func isAbsentScore(score float64) bool {
	return math.IsNaN(score)
}

// LabelJSON is one label as written in a bahia document.
type LabelJSON struct {
	Value string   `json:"value"`
	Score *float64 `json:"score,omitempty"`
}

// TagJSON is one tag as written in a bahia document. Start/End are both
// absent for a document-level tag with no span.
type TagJSON struct {
	Start  *int        `json:"start,omitempty"`
	End    *int        `json:"end,omitempty"`
	Labels []LabelJSON `json:"labels,omitempty"`
	Parent *int        `json:"parent,omitempty"`
}

// TaggerBlockJSON is one tagger's contribution to a bahia document: its
// signature, plus every tag name it produced, each a list of TagJSON.
type TaggerBlockJSON struct {
	Tagger map[string]interface{} `json:"tagger"`
	Tags   map[string][]TagJSON  `json:"tags"`
}

// DocumentJSON is the bahia per-document schema.
type DocumentJSON struct {
	Text        string                 `json:"text"`
	ExternalKey string                 `json:"external_key,omitempty"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
	Stat        map[string]interface{} `json:"stat,omitempty"`
	Taggers     []TaggerBlockJSON      `json:"taggers"`
}

// TaggerIndexer resolves a tagger signature encountered while ingesting a
// bahia document to the archive-wide tagger index AddTag expects,
// registering a new tagger the first time a signature is seen.
type TaggerIndexer func(sig tagger.Signature) int

// Ingest converts a bahia document into a finalized document.Record,
// interning its codes and label values into dict and resolving each
// tagger block's signature through indexer. The external_key and stat
// fields fold into the record's metadata under those same keys, so they
// survive the trip through an archive; Export lifts them back out.
func Ingest(dict *codedict.Dict, dj DocumentJSON, indexer TaggerIndexer) (*document.Record, error) {
	meta := dj.Meta
	if dj.ExternalKey != "" || dj.Stat != nil {
		merged := make(map[string]interface{}, len(dj.Meta)+2)
		for k, v := range dj.Meta {
			merged[k] = v
		}
		if dj.ExternalKey != "" {
			merged["external_key"] = dj.ExternalKey
		}
		if dj.Stat != nil {
			merged["stat"] = dj.Stat
		}
		meta = merged
	}
	doc := document.New(dict, dj.Text, meta)

	for _, block := range dj.Taggers {
		sig := tagger.Signature(tagger.ExpandDottedKeys(block.Tagger))
		taggerIdx := indexer(sig)

		names := make([]string, 0, len(block.Tags))
		for name := range block.Tags {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			for _, tj := range block.Tags[name] {
				spanID := document.NoSpan
				if tj.Start != nil && tj.End != nil {
					id, err := doc.AddSpan(*tj.Start, *tj.End)
					if err != nil {
						return nil, err
					}
					spanID = id
				}

				labels := make([]document.LabelInput, len(tj.Labels))
				for i, l := range tj.Labels {
					score := document.NoScore()
					if l.Score != nil {
						score = *l.Score
					}
					labels[i] = document.LabelInput{Value: l.Value, Score: score}
				}

				parent := document.NoParent
				if tj.Parent != nil {
					parent = *tj.Parent
				}

				doc.AddTag(taggerIdx, name, spanID, labels, parent)
			}
		}
	}

	return doc.Finalize(), nil
}

// Export converts a finalized document.Record back into bahia form.
// taggers must be indexed the same way the codes in rec were (i.e.
// dict.Code(i).Tagger names an index into taggers).
func Export(rec *document.Record, dict *codedict.Dict, taggers []*tagger.Tagger) DocumentJSON {
	blocksByTagger := make(map[int]*TaggerBlockJSON)
	var taggerOrder []int

	for _, cd := range rec.Codes {
		code := dict.Code(cd.Code)
		block, ok := blocksByTagger[code.Tagger]
		if !ok {
			sig := map[string]interface{}(nil)
			if code.Tagger < len(taggers) {
				sig = map[string]interface{}(taggers[code.Tagger].Signature)
			}
			block = &TaggerBlockJSON{Tagger: sig, Tags: make(map[string][]TagJSON)}
			blocksByTagger[code.Tagger] = block
			taggerOrder = append(taggerOrder, code.Tagger)
		}

		tagList := make([]TagJSON, len(cd.Tags))
		for i, tag := range cd.Tags {
			tj := TagJSON{}
			if tag.Span != document.NoSpan {
				sp := rec.Spans[tag.Span]
				start, end := sp.Start, sp.End
				tj.Start = &start
				tj.End = &end
			}
			if tag.Parent != document.NoParent {
				parent := tag.Parent
				tj.Parent = &parent
			}
			tj.Labels = make([]LabelJSON, len(tag.Labels))
			for j, label := range tag.Labels {
				lj := LabelJSON{Value: code.Value(label.ValueID)}
				if !isAbsentScore(label.Score) {
					score := label.Score
					lj.Score = &score
				}
				tj.Labels[j] = lj
			}
			tagList[i] = tj
		}
		block.Tags[code.Name] = tagList
	}

	sort.Ints(taggerOrder)
	out := DocumentJSON{Text: rec.Text}
	if len(rec.Metadata) > 0 {
		meta := make(map[string]interface{}, len(rec.Metadata))
		for k, v := range rec.Metadata {
			meta[k] = v
		}
		if ek, ok := meta["external_key"].(string); ok {
			out.ExternalKey = ek
			delete(meta, "external_key")
		}
		if st, ok := meta["stat"].(map[string]interface{}); ok {
			out.Stat = st
			delete(meta, "stat")
		}
		if len(meta) > 0 {
			out.Meta = meta
		}
	}
	for _, idx := range taggerOrder {
		out.Taggers = append(out.Taggers, *blocksByTagger[idx])
	}
	return out
}
