// Package document assembles one document record: its text, metadata, span
// table and the per-code tag bundles produced by every tagger that
// annotated it. A Document is the mutable builder used while ingesting;
// Finalize freezes it into a Record with spans in canonical order and
// every tag reference renumbered to match.
package document

import (
	"math"
	"sort"

	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/errs"
	"github.com/nlabel/arriba/span"
)

// NoSpan is the sentinel span id for a tag with no associated span
// (document-level tags, e.g. a detected language).
const NoSpan = -1

// NoParent is the sentinel parent index for a root tag.
const NoParent = -1

// LabelInput is a label as supplied by a caller ingesting a tag: a value
// string and an optional score. Use math.NaN() for Score to mean "no
// score".
type LabelInput struct {
	Value string
	Score float64
}

// Label is a label after its value string has been interned into the
// archive's code dictionary.
type Label struct {
	ValueID int
	Score   float64
}

// Tag is one tagger's annotation: a span reference, its labels, and an
// optional parent tag (by tag-local index, within the same CodeData).
type Tag struct {
	Span   int
	Labels []Label
	Parent int

	// Vector is this tag's embedding, stored alongside but never co-located
	// with its labels; nil means the tag has no vector.
	Vector []float64
}

// CodeData is the per-document tag list for one code (tagger, tag-name
// pair). Once a Document is finalized, Tags are ordered by span id
// ascending.
type CodeData struct {
	Code int
	Tags []Tag
}

// Document is the mutable builder for one document record.
type Document struct {
	Text     string
	Metadata map[string]interface{}

	dict  *codedict.Dict
	spans *span.Table
	codes map[int]*CodeData
}

// New starts building a document record against the archive's shared code
// dictionary. dict is mutated as tags are added (new codes and label
// values are interned into it).
func New(dict *codedict.Dict, text string, metadata map[string]interface{}) *Document {
	return &Document{
		Text:     text,
		Metadata: metadata,
		dict:     dict,
		spans:    span.NewTable(),
		codes:    make(map[int]*CodeData),
	}
}

// AddSpan inserts (or reuses) the span [start, end) and returns its id.
// It fails with errs.KindOutOfRange if either endpoint exceeds len(Text)
// or start > end.
func (d *Document) AddSpan(start, end int) (int, error) {
	if start < 0 || end < start || end > len(d.Text) {
		return 0, errs.New(errs.KindOutOfRange, "span [%d,%d) out of range for a %d-byte document", start, end, len(d.Text))
	}
	return d.spans.Insert(start, end), nil
}

// AddTag registers a tag under (taggerIdx, name) -- interning the code and
// every label value into the shared dictionary -- and returns its
// tag-local index within that code's tag list (the id a later tag can use
// as its parent).
//
// spanID is either the id returned by AddSpan, or NoSpan for a tag with no
// associated span. parent is either a prior tag's tag-local index for this
// same code, or NoParent.
func (d *Document) AddTag(taggerIdx int, name string, spanID int, labels []LabelInput, parent int) int {
	codeIdx := d.dict.EnsureRegistered(taggerIdx, name)
	code := d.dict.Code(codeIdx)

	resolved := make([]Label, len(labels))
	for i, l := range labels {
		score := l.Score
		resolved[i] = Label{ValueID: code.InternValue(l.Value), Score: score}
	}

	cd, ok := d.codes[codeIdx]
	if !ok {
		cd = &CodeData{Code: codeIdx}
		d.codes[codeIdx] = cd
	}
	tagID := len(cd.Tags)
	cd.Tags = append(cd.Tags, Tag{Span: spanID, Labels: resolved, Parent: parent})
	return tagID
}

// SetVector attaches an embedding to a previously added tag, identified by
// the tag-local index AddTag returned. It panics if taggerIdx/name or tagID
// don't name a tag already added to this document -- callers set vectors
// immediately after adding the tag they belong to.
func (d *Document) SetVector(taggerIdx int, name string, tagID int, vector []float64) {
	codeIdx := d.dict.EnsureRegistered(taggerIdx, name)
	d.codes[codeIdx].Tags[tagID].Vector = vector
}

// Record is a finalized, immutable document: spans in canonical order,
// every span/parent reference renumbered to match, and CodeData sorted by
// code index for binary search on read.
type Record struct {
	Text     string
	Metadata map[string]interface{}
	Spans    []span.Span
	Codes    []CodeData
}

// Finalize sorts the span table into canonical order, remaps every tag's
// span and parent reference through the resulting permutations, and
// returns the frozen Record. Call this exactly once per document, after
// all tags have been added.
func (d *Document) Finalize() *Record {
	spanPerm := d.spans.SortAndRenumber()

	codeIdxs := make([]int, 0, len(d.codes))
	for idx := range d.codes {
		codeIdxs = append(codeIdxs, idx)
	}
	sort.Ints(codeIdxs)

	out := make([]CodeData, len(codeIdxs))
	for i, codeIdx := range codeIdxs {
		cd := d.codes[codeIdx]
		out[i] = remapCodeData(*cd, spanPerm)
	}

	return &Record{
		Text:     d.Text,
		Metadata: d.Metadata,
		Spans:    d.spans.Spans(),
		Codes:    out,
	}
}

// remapCodeData renumbers a code's tags' span references through spanPerm,
// sorts the tags into document order (ascending span id, ties preserving
// insertion order), and renumbers parent indices through the resulting
// tag-local permutation.
func remapCodeData(cd CodeData, spanPerm []int) CodeData {
	tags := make([]Tag, len(cd.Tags))
	copy(tags, cd.Tags)
	for i := range tags {
		if tags[i].Span != NoSpan {
			tags[i].Span = spanPerm[tags[i].Span]
		}
	}

	order := make([]int, len(tags))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return tags[order[i]].Span < tags[order[j]].Span
	})

	tagPerm := make([]int, len(tags))
	sorted := make([]Tag, len(tags))
	for newID, oldID := range order {
		sorted[newID] = tags[oldID]
		tagPerm[oldID] = newID
	}
	for i := range sorted {
		if sorted[i].Parent != NoParent {
			sorted[i].Parent = tagPerm[sorted[i].Parent]
		}
	}

	return CodeData{Code: cd.Code, Tags: sorted}
}

// absentScore is the canonical "no score" value used wherever a Label's
// Score is unset.
var absentScore = math.NaN()

// NoScore is the value to use for LabelInput.Score when a label carries no
// confidence score.
func NoScore() float64 { return absentScore }
