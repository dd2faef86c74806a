package ingest

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"

	"github.com/nlabel/arriba/document"
)

// SentenceTagger splits a document's text into sentences using
// neurosnap/sentences and emits each one as a "sentence" tag: a span with
// no labels, resolved against the document model rather than returned as a
// plain []string.
type SentenceTagger struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceTagger builds a SentenceTagger from punkt-style training
// data (the same JSON format neurosnap/sentences' LoadTraining expects).
func NewSentenceTagger(trainingData []byte) (*SentenceTagger, error) {
	storage, err := sentences.LoadTraining(trainingData)
	if err != nil {
		return nil, fmt.Errorf("loading sentence training data: %w", err)
	}
	return &SentenceTagger{tokenizer: sentences.NewSentenceTokenizer(storage)}, nil
}

// Tag segments doc.Text into sentences and adds one "sentence" tag per
// segment under taggerIdx, each carrying the sentence's span and no
// labels. It returns the tag-local ids assigned, in document order.
func (s *SentenceTagger) Tag(doc *document.Document, taggerIdx int) ([]int, error) {
	text := doc.Text
	sents := s.tokenizer.Tokenize(text)

	var ids []int
	cursor := 0
	for _, sent := range sents {
		frag := strings.TrimSpace(sent.Text)
		if frag == "" {
			continue
		}
		rel := strings.Index(text[cursor:], frag)
		if rel < 0 {
			// The tokenizer normalized whitespace in a way we can't locate
			// verbatim; skip rather than guess at a wrong span.
			continue
		}
		start := cursor + rel
		end := start + len(frag)
		cursor = end

		spanID, err := doc.AddSpan(start, end)
		if err != nil {
			return nil, fmt.Errorf("adding sentence span [%d,%d): %w", start, end, err)
		}
		ids = append(ids, doc.AddTag(taggerIdx, "sentence", spanID, nil, document.NoParent))
	}
	return ids, nil
}
