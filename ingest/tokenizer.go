package ingest

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/nlabel/arriba/document"
)

// DefaultEncoding is the BPE encoding used when a caller doesn't name one
// (cl100k_base, GPT-4/GPT-3.5-turbo).
const DefaultEncoding = "cl100k_base"

// TikTokenTagger emits "token" tags aligned to each BPE token's byte span,
// using github.com/pkoukk/tiktoken-go to encode and decode tokens.
type TikTokenTagger struct {
	enc *tiktoken.Tiktoken
}

// NewTikTokenTagger builds a tagger for the named encoding; an empty
// string selects DefaultEncoding.
func NewTikTokenTagger(encoding string) (*TikTokenTagger, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading tiktoken encoding %s: %w", encoding, err)
	}
	return &TikTokenTagger{enc: enc}, nil
}

// CountTokens returns the number of BPE tokens text encodes to.
func (t *TikTokenTagger) CountTokens(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Tag splits doc.Text into BPE tokens and adds one "token" tag per token
// under taggerIdx, each carrying the token's byte span and no labels. It
// returns the tag-local ids assigned, in document order.
func (t *TikTokenTagger) Tag(doc *document.Document, taggerIdx int) ([]int, error) {
	text := doc.Text
	ids := t.enc.Encode(text, nil, nil)

	var tagIDs []int
	cursor := 0
	for _, id := range ids {
		frag := t.enc.Decode([]int{id})
		trimmed := strings.TrimLeft(frag, " ")
		if trimmed == "" {
			continue
		}
		rel := strings.Index(text[cursor:], trimmed)
		if rel < 0 {
			continue
		}
		start := cursor + rel
		end := start + len(trimmed)
		cursor = end

		spanID, err := doc.AddSpan(start, end)
		if err != nil {
			return nil, fmt.Errorf("adding token span [%d,%d): %w", start, end, err)
		}
		tagIDs = append(tagIDs, doc.AddTag(taggerIdx, "token", spanID, nil, document.NoParent))
	}
	return tagIDs, nil
}
