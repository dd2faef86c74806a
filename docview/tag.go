package docview

import (
	"strings"

	"github.com/nlabel/arriba/document"
	"github.com/nlabel/arriba/selector"
)

// LabelRecord is a single (value, score) pair, the "labels" projection's
// element type.
type LabelRecord struct {
	Value string
	Score float64 // NaN if the label carries no score
}

// Tag is one materialized tag read through the facade: a span, its labels,
// and an optional vector, with the view's chosen label-type projection.
type Tag struct {
	doc       *Doc
	view      selector.ResolvedTag
	codeIdx   int
	tag       *document.Tag
	labelType selector.LabelType
}

func newTag(doc *Doc, rt selector.ResolvedTag, codeIdx int, tag *document.Tag) *Tag {
	return &Tag{doc: doc, view: rt, codeIdx: codeIdx, tag: tag, labelType: rt.LabelType}
}

func (t *Tag) code() *document.CodeData {
	return t.doc.codeByIdx[t.codeIdx]
}

func (t *Tag) valueString(valueID int) string {
	return t.doc.dict.Code(t.codeIdx).Value(valueID)
}

// Str joins label values with "|"; empty string if the tag has no labels.
// No escaping is defined for a value that itself contains "|" -- callers
// who need to disambiguate that should use Strs instead.
func (t *Tag) Str() string {
	if len(t.tag.Labels) == 0 {
		return ""
	}
	values := make([]string, len(t.tag.Labels))
	for i, l := range t.tag.Labels {
		values[i] = t.valueString(l.ValueID)
	}
	return strings.Join(values, "|")
}

// Strs returns the tag's label values as a slice.
func (t *Tag) Strs() []string {
	out := make([]string, len(t.tag.Labels))
	for i, l := range t.tag.Labels {
		out[i] = t.valueString(l.ValueID)
	}
	return out
}

// Labels returns the tag's labels as (value, score) records.
func (t *Tag) Labels() []LabelRecord {
	out := make([]LabelRecord, len(t.tag.Labels))
	for i, l := range t.tag.Labels {
		out[i] = LabelRecord{Value: t.valueString(l.ValueID), Score: l.Score}
	}
	return out
}

// Project renders the tag's labels using the view's chosen (or defaulted)
// label type for this tag name. Its return type varies with LabelType:
// string for "str", []string for "strs", []LabelRecord for "labels".
func (t *Tag) Project() interface{} {
	switch t.labelType {
	case selector.LabelTypeStrs:
		return t.Strs()
	case selector.LabelTypeLabels:
		return t.Labels()
	default:
		return t.Str()
	}
}

// Vector returns the tag's embedding, or nil if it has none.
func (t *Tag) Vector() []float64 {
	return t.tag.Vector
}

// Parent returns the tag-local parent of this tag within the same code's
// tag list, if any.
func (t *Tag) Parent() (*Tag, bool) {
	if t.tag.Parent == document.NoParent {
		return nil, false
	}
	cd := t.code()
	parent := &cd.Tags[t.tag.Parent]
	return newTag(t.doc, t.view, t.codeIdx, parent), true
}
