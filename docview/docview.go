// Package docview implements the read-side document facade: attribute-style
// access to every tag name in an active view, unifying structural tags
// (sentence, token) and label tags (pos, ent) as the same primitive --
// "a span with labels, maybe contained in another span".
package docview

import (
	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/document"
	"github.com/nlabel/arriba/errs"
	"github.com/nlabel/arriba/selector"
	"github.com/nlabel/arriba/span"
)

// Doc wraps a finalized document record with the dictionary and view
// needed to resolve tag names into columns and project their labels.
type Doc struct {
	rec   *document.Record
	dict  *codedict.Dict
	view  *selector.View
	spans *span.Table

	// codeByIdx indexes rec.Codes by code index for direct lookup.
	codeByIdx map[int]*document.CodeData
}

// New wraps rec for attribute-style access through view. dict must be the
// same dictionary (or a reconstruction of it) that produced rec's label and
// code ids.
func New(rec *document.Record, dict *codedict.Dict, view *selector.View) *Doc {
	spans := span.NewTable()
	for _, sp := range rec.Spans {
		spans.Insert(sp.Start, sp.End)
	}

	byIdx := make(map[int]*document.CodeData, len(rec.Codes))
	for i := range rec.Codes {
		byIdx[rec.Codes[i].Code] = &rec.Codes[i]
	}

	return &Doc{rec: rec, dict: dict, view: view, spans: spans, codeByIdx: byIdx}
}

// Text returns the document's full text.
func (d *Doc) Text() string {
	return d.rec.Text
}

// Metadata returns the document's metadata map.
func (d *Doc) Metadata() map[string]interface{} {
	return d.rec.Metadata
}

// Root returns the scope bounding the whole document -- the container every
// top-level tag name is read against.
func (d *Doc) Root() *Scope {
	return &Scope{
		doc:    d,
		bound:  span.Span{Start: 0, End: len(d.rec.Text)},
		spanID: document.NoSpan,
	}
}

// Scope is a container (a span, or the whole document) that tag names are
// read relative to.
type Scope struct {
	doc    *Doc
	bound  span.Span
	spanID int
}

// Span returns the scope's bounding span and whether it is an actual tag
// span (false for the synthetic document root).
func (s *Scope) Span() (span.Span, bool) {
	return s.bound, s.spanID != document.NoSpan
}

func (s *Scope) resolve(name string) (selector.ResolvedTag, *document.CodeData, error) {
	rt, ok := s.doc.view.Lookup(name)
	if !ok {
		return selector.ResolvedTag{}, nil, errs.New(errs.KindNoMatch, "no tag named %q in the active view", name)
	}
	cd, ok := s.doc.codeByIdx[rt.CodeIdx]
	if !ok {
		// This code produced no tags in this document; an empty result, not
		// an error -- a perfectly normal outcome for e.g. a sparse tagger.
		return rt, &document.CodeData{Code: rt.CodeIdx}, nil
	}
	return rt, cd, nil
}

// Contained returns every tag of the given name whose span is strictly
// contained in this scope's bound, in document (span) order. This is the
// primitive behind expressions like "sentence.tokens".
func (s *Scope) Contained(name string) ([]*Tag, error) {
	rt, cd, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	var out []*Tag
	for i := range cd.Tags {
		tag := &cd.Tags[i]
		if tag.Span == document.NoSpan {
			continue
		}
		if tag.Span == s.spanID {
			continue // the container's own tag, not one contained in it
		}
		tagSpan := s.doc.spans.At(tag.Span)
		if !s.bound.Contains(tagSpan) {
			continue
		}
		out = append(out, newTag(s.doc, rt, cd.Code, tag))
	}
	return out, nil
}

// Aligned returns the single tag of the given name whose span exactly
// equals this scope's bound, if one exists. This is the primitive behind
// expressions like "token.pos": absence is not an error -- callers get
// ok=false and should project an empty/default value.
func (s *Scope) Aligned(name string) (*Tag, bool, error) {
	rt, cd, err := s.resolve(name)
	if err != nil {
		return nil, false, err
	}
	for i := range cd.Tags {
		tag := &cd.Tags[i]
		if tag.Span == document.NoSpan {
			continue
		}
		if s.doc.spans.At(tag.Span) == s.bound {
			return newTag(s.doc, rt, cd.Code, tag), true, nil
		}
	}
	return nil, false, nil
}

// Of returns the scope bounded by tag's own span, so its contained tags can
// be read in turn (e.g. ent.Of().Contained("token")).
func (t *Tag) Of() *Scope {
	bound := span.Span{}
	if t.tag.Span != document.NoSpan {
		bound = t.doc.spans.At(t.tag.Span)
	}
	return &Scope{doc: t.doc, bound: bound, spanID: t.tag.Span}
}
