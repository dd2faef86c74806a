package arriba

import (
	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/document"
	"github.com/nlabel/arriba/docview"
	"github.com/nlabel/arriba/selector"
)

// Cursor yields an archive's documents in insertion order, each
// materialized as a docview.Doc under a resolved view. A cursor is
// independent of every other cursor on the same reader, so concurrent
// iteration just takes one cursor per goroutine; dropping a cursor
// releases everything it holds.
type Cursor struct {
	r        *Reader
	dict     *codedict.Dict
	view     *selector.View
	next     int
	tolerant bool
}

// Iter returns a cursor over every document, read through view. A nil
// view synthesizes the default view over every code in the archive,
// which fails with errs.KindAmbiguousTags when two taggers produce the
// same tag name and there is no unambiguous default.
func (r *Reader) Iter(view *selector.View) (*Cursor, error) {
	return r.newCursor(view, false)
}

// IterTolerant is Iter, but the cursor skips documents whose records
// are corrupt instead of stopping, logging each skip through the
// reader's logger.
func (r *Reader) IterTolerant(view *selector.View) (*Cursor, error) {
	return r.newCursor(view, true)
}

func (r *Reader) newCursor(view *selector.View, tolerant bool) (*Cursor, error) {
	dict := r.Dict()
	if view == nil {
		v, err := selector.DefaultView(dict)
		if err != nil {
			return nil, err
		}
		view = v
	}
	return &Cursor{r: r, dict: dict, view: view, tolerant: tolerant}, nil
}

// Next returns the next document, or (nil, nil) once the archive is
// exhausted.
func (c *Cursor) Next() (*docview.Doc, error) {
	for c.next < c.r.Len() {
		i := c.next
		c.next++

		var rec *document.Record
		var err error
		if c.tolerant {
			rec, err = c.r.ReadDocumentTolerant(i)
		} else {
			rec, err = c.r.ReadDocument(i)
		}
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		return docview.New(rec, c.dict, c.view), nil
	}
	return nil, nil
}
