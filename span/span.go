// Package span implements the per-document span table: a deduplicated set
// of half-open byte intervals, kept in canonical containment-friendly order
// once a document is finalized.
package span

import "sort"

// Span is a half-open byte interval [Start, End) into a document's UTF-8
// text. Start <= End always holds; a zero-length span is legal.
type Span struct {
	Start int
	End   int
}

// Len returns the span's length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether inner is contained in s: s.Start <= inner.Start
// && inner.End <= s.End. A span contains itself.
func (s Span) Contains(inner Span) bool {
	return s.Start <= inner.Start && inner.End <= s.End
}

// Table is the growable, insert-deduplicated span set for one document. Use
// Insert while ingesting tags, then SortAndRenumber exactly once to freeze
// the document's canonical span order.
type Table struct {
	spans  []Span
	byKey  map[Span]int
	sorted bool
}

// NewTable returns an empty span table.
func NewTable() *Table {
	return &Table{byKey: make(map[Span]int)}
}

// Insert returns the id of the span [start, end), appending a new entry
// only if an identical span isn't already present. Valid before and after
// SortAndRenumber, though callers should stop inserting once a document is
// finalized.
func (t *Table) Insert(start, end int) int {
	key := Span{Start: start, End: end}
	if id, ok := t.byKey[key]; ok {
		return id
	}
	id := len(t.spans)
	t.spans = append(t.spans, key)
	t.byKey[key] = id
	t.sorted = false
	return id
}

// Len returns the number of distinct spans in the table.
func (t *Table) Len() int {
	return len(t.spans)
}

// At returns the span stored at id. It panics if id is out of range, as
// span ids are always produced by this table or by SortAndRenumber's
// permutation.
func (t *Table) At(id int) Span {
	return t.spans[id]
}

// Spans returns the table's current backing slice, ordered by id. Callers
// must not mutate it.
func (t *Table) Spans() []Span {
	return t.spans
}

// SortAndRenumber sorts the spans into canonical order (start ascending,
// ties broken by length descending so outer spans precede the inner spans
// they contain) and returns the permutation mapping old ids to new ids:
// perm[oldID] == newID. Call this exactly once, at document finalization,
// then apply perm to every tag reference that names a span id.
func (t *Table) SortAndRenumber() []int {
	n := len(t.spans)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := t.spans[order[i]], t.spans[order[j]]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return (a.Start - a.End) < (b.Start - b.End)
	})

	newSpans := make([]Span, n)
	perm := make([]int, n)
	for newID, oldID := range order {
		newSpans[newID] = t.spans[oldID]
		perm[oldID] = newID
	}
	t.spans = newSpans
	t.byKey = make(map[Span]int, n)
	for id, sp := range t.spans {
		t.byKey[sp] = id
	}
	t.sorted = true
	return perm
}

// Sorted reports whether SortAndRenumber has been called since the last
// Insert.
func (t *Table) Sorted() bool {
	return t.sorted
}

// FindAligned returns the id of the span with exactly the given endpoints,
// if one is present. It is an O(log n) lookup over the sorted table.
func (t *Table) FindAligned(start, end int) (int, bool) {
	lo := sort.Search(len(t.spans), func(i int) bool {
		return t.spans[i].Start >= start
	})
	for i := lo; i < len(t.spans) && t.spans[i].Start == start; i++ {
		if t.spans[i].End == end {
			return i, true
		}
	}
	return 0, false
}

// ChildrenOf returns the ids of every span strictly contained in the span
// at outerID, in document order. Containment is outer.Start <= t.Start &&
// t.End <= outer.End; the outer span itself is excluded.
//
// Because spans are sorted outer-first on a tied start, a forward scan from
// the first span with Start >= outer.Start yields every candidate; the scan
// stops at the first Start >= outer.End.
func (t *Table) ChildrenOf(outerID int) []int {
	outer := t.spans[outerID]
	lo := sort.Search(len(t.spans), func(i int) bool {
		return t.spans[i].Start >= outer.Start
	})

	var children []int
	for i := lo; i < len(t.spans) && t.spans[i].Start < outer.End; i++ {
		if i == outerID {
			continue
		}
		if t.spans[i].End <= outer.End {
			children = append(children, i)
		}
	}
	return children
}
