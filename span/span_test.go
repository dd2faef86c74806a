package span

import (
	"reflect"
	"testing"
)

func TestInsertDeduplicates(t *testing.T) {
	tbl := NewTable()
	a := tbl.Insert(0, 5)
	b := tbl.Insert(10, 20)
	c := tbl.Insert(0, 5)
	if a != c {
		t.Fatalf("expected identical span to reuse id, got %d and %d", a, c)
	}
	if a == b {
		t.Fatalf("expected distinct spans to get distinct ids")
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 distinct spans, got %d", tbl.Len())
	}
}

func TestSortAndRenumberOrdersOuterBeforeInner(t *testing.T) {
	tbl := NewTable()
	// "San Francisco": ent(0,13), token(0,3), token(4,13)
	entID := tbl.Insert(0, 13)
	tok1ID := tbl.Insert(0, 3)
	tok2ID := tbl.Insert(4, 13)

	perm := tbl.SortAndRenumber()
	if !tbl.Sorted() {
		t.Fatalf("expected table to report sorted")
	}

	spans := tbl.Spans()
	for i := 1; i < len(spans); i++ {
		a, b := spans[i-1], spans[i]
		if a.Start > b.Start {
			t.Fatalf("spans not sorted by start: %v before %v", a, b)
		}
		if a.Start == b.Start && (a.Start-a.End) > (b.Start-b.End) {
			t.Fatalf("ties not broken outer-before-inner: %v before %v", a, b)
		}
	}

	// ent(0,13) is longer than token(0,3) on the start==0 tie, so it sorts first.
	if spans[perm[entID]] != (Span{0, 13}) {
		t.Fatalf("expected ent span to remain (0,13) after renumber")
	}
	if perm[entID] > perm[tok1ID] {
		t.Fatalf("expected outer ent span to precede the tied-start token span")
	}
	_ = tok2ID
}

func TestFindAligned(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(4, 13)
	tbl.Insert(0, 3)
	tbl.Insert(0, 13)
	tbl.SortAndRenumber()

	id, ok := tbl.FindAligned(0, 13)
	if !ok || tbl.At(id) != (Span{0, 13}) {
		t.Fatalf("expected to find aligned span (0,13)")
	}
	if _, ok := tbl.FindAligned(1, 2); ok {
		t.Fatalf("did not expect a match for (1,2)")
	}
}

func TestChildrenOfContainmentSoundness(t *testing.T) {
	tbl := NewTable()
	sentence := tbl.Insert(0, 13)
	tok1 := tbl.Insert(0, 3)
	tok2 := tbl.Insert(4, 13)
	outside := tbl.Insert(20, 25)
	perm := tbl.SortAndRenumber()

	children := tbl.ChildrenOf(perm[sentence])
	var gotSpans []Span
	for _, id := range children {
		gotSpans = append(gotSpans, tbl.At(id))
	}

	want := []Span{{0, 3}, {4, 13}}
	if !reflect.DeepEqual(gotSpans, want) {
		t.Fatalf("ChildrenOf(sentence) = %v, want %v", gotSpans, want)
	}

	for _, id := range children {
		if id == perm[sentence] {
			t.Fatalf("ChildrenOf must not include the container itself")
		}
	}
	_ = tok1
	_ = tok2
	_ = outside
}

func TestChildrenOfExcludesSiblingsAndOutside(t *testing.T) {
	tbl := NewTable()
	outer := tbl.Insert(0, 10)
	tbl.Insert(10, 15) // starts exactly at outer.End: excluded by the stated scan rule
	tbl.Insert(5, 9)   // contained
	tbl.Insert(11, 20) // entirely outside
	perm := tbl.SortAndRenumber()

	children := tbl.ChildrenOf(perm[outer])
	if len(children) != 1 {
		t.Fatalf("expected exactly one contained child, got %d", len(children))
	}
	if tbl.At(children[0]) != (Span{5, 9}) {
		t.Fatalf("expected child span (5,9), got %v", tbl.At(children[0]))
	}
}
