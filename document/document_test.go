package document

import (
	"math"
	"testing"

	"github.com/nlabel/arriba/codedict"
)

func TestFinalizeOrdersSpansCanonically(t *testing.T) {
	// "San Francisco" - a length-13 outer span and a length-10 inner span
	// sharing the same start must sort outer-before-inner.
	dict := codedict.New()
	doc := New(dict, "San Francisco is big", nil)

	inner, err := doc.AddSpan(0, 10) // "San Franci" - inserted first
	if err != nil {
		t.Fatalf("AddSpan: %v", err)
	}
	outer, err := doc.AddSpan(0, 13) // "San Francisco"
	if err != nil {
		t.Fatalf("AddSpan: %v", err)
	}

	doc.AddTag(0, "inner", inner, nil, NoParent)
	doc.AddTag(0, "outer", outer, nil, NoParent)

	rec := doc.Finalize()

	if len(rec.Spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(rec.Spans))
	}
	if rec.Spans[0].Start != 0 || rec.Spans[0].End != 13 {
		t.Fatalf("expected outer span first, got %v", rec.Spans[0])
	}
	if rec.Spans[1].Start != 0 || rec.Spans[1].End != 10 {
		t.Fatalf("expected inner span second, got %v", rec.Spans[1])
	}
}

func TestAddSpanOutOfRangeFails(t *testing.T) {
	dict := codedict.New()
	doc := New(dict, "hello", nil)

	if _, err := doc.AddSpan(0, 10); err == nil {
		t.Fatalf("expected out-of-range span to fail")
	}
	if _, err := doc.AddSpan(3, 1); err == nil {
		t.Fatalf("expected start > end to fail")
	}
}

func TestFinalizeRemapsSpanReferencesAndSortsTags(t *testing.T) {
	dict := codedict.New()
	doc := New(dict, "abcdef", nil)

	// Insert spans out of final order: [2,4) then [0,2).
	s1, _ := doc.AddSpan(2, 4)
	s0, _ := doc.AddSpan(0, 2)

	doc.AddTag(0, "token", s1, []LabelInput{{Value: "NOUN", Score: NoScore()}}, NoParent)
	doc.AddTag(0, "token", s0, []LabelInput{{Value: "VERB", Score: NoScore()}}, NoParent)

	rec := doc.Finalize()
	if len(rec.Codes) != 1 {
		t.Fatalf("expected 1 code, got %d", len(rec.Codes))
	}
	tags := rec.Codes[0].Tags
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	// After sort, the tag over [0,2) must come first, referencing span id 0.
	if tags[0].Span != 0 {
		t.Fatalf("expected first tag to reference span 0, got %d", tags[0].Span)
	}
	if tags[1].Span != 1 {
		t.Fatalf("expected second tag to reference span 1, got %d", tags[1].Span)
	}
	code := dict.Code(rec.Codes[0].Code)
	if code.Value(tags[0].Labels[0].ValueID) != "VERB" {
		t.Fatalf("expected VERB tag to sort first by remapped span, got %q", code.Value(tags[0].Labels[0].ValueID))
	}
	if code.Value(tags[1].Labels[0].ValueID) != "NOUN" {
		t.Fatalf("expected NOUN tag to sort second, got %q", code.Value(tags[1].Labels[0].ValueID))
	}
}

func TestFinalizeRemapsParentIndices(t *testing.T) {
	dict := codedict.New()
	doc := New(dict, "abcdef", nil)

	// Parent tag over the later span, child tag over the earlier span -
	// inserted parent-first so the tag-local parent index is 0 before sort,
	// but after Finalize sorts by span the parent must end up second.
	sLate, _ := doc.AddSpan(4, 6)
	sEarly, _ := doc.AddSpan(0, 2)

	parentTag := doc.AddTag(0, "phrase", sLate, []LabelInput{{Value: "NP", Score: NoScore()}}, NoParent)
	doc.AddTag(0, "phrase", sEarly, []LabelInput{{Value: "DET", Score: NoScore()}}, parentTag)

	rec := doc.Finalize()
	tags := rec.Codes[0].Tags

	// tags[0] is now the DET tag (earlier span), tags[1] the NP tag.
	code := dict.Code(rec.Codes[0].Code)
	if code.Value(tags[0].Labels[0].ValueID) != "DET" {
		t.Fatalf("expected DET first after sort, got %q", code.Value(tags[0].Labels[0].ValueID))
	}
	if tags[0].Parent != 1 {
		t.Fatalf("expected DET's parent to be remapped to tag-local index 1, got %d", tags[0].Parent)
	}
}

func TestAddTagWithoutSpan(t *testing.T) {
	dict := codedict.New()
	doc := New(dict, "hello world", nil)

	doc.AddTag(0, "doc-level", NoSpan, []LabelInput{{Value: "en", Score: NoScore()}}, NoParent)

	rec := doc.Finalize()
	if rec.Codes[0].Tags[0].Span != NoSpan {
		t.Fatalf("expected spanless tag to retain NoSpan after Finalize, got %d", rec.Codes[0].Tags[0].Span)
	}
}

func TestCodesAreSortedByIndex(t *testing.T) {
	dict := codedict.New()
	doc := New(dict, "abc", nil)
	sp, _ := doc.AddSpan(0, 1)

	// Register codes out of numeric order by tagger index.
	doc.AddTag(2, "z", sp, nil, NoParent)
	doc.AddTag(0, "a", sp, nil, NoParent)
	doc.AddTag(1, "m", sp, nil, NoParent)

	rec := doc.Finalize()
	for i := 1; i < len(rec.Codes); i++ {
		if rec.Codes[i-1].Code >= rec.Codes[i].Code {
			t.Fatalf("expected codes sorted ascending by index, got %v", rec.Codes)
		}
	}
}

func TestLabelScoreSurvivesRoundTrip(t *testing.T) {
	dict := codedict.New()
	doc := New(dict, "abc", nil)
	sp, _ := doc.AddSpan(0, 1)
	doc.AddTag(0, "sentiment", sp, []LabelInput{{Value: "positive", Score: 0.93}}, NoParent)

	rec := doc.Finalize()
	label := rec.Codes[0].Tags[0].Labels[0]
	if math.Abs(label.Score-0.93) > 1e-9 {
		t.Fatalf("expected score to survive, got %v", label.Score)
	}
}
