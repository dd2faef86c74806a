package bahia

import (
	"testing"

	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/document"
	"github.com/nlabel/arriba/tagger"
)

func intPtr(v int) *int { return &v }

func TestIngestBuildsSpansAndTags(t *testing.T) {
	dict := codedict.New()
	var taggers []*tagger.Tagger
	indexer := func(sig tagger.Signature) int {
		t := tagger.New(sig)
		taggers = append(taggers, t)
		return len(taggers) - 1
	}

	dj := DocumentJSON{
		Text: "San Francisco",
		Taggers: []TaggerBlockJSON{
			{
				Tagger: map[string]interface{}{"library": map[string]interface{}{"name": "spacy"}},
				Tags: map[string][]TagJSON{
					"ent": {
						{Start: intPtr(0), End: intPtr(13), Labels: []LabelJSON{{Value: "GPE"}}},
					},
					"token": {
						{Start: intPtr(0), End: intPtr(3)},
						{Start: intPtr(4), End: intPtr(13)},
					},
				},
			},
		},
	}

	rec, err := Ingest(dict, dj, indexer)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if rec.Text != "San Francisco" {
		t.Fatalf("expected text to survive, got %q", rec.Text)
	}
	if len(rec.Spans) != 3 {
		t.Fatalf("expected 3 distinct spans, got %d", len(rec.Spans))
	}
	if len(rec.Codes) != 2 {
		t.Fatalf("expected 2 codes (ent, token), got %d", len(rec.Codes))
	}
}

func TestIngestSpanlessTag(t *testing.T) {
	dict := codedict.New()
	indexer := func(sig tagger.Signature) int { return 0 }

	dj := DocumentJSON{
		Text: "hello",
		Taggers: []TaggerBlockJSON{
			{
				Tagger: map[string]interface{}{"type": "lang-detector"},
				Tags: map[string][]TagJSON{
					"lang": {{Labels: []LabelJSON{{Value: "en"}}}},
				},
			},
		},
	}

	rec, err := Ingest(dict, dj, indexer)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if rec.Codes[0].Tags[0].Span != document.NoSpan {
		t.Fatalf("expected spanless tag to keep NoSpan, got %d", rec.Codes[0].Tags[0].Span)
	}
}

func TestIngestExportRoundTrip(t *testing.T) {
	dict := codedict.New()
	var taggers []*tagger.Tagger
	indexer := func(sig tagger.Signature) int {
		t := tagger.New(sig)
		taggers = append(taggers, t)
		return len(taggers) - 1
	}

	score := 0.93
	dj := DocumentJSON{
		Text: "great movie",
		Taggers: []TaggerBlockJSON{
			{
				Tagger: map[string]interface{}{"library": map[string]interface{}{"name": "spacy"}},
				Tags: map[string][]TagJSON{
					"sentiment": {
						{Start: intPtr(0), End: intPtr(11), Labels: []LabelJSON{{Value: "positive", Score: &score}}},
					},
				},
			},
		},
	}

	rec, err := Ingest(dict, dj, indexer)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	out := Export(rec, dict, taggers)
	if out.Text != dj.Text {
		t.Fatalf("expected text to round-trip, got %q", out.Text)
	}
	if len(out.Taggers) != 1 {
		t.Fatalf("expected 1 tagger block, got %d", len(out.Taggers))
	}
	tags, ok := out.Taggers[0].Tags["sentiment"]
	if !ok || len(tags) != 1 {
		t.Fatalf("expected 1 sentiment tag, got %v", out.Taggers[0].Tags)
	}
	got := tags[0]
	if got.Start == nil || got.End == nil || *got.Start != 0 || *got.End != 11 {
		t.Fatalf("expected span [0,11) to round-trip, got %+v", got)
	}
	if len(got.Labels) != 1 || got.Labels[0].Value != "positive" {
		t.Fatalf("expected label to round-trip, got %+v", got.Labels)
	}
	if got.Labels[0].Score == nil || *got.Labels[0].Score != 0.93 {
		t.Fatalf("expected score to round-trip, got %v", got.Labels[0].Score)
	}
}

func TestExternalKeyAndStatRoundTrip(t *testing.T) {
	dict := codedict.New()
	var taggers []*tagger.Tagger
	indexer := func(sig tagger.Signature) int {
		t := tagger.New(sig)
		taggers = append(taggers, t)
		return len(taggers) - 1
	}

	dj := DocumentJSON{
		Text:        "hello",
		ExternalKey: "corpus/doc-42",
		Meta:        map[string]interface{}{"source": "unit-test"},
		Stat:        map[string]interface{}{"chars": float64(5)},
		Taggers: []TaggerBlockJSON{
			{
				Tagger: map[string]interface{}{"type": "noop"},
				Tags:   map[string][]TagJSON{"lang": {{Labels: []LabelJSON{{Value: "en"}}}}},
			},
		},
	}

	rec, err := Ingest(dict, dj, indexer)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if rec.Metadata["external_key"] != "corpus/doc-42" {
		t.Fatalf("expected external_key folded into metadata, got %#v", rec.Metadata)
	}

	out := Export(rec, dict, taggers)
	if out.ExternalKey != "corpus/doc-42" {
		t.Fatalf("expected external_key lifted back out, got %q", out.ExternalKey)
	}
	if out.Stat == nil || out.Stat["chars"] != float64(5) {
		t.Fatalf("expected stat to round-trip, got %#v", out.Stat)
	}
	if _, leaked := out.Meta["external_key"]; leaked {
		t.Fatalf("external_key must not remain in meta after export")
	}
	if out.Meta["source"] != "unit-test" {
		t.Fatalf("expected caller meta to survive, got %#v", out.Meta)
	}
}

func TestIngestParentIndexRoundTrip(t *testing.T) {
	dict := codedict.New()
	indexer := func(sig tagger.Signature) int { return 0 }

	dj := DocumentJSON{
		Text: "the quick fox",
		Taggers: []TaggerBlockJSON{
			{
				Tagger: map[string]interface{}{"type": "dep-parser"},
				Tags: map[string][]TagJSON{
					"dep": {
						{Start: intPtr(4), End: intPtr(9)},                  // index 0: root
						{Start: intPtr(0), End: intPtr(3), Parent: intPtr(0)}, // index 1: child of 0
					},
				},
			},
		},
	}

	rec, err := Ingest(dict, dj, indexer)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	// After Finalize, the earlier-span tag ("the", [0,3)) sorts first, and
	// its parent index must be remapped to point at the later-span ("quick",
	// [4,9)) tag's new position.
	tags := rec.Codes[0].Tags
	if tags[0].Parent != 1 {
		t.Fatalf("expected first tag's parent to be remapped to 1, got %d", tags[0].Parent)
	}
	if tags[1].Parent != document.NoParent {
		t.Fatalf("expected root tag to keep NoParent, got %d", tags[1].Parent)
	}
}
