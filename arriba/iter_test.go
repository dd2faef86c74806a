package arriba

import (
	"path/filepath"
	"testing"

	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/document"
	"github.com/nlabel/arriba/errs"
	"github.com/nlabel/arriba/selector"
	"github.com/nlabel/arriba/tagger"
)

// writeClashArchive writes an archive where spacy and stanza both produce
// a "pos" code over the same text.
func writeClashArchive(t *testing.T, path string) {
	t.Helper()
	dict := codedict.New()
	w, err := Create(path, dict)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	spacyIdx := w.RegisterTagger(tagger.New(tagger.Signature{"library": map[string]interface{}{"name": "spacy"}}))
	stanzaIdx := w.RegisterTagger(tagger.New(tagger.Signature{"library": map[string]interface{}{"name": "stanza"}}))

	doc := document.New(dict, "San Francisco", nil)
	sp, _ := doc.AddSpan(0, 3)
	doc.AddTag(spacyIdx, "pos", sp, []document.LabelInput{{Value: "PROPN", Score: document.NoScore()}}, document.NoParent)
	doc.AddTag(stanzaIdx, "pos", sp, []document.LabelInput{{Value: "NOUN", Score: document.NoScore()}}, document.NoParent)

	if _, err := w.Append(doc.Finalize()); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestIterWithoutViewFailsOnOverlappingTagNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clash.arriba")
	writeClashArchive(t, path)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	_, err = r.Iter(nil)
	if !errs.Is(err, errs.KindAmbiguousTags) {
		t.Fatalf("expected KindAmbiguousTags iterating without a view, got %v", err)
	}
}

func TestIterWithExplicitViewResolvesClash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clash.arriba")
	writeClashArchive(t, path)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	view, err := selector.NewView(r.Dict(), []selector.TagSpec{
		{TaggerIdx: 0, TagName: "pos"},
		{TaggerIdx: 1, TagName: "pos", ExportAs: "st_pos"},
	})
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}

	cur, err := r.Iter(view)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}

	doc, err := cur.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if doc == nil {
		t.Fatalf("expected one document")
	}

	spacyPos, err := doc.Root().Contained("pos")
	if err != nil {
		t.Fatalf("Contained(pos): %v", err)
	}
	stanzaPos, err := doc.Root().Contained("st_pos")
	if err != nil {
		t.Fatalf("Contained(st_pos): %v", err)
	}
	if len(spacyPos) != 1 || spacyPos[0].Str() != "PROPN" {
		t.Fatalf("expected spacy pos PROPN under 'pos', got %v", spacyPos)
	}
	if len(stanzaPos) != 1 || stanzaPos[0].Str() != "NOUN" {
		t.Fatalf("expected stanza pos NOUN under 'st_pos', got %v", stanzaPos)
	}

	doc, err = cur.Next()
	if err != nil {
		t.Fatalf("Next at end: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected cursor exhaustion after the single document")
	}
}

func TestIterYieldsInInsertionOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordered.arriba")
	dict := codedict.New()
	w, err := Create(path, dict)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	taggerIdx := w.RegisterTagger(tagger.New(tagger.Signature{"type": "noop"}))

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		doc := document.New(dict, text, nil)
		sp, _ := doc.AddSpan(0, len(text))
		doc.AddTag(taggerIdx, "token", sp, nil, document.NoParent)
		if _, err := w.Append(doc.Finalize()); err != nil {
			t.Fatalf("Append(%q): %v", text, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	cur, err := r.Iter(nil)
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	var got []string
	for {
		doc, err := cur.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if doc == nil {
			break
		}
		got = append(got, doc.Text())
	}
	if len(got) != 3 || got[0] != "first" || got[1] != "second" || got[2] != "third" {
		t.Fatalf("expected insertion order, got %v", got)
	}
}
