package selector

import (
	"testing"

	"github.com/nlabel/arriba/errs"
	"github.com/nlabel/arriba/tagger"
)

func spacySignature() tagger.Signature {
	return tagger.Signature{"library": map[string]interface{}{"name": "spacy", "version": "3.2.1"}}
}

func stanzaSignature() tagger.Signature {
	return tagger.Signature{"library": map[string]interface{}{"name": "stanza"}}
}

func TestResolveSelectsByDottedKey(t *testing.T) {
	taggers := []*tagger.Tagger{tagger.New(spacySignature()), tagger.New(stanzaSignature())}

	idx, err := Resolve(taggers, Query{"library.name": "spacy"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if idx != 0 {
		t.Fatalf("expected spacy tagger (index 0), got %d", idx)
	}
}

func TestResolveAmbiguousOnEmptySubtree(t *testing.T) {
	// The selector {"library": {}} matches both taggers structurally (an
	// empty nested map has no leaves to fail matching), so it's AMBIGUOUS.
	taggers := []*tagger.Tagger{tagger.New(spacySignature()), tagger.New(stanzaSignature())}

	_, err := Resolve(taggers, Query{"library": map[string]interface{}{}})
	if !errs.Is(err, errs.KindAmbiguous) {
		t.Fatalf("expected KindAmbiguous, got %v", err)
	}
}

func TestResolveNoMatch(t *testing.T) {
	taggers := []*tagger.Tagger{tagger.New(spacySignature())}
	_, err := Resolve(taggers, Query{"library.name": "nltk"})
	if !errs.Is(err, errs.KindNoMatch) {
		t.Fatalf("expected KindNoMatch, got %v", err)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	taggers := []*tagger.Tagger{tagger.New(spacySignature()), tagger.New(stanzaSignature())}
	q := Query{"library.name": "spacy"}

	first, err := Resolve(taggers, q)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := Resolve(taggers, q)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got != first {
			t.Fatalf("expected deterministic resolution, got %d then %d", first, got)
		}
	}
}
