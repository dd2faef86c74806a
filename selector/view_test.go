package selector

import (
	"testing"

	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/errs"
)

func TestDefaultViewSucceedsWithoutClash(t *testing.T) {
	dict := codedict.New()
	dict.EnsureRegistered(0, "ent")
	dict.EnsureRegistered(0, "token")
	dict.EnsureRegistered(0, "pos")

	v, err := DefaultView(dict)
	if err != nil {
		t.Fatalf("DefaultView: %v", err)
	}
	if len(v.Names()) != 3 {
		t.Fatalf("expected 3 names, got %v", v.Names())
	}
	rt, ok := v.Lookup("pos")
	if !ok || rt.TagName != "pos" {
		t.Fatalf("expected to resolve pos, got %+v, %v", rt, ok)
	}
}

func TestDefaultViewFailsOnOverlappingTagNames(t *testing.T) {
	// Two taggers both producing "pos" with no explicit view.
	dict := codedict.New()
	dict.EnsureRegistered(0, "pos") // spacy.pos
	dict.EnsureRegistered(1, "pos") // stanza.pos

	_, err := DefaultView(dict)
	if !errs.Is(err, errs.KindAmbiguousTags) {
		t.Fatalf("expected KindAmbiguousTags, got %v", err)
	}
}

func TestExplicitViewResolvesClashWithRename(t *testing.T) {
	// Renaming one side of the clash makes both exportable.
	dict := codedict.New()
	dict.EnsureRegistered(0, "pos")
	dict.EnsureRegistered(1, "pos")

	v, err := NewView(dict, []TagSpec{
		{TaggerIdx: 0, TagName: "pos"},
		{TaggerIdx: 1, TagName: "pos", ExportAs: "st_pos"},
	})
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	if len(v.Names()) != 2 {
		t.Fatalf("expected 2 exported names, got %v", v.Names())
	}
	if _, ok := v.Lookup("pos"); !ok {
		t.Fatalf("expected 'pos' to be exported")
	}
	if _, ok := v.Lookup("st_pos"); !ok {
		t.Fatalf("expected 'st_pos' to be exported")
	}
}

func TestNewViewFailsOnNameClash(t *testing.T) {
	dict := codedict.New()
	dict.EnsureRegistered(0, "pos")
	dict.EnsureRegistered(1, "pos")

	_, err := NewView(dict, []TagSpec{
		{TaggerIdx: 0, TagName: "pos"},
		{TaggerIdx: 1, TagName: "pos"}, // no rename -> clash
	})
	if !errs.Is(err, errs.KindNameClash) {
		t.Fatalf("expected KindNameClash, got %v", err)
	}
}

func TestDefaultLabelTypeForMorphTags(t *testing.T) {
	if DefaultLabelType("morph") != LabelTypeStrs {
		t.Fatalf("expected morph to default to strs")
	}
	if DefaultLabelType("feats") != LabelTypeStrs {
		t.Fatalf("expected feats to default to strs")
	}
	if DefaultLabelType("pos") != LabelTypeStr {
		t.Fatalf("expected pos to default to str")
	}
}
