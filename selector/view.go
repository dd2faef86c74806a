package selector

import (
	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/errs"
)

// LabelType names how a tag's labels project through the doc facade.
type LabelType string

const (
	// LabelTypeStr joins label values with "|"; the default for most tag names.
	LabelTypeStr LabelType = "str"
	// LabelTypeStrs exposes label values as a string slice; the default
	// for morphological tag names (morph, feats), whose values are
	// feature lists rather than a single atom.
	LabelTypeStrs LabelType = "strs"
	// LabelTypeLabels exposes the full (value, score) pairs.
	LabelTypeLabels LabelType = "labels"
)

// morphDefaultNames are tag names that default to LabelTypeStrs instead of
// LabelTypeStr.
var morphDefaultNames = map[string]bool{
	"morph": true,
	"feats": true,
}

// DefaultLabelType returns the label type a tag name projects as when the
// caller hasn't specified one.
func DefaultLabelType(tagName string) LabelType {
	if morphDefaultNames[tagName] {
		return LabelTypeStrs
	}
	return LabelTypeStr
}

// TagSpec picks one tag name from a selected tagger, optionally renaming it
// and overriding its label-type projection on the facade.
type TagSpec struct {
	TaggerIdx int
	TagName   string
	ExportAs  string // empty means "export under TagName"
	LabelType LabelType
}

func (s TagSpec) exportName() string {
	if s.ExportAs != "" {
		return s.ExportAs
	}
	return s.TagName
}

func (s TagSpec) labelType() LabelType {
	if s.LabelType != "" {
		return s.LabelType
	}
	return DefaultLabelType(s.TagName)
}

// ResolvedTag is one entry of a resolved View: which code to read, and how
// to project its labels.
type ResolvedTag struct {
	TaggerIdx int
	TagName   string
	CodeIdx   int
	LabelType LabelType
}

// View is an ordered, name-resolved list of tag specs, possibly spanning
// several taggers. Entries are kept in the order they were supplied (or, for
// a synthesized default view, in code registration order), since the doc
// facade groups iteration by the view's own order.
type View struct {
	order   []string
	entries map[string]ResolvedTag
}

// Names returns the view's export names in iteration order.
func (v *View) Names() []string {
	return v.order
}

// Lookup returns the resolved tag for an export name.
func (v *View) Lookup(name string) (ResolvedTag, bool) {
	rt, ok := v.entries[name]
	return rt, ok
}

// NewView resolves an explicit list of tag specs against dict into a View.
// It fails with errs.KindNameClash if two specs export the same name.
func NewView(dict *codedict.Dict, specs []TagSpec) (*View, error) {
	v := &View{entries: make(map[string]ResolvedTag, len(specs))}
	for _, spec := range specs {
		name := spec.exportName()
		if _, exists := v.entries[name]; exists {
			return nil, errs.New(errs.KindNameClash, "view exports %q more than once", name)
		}
		codeIdx, ok := dict.Lookup(spec.TaggerIdx, spec.TagName)
		if !ok {
			return nil, errs.New(errs.KindNoMatch, "tagger %d has no tag named %q", spec.TaggerIdx, spec.TagName)
		}
		v.entries[name] = ResolvedTag{
			TaggerIdx: spec.TaggerIdx,
			TagName:   spec.TagName,
			CodeIdx:   codeIdx,
			LabelType: spec.labelType(),
		}
		v.order = append(v.order, name)
	}
	return v, nil
}

// DefaultView synthesizes a view over every code in dict, exported under
// its own tag name. It fails with errs.KindAmbiguousTags if two codes from
// different taggers share a tag name: with no view supplied and names
// overlapping, there is no unambiguous default.
func DefaultView(dict *codedict.Dict) (*View, error) {
	byName := make(map[string][]int)
	for i := 0; i < dict.Len(); i++ {
		name := dict.Code(i).Name
		byName[name] = append(byName[name], i)
	}

	v := &View{entries: make(map[string]ResolvedTag)}
	for i := 0; i < dict.Len(); i++ {
		code := dict.Code(i)
		if len(byName[code.Name]) > 1 {
			return nil, errs.New(errs.KindAmbiguousTags, "tag name %q is produced by more than one tagger; supply an explicit view", code.Name)
		}
		v.entries[code.Name] = ResolvedTag{
			TaggerIdx: code.Tagger,
			TagName:   code.Name,
			CodeIdx:   i,
			LabelType: DefaultLabelType(code.Name),
		}
		v.order = append(v.order, code.Name)
	}
	return v, nil
}
