package main

import (
	"encoding/json"
	"fmt"

	"github.com/aqua777/krait"
	"github.com/nlabel/arriba/arriba"
	"github.com/nlabel/arriba/bahia"
	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/docview"
	"github.com/nlabel/arriba/selector"
	"github.com/nlabel/arriba/tagger"
	"go.uber.org/zap"
)

func openArchive(path string) (*arriba.Reader, error) {
	if krait.GetBool(KeyVerbose) {
		log, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}
		return arriba.OpenWithLogger(path, log)
	}
	return arriba.Open(path)
}

func runInfo(args []string) error {
	r, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	taggers, err := r.Taggers()
	if err != nil {
		return err
	}
	dict := r.Dict()

	fmt.Printf("documents: %d\n", r.Len())
	fmt.Printf("taggers:   %d\n", len(taggers))
	for i, t := range taggers {
		sig, _ := t.Signature.Canonical()
		fmt.Printf("  [%d] %s\n%s", i, t.GUID, indent(string(sig)))
	}
	fmt.Printf("codes:     %d\n", dict.Len())
	for i := 0; i < dict.Len(); i++ {
		c := dict.Code(i)
		fmt.Printf("  [%d] tagger %d, %q (%d distinct values)\n", i, c.Tagger, c.Name, c.Len())
	}
	return nil
}

func indent(s string) string {
	out := "      "
	for _, r := range s {
		out += string(r)
		if r == '\n' {
			out += "      "
		}
	}
	return out + "\n"
}

func runDocs(args []string) error {
	r, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	for i := 0; i < r.Len(); i++ {
		rec, err := r.ReadDocumentTolerant(i)
		if err != nil {
			return err
		}
		if rec == nil {
			continue
		}
		externalKey, _ := rec.Metadata["external_key"].(string)
		fmt.Printf("[%d] %d bytes", i, len(rec.Text))
		if externalKey != "" {
			fmt.Printf(" (%s)", externalKey)
		}
		fmt.Println()
	}
	return nil
}

// resolveView builds the view runCat and runExport read a document through:
// an explicit tagger selector restricted to that tagger's own codes, or the
// archive-wide default view when no selector is given.
func resolveView(dict *codedict.Dict, taggers []*tagger.Tagger, selectJSON string) (*selector.View, error) {
	if selectJSON == "" {
		return selector.DefaultView(dict)
	}

	var q selector.Query
	if err := json.Unmarshal([]byte(selectJSON), &q); err != nil {
		return nil, fmt.Errorf("parsing --select: %w", err)
	}
	taggerIdx, err := selector.Resolve(taggers, q)
	if err != nil {
		return nil, err
	}

	var specs []selector.TagSpec
	for _, codeIdx := range dict.CodesForTagger(taggerIdx) {
		specs = append(specs, selector.TagSpec{
			TaggerIdx: taggerIdx,
			TagName:   dict.Code(codeIdx).Name,
		})
	}
	return selector.NewView(dict, specs)
}

func runCat(args []string) error {
	r, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	dict := r.Dict()
	taggers, err := r.Taggers()
	if err != nil {
		return err
	}
	view, err := resolveView(dict, taggers, krait.GetString(KeySelect))
	if err != nil {
		return err
	}

	rec, err := r.ReadDocument(krait.GetInt(KeyDoc))
	if err != nil {
		return err
	}
	doc := docview.New(rec, dict, view)

	fmt.Println(doc.Text())
	fmt.Println("---")

	names := view.Names()
	if only := krait.GetString(KeyTag); only != "" {
		names = []string{only}
	}

	for _, name := range names {
		tags, err := doc.Root().Contained(name)
		if err != nil {
			return err
		}
		for _, t := range tags {
			sp, _ := t.Of().Span()
			fmt.Printf("%s [%d:%d] %q -> %v\n", name, sp.Start, sp.End, doc.Text()[sp.Start:sp.End], t.Project())
		}
	}
	return nil
}

func runExport(args []string) error {
	r, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	dict := r.Dict()
	taggers, err := r.Taggers()
	if err != nil {
		return err
	}
	rec, err := r.ReadDocument(krait.GetInt(KeyDoc))
	if err != nil {
		return err
	}

	out := bahia.Export(rec, dict, taggers)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling bahia document: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
