package main

import (
	"fmt"
	"os"

	"github.com/aqua777/krait"

	"github.com/nlabel/arriba/arriba"
	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/document"
	"github.com/nlabel/arriba/ingest"
	"github.com/nlabel/arriba/tagger"
)

// runIngest builds a new single-document archive from a plain text (or,
// with --pdf, PDF) file: it runs the tiktoken adapter over the extracted
// text and registers a synthetic "ingest-cli" tagger for the resulting
// token spans.
func runIngest(args []string) error {
	inputPath := args[0]
	outPath := args[1]

	var text string
	if krait.GetBool(KeyPDF) {
		t, err := ingest.PDFText(inputPath)
		if err != nil {
			return err
		}
		text = t
	} else {
		b, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", inputPath, err)
		}
		text = string(b)
	}

	meta := map[string]interface{}{}
	if ext := krait.GetString(KeyExternal); ext != "" {
		meta["external_key"] = ext
	}

	dict := codedict.New()
	w, err := arriba.Create(outPath, dict)
	if err != nil {
		return err
	}

	sig := tagger.Signature{"type": "ingest-cli", "library": map[string]interface{}{"name": "arriba-ingest"}}
	taggerIdx := w.RegisterTagger(tagger.New(sig))

	doc := document.New(dict, text, meta)

	tok, err := ingest.NewTikTokenTagger(krait.GetString(KeyEncoding))
	if err != nil {
		return err
	}
	if _, err := tok.Tag(doc, taggerIdx); err != nil {
		return err
	}

	rec := doc.Finalize()
	if _, err := w.Append(rec); err != nil {
		return err
	}
	return w.Close()
}
