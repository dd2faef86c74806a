package bahiazip

import (
	"fmt"

	"github.com/nlabel/arriba/arriba"
	"github.com/nlabel/arriba/bahia"
	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/tagger"
)

// ImportToArriba ingests every document in a bahia zip corpus into a new
// arriba archive at outPath, interning taggers and codes into a single
// shared dictionary as it goes. It returns the number of documents
// written.
func ImportToArriba(zipPath, outPath string) (int, error) {
	zr, err := Open(zipPath)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	dict := codedict.New()
	w, err := arriba.Create(outPath, dict)
	if err != nil {
		return 0, err
	}

	taggerIdx := make(map[string]int)
	indexer := func(sig tagger.Signature) int {
		key := mustCanonical(sig)
		if idx, ok := taggerIdx[key]; ok {
			return idx
		}
		t := tagger.New(sig)
		idx := w.RegisterTagger(t)
		taggerIdx[key] = idx
		return idx
	}

	n := 0
	for _, name := range zr.Names() {
		dj, err := zr.ReadDocument(name)
		if err != nil {
			w.Close()
			return n, err
		}
		rec, err := bahia.Ingest(dict, dj, indexer)
		if err != nil {
			w.Close()
			return n, fmt.Errorf("ingesting %s: %w", name, err)
		}
		if _, err := w.Append(rec); err != nil {
			w.Close()
			return n, fmt.Errorf("appending %s: %w", name, err)
		}
		n++
	}

	if err := w.Close(); err != nil {
		return n, err
	}
	return n, nil
}

// ExportFromArriba reads every document out of an arriba archive and
// writes it back as a bahia zip corpus at outPath. Entries are named by
// each document's external_key when it has one, falling back to doc-0,
// doc-1, ... in archive order.
func ExportFromArriba(arrivaPath, outPath string) (int, error) {
	r, err := arriba.Open(arrivaPath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	dict := r.Dict()
	taggers, err := r.Taggers()
	if err != nil {
		return 0, err
	}

	zw, err := Create(outPath)
	if err != nil {
		return 0, err
	}

	for i := 0; i < r.Len(); i++ {
		rec, err := r.ReadDocument(i)
		if err != nil {
			zw.Close()
			return i, fmt.Errorf("reading document %d: %w", i, err)
		}
		dj := bahia.Export(rec, dict, taggers)
		name := dj.ExternalKey
		if name == "" {
			name = fmt.Sprintf("doc-%d", i)
		}
		if err := zw.WriteDocument(name, dj); err != nil {
			zw.Close()
			return i, err
		}
	}

	if err := zw.Close(); err != nil {
		return r.Len(), err
	}
	return r.Len(), nil
}

func mustCanonical(sig tagger.Signature) string {
	b, err := sig.Canonical()
	if err != nil {
		panic(err)
	}
	return string(b)
}
