// Package bahiazip implements the zip-of-JSON-documents container for the
// bahia interchange format: one archive/zip entry per document, each a
// bahia.DocumentJSON.
package bahiazip

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/nlabel/arriba/bahia"
)

// Writer appends bahia documents as zip entries. Entry names are caller
// supplied so the corpus can carry meaningful document keys (e.g. an
// external_key) instead of positional indices.
type Writer struct {
	f  *os.File
	zw *zip.Writer
}

// Create opens a new bahia zip corpus for writing.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating bahia zip %s: %w", path, err)
	}
	return &Writer{f: f, zw: zip.NewWriter(f)}, nil
}

// WriteDocument adds dj as a new entry named name+".json".
func (w *Writer) WriteDocument(name string, dj bahia.DocumentJSON) error {
	entry, err := w.zw.Create(name + ".json")
	if err != nil {
		return fmt.Errorf("creating zip entry %s: %w", name, err)
	}
	enc := json.NewEncoder(entry)
	if err := enc.Encode(dj); err != nil {
		return fmt.Errorf("encoding document %s: %w", name, err)
	}
	return nil
}

// Close flushes the zip directory and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("closing bahia zip writer: %w", err)
	}
	return w.f.Close()
}

// Reader is a random-access handle onto a bahia zip corpus.
type Reader struct {
	zr     *zip.ReadCloser
	byName map[string]*zip.File
	names  []string
}

// Open opens an existing bahia zip corpus for reading.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening bahia zip %s: %w", path, err)
	}

	byName := make(map[string]*zip.File, len(zr.File))
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
		names = append(names, f.Name)
	}
	sort.Strings(names)

	return &Reader{zr: zr, byName: byName, names: names}, nil
}

// Names returns every document entry name in the corpus, sorted.
func (r *Reader) Names() []string {
	return r.names
}

// ReadDocument decodes the bahia document stored at the given entry name.
func (r *Reader) ReadDocument(name string) (bahia.DocumentJSON, error) {
	f, ok := r.byName[name]
	if !ok {
		return bahia.DocumentJSON{}, fmt.Errorf("no document entry named %q", name)
	}
	rc, err := f.Open()
	if err != nil {
		return bahia.DocumentJSON{}, fmt.Errorf("opening entry %q: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return bahia.DocumentJSON{}, fmt.Errorf("reading entry %q: %w", name, err)
	}

	var dj bahia.DocumentJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return bahia.DocumentJSON{}, fmt.Errorf("parsing entry %q: %w", name, err)
	}
	return dj, nil
}

// Close releases the underlying zip file handle.
func (r *Reader) Close() error {
	return r.zr.Close()
}
