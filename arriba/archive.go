// Package arriba implements the binary columnar archive container: the
// self-describing envelope that holds a tagger table, a code dictionary,
// a document index, and the concatenated document records they describe.
package arriba

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"

	"github.com/nlabel/arriba/codedict"
	"github.com/nlabel/arriba/document"
	"github.com/nlabel/arriba/errs"
	"github.com/nlabel/arriba/tagger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// magic identifies an arriba archive file.
var magic = [8]byte{'A', 'R', 'R', 'I', 'B', 'A', '1', '\n'}

// CurrentVersion is the format version this package writes and the newest
// version it knows how to read.
const CurrentVersion uint64 = 1

// taggerRecord is a Tagger as written into the header: its signature is
// stored as plain (non-canonical) YAML so it round-trips back into the
// same structured map a reader can re-wrap as a tagger.Signature.
type taggerRecord struct {
	GUID      string `json:"guid"`
	Signature string `json:"signature"`
	Codes     []int  `json:"codes"`
}

// codeRecord is a Code as written into the header.
type codeRecord struct {
	Tagger int      `json:"tagger"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// documentRef locates one document record within the document blob that
// follows the header, as an offset range relative to the blob's start.
type documentRef struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// header is the archive's self-describing metadata block.
type header struct {
	Version   uint64        `json:"version"`
	Taggers   []taggerRecord `json:"taggers"`
	Codes     []codeRecord   `json:"codes"`
	Documents []documentRef  `json:"documents"`
}

// documentOnDisk is the self-describing message for one document record.
// Spans travel as packed starts/lens columns, not as structs, so their
// widths adapt per document like every other column.
type documentOnDisk struct {
	Text  string                    `json:"text"`
	Meta  json.RawMessage           `json:"meta,omitempty"`
	Spans document.PackedSpans      `json:"spans"`
	Codes []document.PackedCodeData `json:"codes"`
}

// Writer appends document records to a new archive file and writes the
// header, covering the tagger and code tables, when Close is called. A
// single writer owns the file for its lifetime; concurrent writers to the
// same archive are not supported (see the carenero engine for concurrent
// ingestion).
type Writer struct {
	f       *os.File
	dict    *codedict.Dict
	taggers []*tagger.Tagger
	blob    bytes.Buffer
	refs    []documentRef
	closed  bool
}

// Create opens a new archive file for writing, backed by the given code
// dictionary. Callers must RegisterTagger every tagger that will produce
// tags before calling Append, using the same index order document.AddTag
// was called with.
func Create(path string, dict *codedict.Dict) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindIOFailure, err, "creating archive %s", path)
	}
	return &Writer{f: f, dict: dict}, nil
}

// RegisterTagger appends t to the archive's tagger table and returns its
// index -- the value document.AddTag expects as taggerIdx.
func (w *Writer) RegisterTagger(t *tagger.Tagger) int {
	w.taggers = append(w.taggers, t)
	return len(w.taggers) - 1
}

// Append packs a finalized document record and adds it to the archive,
// returning the index it will be readable at.
func (w *Writer) Append(rec *document.Record) (int, error) {
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return 0, errs.Wrap(errs.KindIOFailure, err, "marshaling document metadata")
	}

	packed := make([]document.PackedCodeData, len(rec.Codes))
	for i, cd := range rec.Codes {
		packed[i] = document.PackCodeData(cd)
	}

	disk := documentOnDisk{
		Text:  rec.Text,
		Meta:  meta,
		Spans: document.PackSpans(rec.Spans),
		Codes: packed,
	}
	data, err := json.Marshal(disk)
	if err != nil {
		return 0, errs.Wrap(errs.KindIOFailure, err, "marshaling document record")
	}

	start := uint64(w.blob.Len())
	w.blob.Write(data)
	end := uint64(w.blob.Len())
	w.refs = append(w.refs, documentRef{Start: start, End: end})
	return len(w.refs) - 1, nil
}

// Close writes the header -- covering every tagger and code registered so
// far, and the document index -- followed by the document blob, and closes
// the underlying file. The archive is unreadable if the process exits
// before Close runs: arriba is a post-ingest packed format, not a
// restartable one.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	h := header{Version: CurrentVersion, Documents: w.refs}

	for i, t := range w.taggers {
		sigYAML, err := yaml.Marshal(map[string]interface{}(t.Signature))
		if err != nil {
			return errs.Wrap(errs.KindIOFailure, err, "marshaling tagger signature")
		}
		h.Taggers = append(h.Taggers, taggerRecord{
			GUID:      t.GUID,
			Signature: string(sigYAML),
			Codes:     w.dict.CodesForTagger(i),
		})
	}

	for i := 0; i < w.dict.Len(); i++ {
		c := w.dict.Code(i)
		h.Codes = append(h.Codes, codeRecord{Tagger: c.Tagger, Name: c.Name, Values: c.Values()})
	}

	headerBytes, err := json.Marshal(h)
	if err != nil {
		return errs.Wrap(errs.KindIOFailure, err, "marshaling archive header")
	}

	if _, err := w.f.Write(magic[:]); err != nil {
		return errs.Wrap(errs.KindIOFailure, err, "writing archive magic")
	}
	if err := binary.Write(w.f, binary.LittleEndian, CurrentVersion); err != nil {
		return errs.Wrap(errs.KindIOFailure, err, "writing archive version")
	}
	if err := binary.Write(w.f, binary.LittleEndian, uint64(len(headerBytes))); err != nil {
		return errs.Wrap(errs.KindIOFailure, err, "writing header length")
	}
	if _, err := w.f.Write(headerBytes); err != nil {
		return errs.Wrap(errs.KindIOFailure, err, "writing archive header")
	}
	if _, err := w.blob.WriteTo(w.f); err != nil {
		return errs.Wrap(errs.KindIOFailure, err, "writing document blob")
	}
	return w.f.Close()
}

// Reader is an immutable, thread-safe handle onto an archive file. Many
// goroutines may call ReadDocument concurrently; each read is an
// independent pread at the document's offset, so no internal locking is
// needed once the header is loaded.
type Reader struct {
	f       *os.File
	header  header
	docBase int64
	log     *zap.Logger
}

// Open validates the magic and version, loads the header, and returns a
// reader positioned to serve random-access document reads. It fails with
// errs.KindUnsupportedVersion if the archive's version is newer than
// CurrentVersion, and errs.KindCorruptArchive if the header is malformed.
func Open(path string) (*Reader, error) {
	return OpenWithLogger(path, zap.NewNop())
}

// OpenWithLogger is Open, but logs CORRUPT_ARCHIVE skips (see
// ReadDocumentTolerant) through the given logger instead of discarding them.
func OpenWithLogger(path string, log *zap.Logger) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindIOFailure, err, "opening archive %s", path)
	}

	var gotMagic [8]byte
	if _, err := io.ReadFull(f, gotMagic[:]); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.KindCorruptArchive, err, "reading archive magic")
	}
	if gotMagic != magic {
		f.Close()
		return nil, errs.New(errs.KindCorruptArchive, "not an arriba archive: bad magic")
	}

	var version uint64
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.KindCorruptArchive, err, "reading archive version")
	}
	if version > CurrentVersion {
		f.Close()
		return nil, errs.New(errs.KindUnsupportedVersion, "archive version %d is newer than %d", version, CurrentVersion)
	}

	var headerLen uint64
	if err := binary.Read(f, binary.LittleEndian, &headerLen); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.KindCorruptArchive, err, "reading header length")
	}

	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(f, headerBytes); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.KindCorruptArchive, err, "reading archive header")
	}

	var h header
	if err := json.Unmarshal(headerBytes, &h); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.KindCorruptArchive, err, "parsing archive header")
	}

	docBase := int64(len(magic)) + 8 + 8 + int64(headerLen)
	return &Reader{f: f, header: h, docBase: docBase, log: log}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if err := r.f.Close(); err != nil {
		return errs.Wrap(errs.KindIOFailure, err, "closing archive")
	}
	return nil
}

// Len returns the number of documents in the archive.
func (r *Reader) Len() int {
	return len(r.header.Documents)
}

// Dict reconstructs the archive's code dictionary. Re-interning each
// code's values in their stored (append) order reproduces the exact ids
// that were assigned at write time.
func (r *Reader) Dict() *codedict.Dict {
	dict := codedict.New()
	for _, cr := range r.header.Codes {
		dict.EnsureRegistered(cr.Tagger, cr.Name)
		idx, _ := dict.Lookup(cr.Tagger, cr.Name)
		code := dict.Code(idx)
		for _, v := range cr.Values {
			code.InternValue(v)
		}
	}
	return dict
}

// Taggers reconstructs the archive's tagger table, in registration order.
func (r *Reader) Taggers() ([]*tagger.Tagger, error) {
	out := make([]*tagger.Tagger, len(r.header.Taggers))
	for i, tr := range r.header.Taggers {
		var sig map[string]interface{}
		if err := yaml.Unmarshal([]byte(tr.Signature), &sig); err != nil {
			return nil, errs.Wrap(errs.KindCorruptArchive, err, "parsing tagger %d signature", i)
		}
		out[i] = &tagger.Tagger{GUID: tr.GUID, Signature: tagger.Signature(sig), Codes: tr.Codes}
	}
	return out, nil
}

// ReadDocument reads and unpacks the document record at index i.
func (r *Reader) ReadDocument(i int) (*document.Record, error) {
	if i < 0 || i >= len(r.header.Documents) {
		return nil, errs.New(errs.KindOutOfRange, "document index %d out of range (archive has %d documents)", i, len(r.header.Documents))
	}
	ref := r.header.Documents[i]
	data := make([]byte, ref.End-ref.Start)
	if _, err := r.f.ReadAt(data, r.docBase+int64(ref.Start)); err != nil {
		return nil, errs.Wrap(errs.KindIOFailure, err, "reading document %d", i)
	}

	var disk documentOnDisk
	if err := json.Unmarshal(data, &disk); err != nil {
		return nil, errs.Wrap(errs.KindCorruptArchive, err, "parsing document %d", i)
	}

	spans, err := document.UnpackSpans(disk.Spans)
	if err != nil {
		return nil, errs.Wrap(errs.KindCorruptArchive, err, "unpacking document %d spans", i)
	}
	for _, sp := range spans {
		if sp.End > len(disk.Text) {
			return nil, errs.New(errs.KindCorruptArchive, "document %d: span %v exceeds %d-byte text", i, sp, len(disk.Text))
		}
	}

	codes := make([]document.CodeData, len(disk.Codes))
	for j, pc := range disk.Codes {
		cd, err := document.UnpackCodeData(pc)
		if err != nil {
			return nil, errs.Wrap(errs.KindCorruptArchive, err, "unpacking document %d code %d", i, j)
		}
		codes[j] = cd
	}

	var meta map[string]interface{}
	if len(disk.Meta) > 0 {
		if err := json.Unmarshal(disk.Meta, &meta); err != nil {
			return nil, errs.Wrap(errs.KindCorruptArchive, err, "parsing document %d metadata", i)
		}
	}

	return &document.Record{
		Text:     disk.Text,
		Metadata: meta,
		Spans:    spans,
		Codes:    codes,
	}, nil
}

// ReadDocumentTolerant is ReadDocument, but on a CORRUPT_ARCHIVE error it
// logs the failure and returns (nil, nil) instead of propagating the
// error, so a single damaged document doesn't stop iteration over its
// siblings.
func (r *Reader) ReadDocumentTolerant(i int) (*document.Record, error) {
	rec, err := r.ReadDocument(i)
	if err != nil {
		if errs.Is(err, errs.KindCorruptArchive) {
			r.log.Warn("skipping corrupt document", zap.Int("index", i), zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}
