package ingest

import "testing"

func TestPDFTextMissingFile(t *testing.T) {
	if _, err := PDFText("/nonexistent/path/to/file.pdf"); err == nil {
		t.Fatalf("expected an error opening a missing PDF file")
	}
}
