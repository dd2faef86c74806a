// Package ingest implements thin NLP pipeline adapters that turn
// third-party extraction/tokenization/embedding libraries into calls
// against the core document model (document.Document). Adapters never
// touch an archive, a selector or a view directly.
package ingest

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText extracts the plain text of every page in a PDF file, joined with
// blank lines between pages, for use as a document's Text.
func PDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
