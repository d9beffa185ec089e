// Package pdftexttest builds PDF documents for tests.
package pdftexttest

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// New returns a PDF with one page per entry in pages. An empty string
// produces a page with no text.
func New(t testing.TB, pages ...string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		if text != "" {
			doc.MultiCell(0, 6, text, "", "L", false)
		}
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("failed to create PDF: %v", err)
	}
	return buf.Bytes()
}
