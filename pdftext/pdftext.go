// Package pdftext extracts plain text from PDF documents.
package pdftext

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extract reads the PDF at path and returns the text of every page, joined
// by newlines. Pages without extractable text contribute an empty string.
func Extract(path string) (text string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("pdftext: failed to open %s: %w", path, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("pdftext: failed to stat %s: %w", path, err)
	}
	return ExtractReader(f, fi.Size())
}

// ExtractReader is Extract for a PDF held in r.
func ExtractReader(r io.ReaderAt, size int64) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("pdftext: failed to read document: %v", p)
		}
	}()
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("pdftext: failed to read document: %w", err)
	}
	n := reader.NumPage()
	pages := make([]string, n)
	for i := range n {
		pages[i] = pageText(reader.Page(i + 1))
	}
	return strings.Join(pages, "\n"), nil
}

func pageText(p pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
