package models

import "fmt"

// Plain text responses of the upload and ask endpoints.
const (
	NoTextExtracted    = "No text extracted."
	NoDocumentsIndexed = "No documents indexed yet. Upload PDFs first."
)

func IndexedChunks(n int) string {
	return fmt.Sprintf("Indexed %d chunks.", n)
}
