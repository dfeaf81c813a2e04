package domain

import "time"

// PageBoundary marks the byte offset at which a page begins within the
// extracted document text. Boundaries are ordered by ascending offset.
type PageBoundary struct {
	// Page is the 1-based page number.
	Page int

	// Offset is the byte offset of the first character on the page.
	Offset int
}

// Document is the full extracted text of one report, immutable once loaded.
// The core never parses the source PDF; it receives text plus the page
// boundary table from the extraction step.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Text is the complete extracted text before chunking.
	Text string

	// Pages is the page boundary table, ordered by ascending offset.
	Pages []PageBoundary

	// PageCount is the total number of pages in the source document.
	PageCount int

	// LoadedAt is when the document was loaded.
	LoadedAt time.Time
}

// PageAt returns the page number containing the given byte offset.
// Unknown offsets (empty table, negative offset) resolve to page 1.
func (d *Document) PageAt(offset int) int {
	page := 1
	for _, b := range d.Pages {
		if b.Offset > offset {
			break
		}
		page = b.Page
	}
	return page
}

// Chunk is a contiguous window of a document's text, the unit of retrieval.
// Chunks are produced once by the chunker and never mutated; re-ingesting a
// document replaces its whole chunk set.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Text is the chunk's text content.
	Text string

	// StartOffset and EndOffset are byte offsets into the document text,
	// so Text == document.Text[StartOffset:EndOffset].
	StartOffset int
	EndOffset   int

	// Position is the ordinal position within the document.
	Position int

	// Page is the page at StartOffset, resolved from the boundary table.
	Page int

	// Embedding is the vector representation for similarity search.
	Embedding []float32
}
