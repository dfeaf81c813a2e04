package domain

import "unicode/utf8"

// RetrievedChunk is a single similarity search hit.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Similarity is the cosine similarity to the query vector.
	Similarity float64
}

// Excerpt returns a short preview of the chunk text for citation display.
// The cut falls on a rune boundary so the preview is always valid UTF-8.
func (r RetrievedChunk) Excerpt(maxLen int) string {
	if maxLen <= 0 || len(r.Chunk.Text) <= maxLen {
		return r.Chunk.Text
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(r.Chunk.Text[cut]) {
		cut--
	}
	return r.Chunk.Text[:cut] + "..."
}

// Answer is a generated response together with the retrieval results it was
// grounded on. Sources are ordered by descending similarity so callers can
// render citations even when the generated text omits page numbers.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Model is the language model that produced the answer.
	Model string

	// Sources are the retrieved chunks the prompt was built from.
	Sources []RetrievedChunk
}
