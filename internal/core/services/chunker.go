package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of bytes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping bytes
// between consecutive chunks.
const DefaultChunkOverlap = 200

// Chunker splits document text into fixed-size overlapping windows.
// Chunk i+1 begins at end(i) - overlap, so consecutive chunks share
// context across the boundary; the final chunk always ends at the end
// of the text.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker. chunkSize and overlap must be positive
// with overlap < chunkSize; anything else fails with
// domain.ErrInvalidChunking.
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size %d: %w", chunkSize, domain.ErrInvalidChunking)
	}
	if overlap <= 0 {
		return nil, fmt.Errorf("overlap %d: %w", overlap, domain.ErrInvalidChunking)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("overlap %d >= chunk size %d: %w", overlap, chunkSize, domain.ErrInvalidChunking)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap length.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits the document text into ordered chunks covering the full
// text with no gaps. Each chunk carries its byte offsets, ordinal
// position, and the page at its start offset. Empty text yields no
// chunks; text shorter than the chunk size yields exactly one.
func (c *Chunker) Chunk(doc *domain.Document) []domain.Chunk {
	text := doc.Text
	n := len(text)
	if n == 0 {
		return nil
	}

	estimated := n/(c.chunkSize-c.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	position := 0
	for {
		end := start + c.chunkSize
		if end > n {
			end = n
		}

		chunks = append(chunks, domain.Chunk{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			Text:        text[start:end],
			StartOffset: start,
			EndOffset:   end,
			Position:    position,
			Page:        doc.PageAt(start),
		})
		position++

		if end == n {
			break
		}

		// overlap < chunkSize, so the next start always advances.
		start = end - c.overlap
	}

	return chunks
}
