package driven

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// VectorIndex is the persistent store of embedded chunks supporting
// nearest-neighbour similarity search. The index owns its entries; no
// other component mutates them directly.
//
// An absent or empty backing store is an empty index, not an error - the
// orchestrator uses that to decide whether ingestion must run. A store
// that fails to deserialize surfaces domain.ErrIndexCorrupt.
type VectorIndex interface {
	// Replace atomically swaps the document's entries for the given
	// chunk set (whole-document replace, not merge). On failure the
	// previously persisted entries remain untouched.
	Replace(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// Search returns up to k entries ranked by descending cosine
	// similarity, ties broken by ascending chunk position. k larger
	// than the entry count returns all entries; k <= 0 does too.
	Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// HasDocument reports whether entries for the document exist.
	HasDocument(ctx context.Context, documentID string) (bool, error)

	// Close releases resources.
	Close() error
}
