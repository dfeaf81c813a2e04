package driving

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// IngestStats summarises an ingest run.
type IngestStats struct {
	// DocumentID is the ingested document.
	DocumentID string

	// Title is the document title.
	Title string

	// Chunks is the number of chunks in the index for the document.
	Chunks int

	// Pages is the document page count.
	Pages int

	// Reused is true when a previously persisted index was reused
	// instead of re-ingesting.
	Reused bool
}

// PipelineService is the caller-facing surface of the RAG pipeline.
type PipelineService interface {
	// EnsureIngested makes sure the document is present in the vector
	// index, running the ingest path (chunk, embed, persist) when the
	// index is empty or force is true.
	EnsureIngested(ctx context.Context, force bool) (IngestStats, error)

	// Retrieve embeds the question and returns the top-k most similar
	// chunks. k <= 0 uses the configured default.
	Retrieve(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error)

	// Answer runs the query path: retrieve, build prompt, generate.
	// The returned answer carries the retrieval results it was grounded
	// on. k <= 0 uses the configured default.
	Answer(ctx context.Context, question string, k int) (*domain.Answer, error)
}
