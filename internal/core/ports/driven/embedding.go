package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Error taxonomy: implementations wrap domain.ErrTransientService for rate
// limits, timeouts, and transient network faults (the orchestrator may
// retry), and domain.ErrFatalService for authentication, quota, or
// model-not-found failures (never retried).
//
// Determinism: the same text maps to the same embedding for the same model
// version. The core relies on this for index reproducibility but does not
// verify it.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. The result is
	// order-preserving with one embedding per input; implementations may
	// split the batch into multiple network calls transparently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// Every stored embedding must have this dimensionality.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
