package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChunking indicates invalid chunk size or overlap parameters.
	// Surfaced immediately, never retried.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrTransientService indicates a rate limit, timeout, or transient
	// network fault from an external service. The orchestrator retries
	// these with exponential backoff up to the configured attempt limit.
	ErrTransientService = errors.New("transient service failure")

	// ErrFatalService indicates an authentication, quota, or
	// model-not-found failure from an external service. Never retried.
	ErrFatalService = errors.New("service failure")

	// ErrIndexCorrupt indicates the persisted index failed to deserialize.
	// Recovery: force re-ingestion.
	ErrIndexCorrupt = errors.New("index corrupted")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIndexUnavailable indicates the vector index is not configured.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrNotIndexed indicates no document has been ingested yet.
	ErrNotIndexed = errors.New("document not indexed")
)

// IsRetryable reports whether the error may succeed on retry.
// Only transient service failures qualify.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientService)
}
