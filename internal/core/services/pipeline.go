package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineService = (*Pipeline)(nil)

// DefaultTopK is the number of chunks retrieved per question when the
// caller does not specify k.
const DefaultTopK = 3

// DefaultEmbedBatchSize is the number of chunk texts sent per embedding
// batch call.
const DefaultEmbedBatchSize = 32

// PipelineConfig tunes the orchestrator.
type PipelineConfig struct {
	// TopK is the default retrieval depth for queries.
	TopK int

	// EmbedBatchSize is the number of texts per embedding batch call.
	EmbedBatchSize int

	// MaxAttempts is the total attempt limit for retryable external calls.
	MaxAttempts int

	// BackoffBase is the initial retry delay.
	BackoffBase time.Duration

	// MaxTokens is passed to the answer generator.
	MaxTokens int
}

func (c *PipelineConfig) applyDefaults() {
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.EmbedBatchSize <= 0 {
		c.EmbedBatchSize = DefaultEmbedBatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = DefaultBackoffBase
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
}

// Pipeline composes the chunker, embedding service, vector index, prompt
// builder, and LLM into the two flows: ingest (run once per document) and
// query (run per question). It is the only place retries happen, and only
// for transient failures.
type Pipeline struct {
	loader    driven.DocumentLoader
	embedding driven.EmbeddingService
	llm       driven.LLMService
	index     driven.VectorIndex
	chunker   *Chunker
	prompts   *PromptBuilder
	cfg       PipelineConfig
}

// NewPipeline creates the orchestrator. All dependencies are required
// except llm, which may be nil when only ingest/retrieve are used.
func NewPipeline(
	loader driven.DocumentLoader,
	embedding driven.EmbeddingService,
	llm driven.LLMService,
	index driven.VectorIndex,
	chunker *Chunker,
	prompts *PromptBuilder,
	cfg PipelineConfig,
) *Pipeline {
	cfg.applyDefaults()
	return &Pipeline{
		loader:    loader,
		embedding: embedding,
		llm:       llm,
		index:     index,
		chunker:   chunker,
		prompts:   prompts,
		cfg:       cfg,
	}
}

// EnsureIngested runs the ingest path when the persisted index does not
// already hold the document, or when force is true. The index is only
// written after every chunk has been embedded, so a stage failure leaves
// any previously persisted index untouched.
func (p *Pipeline) EnsureIngested(ctx context.Context, force bool) (driving.IngestStats, error) {
	logger.Section("Ingest")

	if p.index == nil {
		return driving.IngestStats{}, domain.ErrIndexUnavailable
	}
	if p.embedding == nil {
		return driving.IngestStats{}, domain.ErrEmbeddingUnavailable
	}

	doc, err := p.loader.Load(ctx)
	if err != nil {
		return driving.IngestStats{}, fmt.Errorf("load document: %w", err)
	}
	logger.Debug("Loaded %q: %d bytes, %d pages", doc.Title, len(doc.Text), doc.PageCount)

	if !force {
		exists, err := p.index.HasDocument(ctx, doc.ID)
		if err != nil {
			return driving.IngestStats{}, fmt.Errorf("check index: %w", err)
		}
		if exists {
			count, err := p.index.Count(ctx)
			if err != nil {
				return driving.IngestStats{}, fmt.Errorf("count entries: %w", err)
			}
			logger.Info("Index already holds %q (%d chunks), skipping ingest", doc.Title, count)
			return driving.IngestStats{
				DocumentID: doc.ID,
				Title:      doc.Title,
				Chunks:     count,
				Pages:      doc.PageCount,
				Reused:     true,
			}, nil
		}
	}

	chunks := p.chunker.Chunk(doc)
	logger.Debug("Chunked into %d windows (size=%d, overlap=%d)",
		len(chunks), p.chunker.ChunkSize(), p.chunker.Overlap())

	if err := p.embedChunks(ctx, chunks); err != nil {
		return driving.IngestStats{}, err
	}

	if err := p.index.Replace(ctx, doc, chunks); err != nil {
		return driving.IngestStats{}, fmt.Errorf("persist index: %w", err)
	}
	logger.Info("Persisted %d chunks for %q", len(chunks), doc.Title)

	return driving.IngestStats{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Chunks:     len(chunks),
		Pages:      doc.PageCount,
	}, nil
}

// embedChunks embeds chunk texts in batches, preserving chunker order.
// Each batch call is retried on transient failures.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += p.cfg.EmbedBatchSize {
		end := start + p.cfg.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, ch := range chunks[start:end] {
			texts = append(texts, ch.Text)
		}

		var vectors [][]float32
		err := withRetry(ctx, p.cfg.MaxAttempts, p.cfg.BackoffBase, func() error {
			var embedErr error
			vectors, embedErr = p.embedding.EmbedBatch(ctx, texts)
			return embedErr
		})
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("embed chunks %d-%d: got %d embeddings for %d texts",
				start, end-1, len(vectors), len(texts))
		}

		for i := range vectors {
			chunks[start+i].Embedding = vectors[i]
		}
		logger.Debug("Embedded chunks %d-%d", start, end-1)
	}
	return nil
}

// Retrieve embeds the question and returns the top-k most similar chunks.
func (p *Pipeline) Retrieve(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error) {
	if p.index == nil {
		return nil, domain.ErrIndexUnavailable
	}
	if p.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if k <= 0 {
		k = p.cfg.TopK
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	var vector []float32
	err := withRetry(ctx, p.cfg.MaxAttempts, p.cfg.BackoffBase, func() error {
		var embedErr error
		vector, embedErr = p.embedding.Embed(ctx, question)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := p.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Retrieved %d chunks for %q", len(results), question)
	return results, nil
}

// Answer runs the query path: retrieve, build the bounded-context prompt,
// and generate. No query stage mutates persisted state, so an abandoned
// query has no side effects.
func (p *Pipeline) Answer(ctx context.Context, question string, k int) (*domain.Answer, error) {
	logger.Section("Query")

	if p.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	count, err := p.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrNotIndexed
	}

	results, err := p.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}

	prompt, used := p.prompts.Build(question, results)
	logger.Debug("Prompt: %d chars, %d of %d chunks included", len(prompt), len(used), len(results))

	var text string
	err = withRetry(ctx, p.cfg.MaxAttempts, p.cfg.BackoffBase, func() error {
		var genErr error
		text, genErr = p.llm.Generate(ctx, prompt, driven.GenerateOptions{
			MaxTokens: p.cfg.MaxTokens,
		})
		return genErr
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Model:   p.llm.ModelName(),
		Sources: used,
	}, nil
}
