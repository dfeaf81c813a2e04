package cli

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
)

// mockPipeline is a test double for the pipeline service.
type mockPipeline struct {
	stats     driving.IngestStats
	ingestErr error

	results     []domain.RetrievedChunk
	retrieveErr error

	answer    *domain.Answer
	answerErr error

	ingestCalls int
	lastForce   bool
	lastK       int
}

var _ driving.PipelineService = (*mockPipeline)(nil)

func (m *mockPipeline) EnsureIngested(_ context.Context, force bool) (driving.IngestStats, error) {
	m.ingestCalls++
	m.lastForce = force
	return m.stats, m.ingestErr
}

func (m *mockPipeline) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievedChunk, error) {
	m.lastK = k
	return m.results, m.retrieveErr
}

func (m *mockPipeline) Answer(_ context.Context, _ string, k int) (*domain.Answer, error) {
	m.lastK = k
	return m.answer, m.answerErr
}

// setupTestServices installs a mock pipeline and returns it with a cleanup
// function restoring the previous state.
func setupTestServices() (*mockPipeline, func()) {
	mock := &mockPipeline{
		stats: driving.IngestStats{
			DocumentID: "doc-1",
			Title:      "Annual Report 2024",
			Chunks:     42,
			Pages:      12,
		},
		answer: &domain.Answer{
			Text:  "Revenue grew 12% year over year (page 4).",
			Model: "test-model",
			Sources: []domain.RetrievedChunk{
				{
					Chunk:      domain.Chunk{Text: "Revenue grew 12%", Page: 4, Position: 7},
					Similarity: 0.91,
				},
			},
		},
	}

	old := pipelineService
	pipelineService = mock
	return mock, func() {
		pipelineService = old
	}
}
