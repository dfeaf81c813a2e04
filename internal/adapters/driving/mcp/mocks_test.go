package mcp

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
)

// mockPipelineService is a test double for driving.PipelineService.
type mockPipelineService struct {
	stats     driving.IngestStats
	ingestErr error

	results     []domain.RetrievedChunk
	retrieveErr error

	answer    *domain.Answer
	answerErr error

	ingestCalls int
	lastK       int
}

var _ driving.PipelineService = (*mockPipelineService)(nil)

func (m *mockPipelineService) EnsureIngested(_ context.Context, _ bool) (driving.IngestStats, error) {
	m.ingestCalls++
	return m.stats, m.ingestErr
}

func (m *mockPipelineService) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievedChunk, error) {
	m.lastK = k
	return m.results, m.retrieveErr
}

func (m *mockPipelineService) Answer(_ context.Context, _ string, k int) (*domain.Answer, error) {
	m.lastK = k
	return m.answer, m.answerErr
}
