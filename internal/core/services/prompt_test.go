package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

func retrieved(page int, text string, score float64) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		Chunk:      domain.Chunk{ID: text, Text: text, Page: page},
		Similarity: score,
	}
}

func TestBuild_StructuredPrompt(t *testing.T) {
	b := NewPromptBuilder(1000)
	results := []domain.RetrievedChunk{
		retrieved(3, "growth is projected at 3.2 percent", 0.91),
		retrieved(7, "inflation continues to decline", 0.84),
	}

	prompt, included := b.Build("What is the growth forecast?", results)

	assert.Contains(t, prompt, "expert financial analyst")
	assert.Contains(t, prompt, "[Page 3]\ngrowth is projected at 3.2 percent")
	assert.Contains(t, prompt, "[Page 7]\ninflation continues to decline")
	assert.Contains(t, prompt, "Question: What is the growth forecast?")
	assert.Len(t, included, 2)

	// Context appears in similarity order, question after context.
	assert.Less(t, strings.Index(prompt, "[Page 3]"), strings.Index(prompt, "[Page 7]"))
	assert.Less(t, strings.Index(prompt, "[Page 7]"), strings.Index(prompt, "Question:"))
}

func TestBuild_DropsLowestSimilarityChunksOverBudget(t *testing.T) {
	b := NewPromptBuilder(25)
	results := []domain.RetrievedChunk{
		retrieved(1, "twenty characters aa", 0.9), // 20 chars
		retrieved(2, "twenty characters bb", 0.8),
		retrieved(3, "twenty characters cc", 0.7),
	}

	prompt, included := b.Build("q", results)

	// Only the highest-similarity chunk fits the 25-char budget.
	require.Len(t, included, 1)
	assert.Equal(t, "twenty characters aa", included[0].Chunk.Text)
	assert.Contains(t, prompt, "twenty characters aa")
	assert.NotContains(t, prompt, "twenty characters bb")
	assert.NotContains(t, prompt, "twenty characters cc")
}

func TestBuild_NeverTruncatesChunkText(t *testing.T) {
	b := NewPromptBuilder(10)
	long := strings.Repeat("z", 50)
	results := []domain.RetrievedChunk{retrieved(1, long, 0.9)}

	prompt, included := b.Build("q", results)

	// The oversized chunk is dropped whole, not cut mid-string.
	assert.Empty(t, included)
	assert.NotContains(t, prompt, "z")
}

func TestBuild_BudgetEnforced(t *testing.T) {
	b := NewPromptBuilder(100)
	var results []domain.RetrievedChunk
	for i := 0; i < 10; i++ {
		results = append(results, retrieved(i+1, strings.Repeat("a", 30), 1.0-float64(i)*0.05))
	}

	_, included := b.Build("q", results)

	total := 0
	for _, r := range included {
		total += len(r.Chunk.Text)
	}
	assert.LessOrEqual(t, total, 100)
	assert.Len(t, included, 3)
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewPromptBuilder(1000)
	results := []domain.RetrievedChunk{
		retrieved(1, "alpha", 0.9),
		retrieved(2, "beta", 0.8),
	}

	p1, _ := b.Build("q", results)
	p2, _ := b.Build("q", results)

	assert.Equal(t, p1, p2)
}

func TestBuild_EmptyResults(t *testing.T) {
	b := NewPromptBuilder(0)

	prompt, included := b.Build("anything?", nil)

	assert.Empty(t, included)
	assert.Contains(t, prompt, "Question: anything?")
}
