package services

import (
	"fmt"
	"strings"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// DefaultMaxContextChars is the default character budget for retrieved
// context included in a prompt.
const DefaultMaxContextChars = 8000

// answerPreamble instructs the generator to answer only from the supplied
// context and to cite page numbers.
const answerPreamble = `You are an expert financial analyst answering questions about a financial report.

Use only the following excerpts from the report to answer the question at the end.
If the excerpts do not contain the answer, say so - do not make up information.
Cite the page number of each excerpt you rely on, e.g. (page 12).`

// PromptBuilder assembles a bounded-context prompt from retrieved chunks.
// Chunks are labeled with their page numbers so the generator can cite
// them; when the concatenated chunk text would exceed the character
// budget, whole chunks are dropped from the lowest-similarity end. A
// chunk's text is never truncated mid-string.
type PromptBuilder struct {
	maxContextChars int
}

// NewPromptBuilder creates a prompt builder with the given context budget.
// Non-positive budgets fall back to DefaultMaxContextChars.
func NewPromptBuilder(maxContextChars int) *PromptBuilder {
	if maxContextChars <= 0 {
		maxContextChars = DefaultMaxContextChars
	}
	return &PromptBuilder{maxContextChars: maxContextChars}
}

// MaxContextChars returns the configured character budget.
func (b *PromptBuilder) MaxContextChars() int { return b.maxContextChars }

// Build produces the prompt and the subset of results actually included.
// Results must already be ordered by descending similarity; the included
// subset preserves that order. Deterministic for identical inputs.
func (b *PromptBuilder) Build(question string, results []domain.RetrievedChunk) (string, []domain.RetrievedChunk) {
	included := b.fitBudget(results)

	var sb strings.Builder
	sb.WriteString(answerPreamble)
	sb.WriteString("\n\nExcerpts from the report:\n")
	for _, r := range included {
		fmt.Fprintf(&sb, "\n[Page %d]\n%s\n", r.Chunk.Page, r.Chunk.Text)
	}
	fmt.Fprintf(&sb, "\nQuestion: %s\n\nAnswer:", question)

	return sb.String(), included
}

// fitBudget drops whole chunks from the lowest-similarity end until the
// concatenated chunk text fits within the budget.
func (b *PromptBuilder) fitBudget(results []domain.RetrievedChunk) []domain.RetrievedChunk {
	total := 0
	for _, r := range results {
		total += len(r.Chunk.Text)
	}

	end := len(results)
	for end > 0 && total > b.maxContextChars {
		end--
		total -= len(results[end].Chunk.Text)
	}

	return results[:end]
}
