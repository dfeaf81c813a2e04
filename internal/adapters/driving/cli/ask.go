package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the document",
	Long: `Answers a question about the configured report.

The question is embedded and matched against the vector index; the most
similar passages are assembled into a prompt and an LLM generates the
answer with page citations. The document is ingested automatically on
first use.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (0 = configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	pipeline, err := ensurePipeline()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := pipeline.EnsureIngested(ctx, false); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	answer, err := pipeline.Answer(ctx, question, askTopK)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

// answerJSON is the machine-readable shape of an answer.
type answerJSON struct {
	Answer  string       `json:"answer"`
	Model   string       `json:"model"`
	Sources []sourceJSON `json:"sources"`
}

type sourceJSON struct {
	Page       int     `json:"page"`
	Position   int     `json:"position"`
	Similarity float64 `json:"similarity"`
	Excerpt    string  `json:"excerpt"`
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	out := answerJSON{
		Answer:  answer.Text,
		Model:   answer.Model,
		Sources: make([]sourceJSON, 0, len(answer.Sources)),
	}
	for _, src := range answer.Sources {
		out.Sources = append(out.Sources, sourceJSON{
			Page:       src.Chunk.Page,
			Position:   src.Chunk.Position,
			Similarity: src.Similarity,
			Excerpt:    src.Excerpt(120),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  page %d (similarity %.3f): %s\n",
				src.Chunk.Page, src.Similarity, src.Excerpt(80))
		}
	}
	return nil
}
