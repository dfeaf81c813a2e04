package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the vector index for the configured document",
	Long: `Loads the configured report text, splits it into overlapping chunks,
embeds each chunk and persists the result to the local vector index.

Ingestion is skipped when the document is already indexed; use --force to
rebuild the index from scratch.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "re-ingest even if already indexed")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	pipeline, err := ensurePipeline()
	if err != nil {
		return err
	}

	stats, err := pipeline.EnsureIngested(cmd.Context(), ingestForce)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if stats.Reused {
		cmd.Printf("Index up to date: %q (%d chunks, %d pages)\n",
			stats.Title, stats.Chunks, stats.Pages)
		return nil
	}

	cmd.Printf("Ingested %q: %d chunks across %d pages\n",
		stats.Title, stats.Chunks, stats.Pages)
	return nil
}
