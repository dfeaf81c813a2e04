package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/finsight-labs/finsight-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question and answer session",
	Long: `Opens an interactive terminal session for asking the document
multiple questions. The document is ingested automatically on first use.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	pipeline, err := ensurePipeline()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	stats, err := pipeline.EnsureIngested(ctx, false)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	model := tui.NewChat(pipeline, stats.Title)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}
