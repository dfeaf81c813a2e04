// Package cli implements the finsight command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/finsight-labs/finsight-cli/internal/adapters/driven/config/file"
	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/finsight-labs/finsight-cli/internal/adapters/driven/embedding/openai"
	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/llm/anthropic"
	llmopenai "github.com/finsight-labs/finsight-cli/internal/adapters/driven/llm/openai"
	loaderfile "github.com/finsight-labs/finsight-cli/internal/adapters/driven/loader/file"
	"github.com/finsight-labs/finsight-cli/internal/adapters/driven/storage/sqlite"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
	"github.com/finsight-labs/finsight-cli/internal/core/services"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgPath string
	verbose bool

	appConfig       configfile.Config
	pipelineService driving.PipelineService
	serviceClosers  []func() error
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "Ask questions about a financial report",
	Long: `Finsight answers questions about a financial report using
retrieval-augmented generation. The report text is chunked, embedded and
stored in a local vector index; questions retrieve the most relevant
passages and an LLM generates a cited answer from them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.finsight/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// ensurePipeline builds the pipeline from configuration on first use.
// Tests inject a mock by setting pipelineService directly.
func ensurePipeline() (driving.PipelineService, error) {
	if pipelineService != nil {
		return pipelineService, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	appConfig = cfg

	if cfg.Document.Path == "" {
		return nil, errors.New("no document configured: set document.path in the config file")
	}

	loader := loaderfile.NewLoader(cfg.Document.Path, cfg.Document.Title)

	embedder, err := buildEmbedding(cfg.Embedding)
	if err != nil {
		return nil, err
	}
	serviceClosers = append(serviceClosers, embedder.Close)

	// The LLM is optional: ingest and retrieve work without one, and
	// Answer reports it as unavailable.
	llm, err := buildLLM(cfg.LLM)
	if err != nil {
		logger.Warn("LLM unavailable: %v", err)
		// A failed build returns a typed-nil through the interface;
		// the pipeline checks for a nil interface, so clear it.
		llm = nil
	} else {
		serviceClosers = append(serviceClosers, llm.Close)
	}

	index, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	serviceClosers = append(serviceClosers, index.Close)

	chunker, err := services.NewChunker(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}

	pipelineService = services.NewPipeline(
		loader,
		embedder,
		llm,
		index,
		chunker,
		services.NewPromptBuilder(0),
		services.PipelineConfig{
			TopK:           cfg.Retrieval.TopK,
			EmbedBatchSize: cfg.Embedding.BatchSize,
			MaxAttempts:    cfg.Retry.MaxAttempts,
			BackoffBase:    cfg.Retry.BackoffBase(),
			MaxTokens:      cfg.LLM.MaxTokens,
		},
	)
	return pipelineService, nil
}

func loadConfig() (configfile.Config, error) {
	if cfgPath != "" {
		return configfile.Load(cfgPath)
	}
	return configfile.LoadDefault()
}

func buildEmbedding(cfg configfile.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "", "openai":
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			Model:             cfg.Model,
			BaseURL:           cfg.BaseURL,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func buildLLM(cfg configfile.LLMConfig) (driven.LLMService, error) {
	switch cfg.Provider {
	case "", "anthropic":
		return anthropic.NewLLMService(anthropic.Config{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "openai":
		return llmopenai.NewLLMService(llmopenai.Config{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func closeServices() {
	for _, closeFn := range serviceClosers {
		if err := closeFn(); err != nil {
			logger.Warn("closing service: %v", err)
		}
	}
	serviceClosers = nil
}
