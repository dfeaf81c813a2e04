// Package file provides TOML-backed configuration for the pipeline.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultDirName is the per-user configuration directory.
const DefaultDirName = ".finsight"

// Config is the full application configuration, persisted as TOML at
// ~/.finsight/config.toml. Zero values fall back to defaults at load time
// so a partial file is always usable.
type Config struct {
	Document  DocumentConfig  `toml:"document"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Storage   StorageConfig   `toml:"storage"`
	Retry     RetryConfig     `toml:"retry"`
}

// DocumentConfig locates the extracted report text.
type DocumentConfig struct {
	// Path is the extracted text file, pages separated by form feeds.
	Path string `toml:"path"`

	// Title overrides the document title (default: file base name).
	Title string `toml:"title"`
}

// ChunkingConfig controls how document text is windowed.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`

	// BatchSize is the number of chunks embedded per request.
	BatchSize int `toml:"batch_size"`

	// RequestsPerSecond caps the request rate for hosted providers.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LLMConfig selects and tunes the answer model.
type LLMConfig struct {
	// Provider is "anthropic" or "openai".
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	BaseURL     string  `toml:"base_url"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
}

// RetrievalConfig controls search behaviour.
type RetrievalConfig struct {
	// TopK is the number of chunks retrieved per question.
	TopK int `toml:"top_k"`
}

// StorageConfig locates the persistent index.
type StorageConfig struct {
	// DataDir holds the SQLite index (default: ~/.finsight/data).
	DataDir string `toml:"data_dir"`
}

// RetryConfig bounds retries against external services.
type RetryConfig struct {
	MaxAttempts int `toml:"max_attempts"`

	// BackoffBaseMS is the first retry delay in milliseconds; later
	// attempts double it.
	BackoffBaseMS int `toml:"backoff_base_ms"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Embedding: EmbeddingConfig{
			Provider:          "openai",
			BatchSize:         32,
			RequestsPerSecond: 5,
		},
		LLM: LLMConfig{
			Provider:  "anthropic",
			MaxTokens: 1024,
		},
		Retrieval: RetrievalConfig{
			TopK: 3,
		},
		Retry: RetryConfig{
			MaxAttempts:   3,
			BackoffBaseMS: 500,
		},
	}
}

// BackoffBase returns the retry base delay as a duration.
func (c RetryConfig) BackoffBase() time.Duration {
	return time.Duration(c.BackoffBaseMS) * time.Millisecond
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName, "config.toml"), nil
}

// Load reads configuration from path. A missing file yields the defaults;
// fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadDefault reads configuration from the standard location, writing the
// default file on first run so users have something to edit.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	return Load(path)
}

// Save writes configuration as TOML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := Default()

	if c.Chunking.Size == 0 {
		c.Chunking.Size = def.Chunking.Size
	}
	if c.Chunking.Overlap == 0 {
		c.Chunking.Overlap = def.Chunking.Overlap
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = def.Embedding.Provider
	}
	if c.Embedding.BatchSize == 0 {
		c.Embedding.BatchSize = def.Embedding.BatchSize
	}
	if c.Embedding.RequestsPerSecond == 0 {
		c.Embedding.RequestsPerSecond = def.Embedding.RequestsPerSecond
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = def.LLM.Provider
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = def.LLM.MaxTokens
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = def.Retrieval.TopK
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if c.Retry.BackoffBaseMS == 0 {
		c.Retry.BackoffBaseMS = def.Retry.BackoffBaseMS
	}
}
