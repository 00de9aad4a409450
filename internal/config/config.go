// Package config loads guardhook's deployment configuration: duplicate
// threshold, external service endpoints, indexer cadence, and peripheral
// model selection. Mirrors the teacher's config
// package: a typed struct, a DefaultConfig constructor, and an optional
// YAML override file that is never required for a legal configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all guardhook configuration. Zero value is never used
// directly; construct with DefaultConfig and apply overrides with Load.
type Config struct {
	Duplicate    DuplicateConfig    `yaml:"duplicate"`
	Embedding    EmbeddingConfig    `yaml:"embedding"`
	VectorStore  VectorStoreConfig  `yaml:"vector_store"`
	Indexer      IndexerConfig      `yaml:"indexer"`
	Override     OverrideConfig     `yaml:"override"`
	Review       ReviewConfig       `yaml:"review"`
	Symbols      SymbolsConfig      `yaml:"symbols"`
	Guard        GuardConfig        `yaml:"guard"`
	InstallRoot  string             `yaml:"install_root"`
}

// GuardConfig controls the Guard Registry's best-effort block audit log.
type GuardConfig struct {
	AuditLog string `yaml:"audit_log"`
}

// DuplicateConfig controls the Duplicate-Prevention Guard.
type DuplicateConfig struct {
	// Threshold is θ, the minimum cosine-similarity score treated as a
	// duplicate. Defaults to 0.75 and is configurable per deployment.
	Threshold float64 `yaml:"threshold"`
	TopK      int     `yaml:"top_k"`
	MinLines  int     `yaml:"min_lines"`
}

// EmbeddingConfig points at the external embedding service.
type EmbeddingConfig struct {
	ServiceURL string        `yaml:"service_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// VectorStoreConfig points at the external vector database.
type VectorStoreConfig struct {
	ServiceURL string        `yaml:"service_url"`
	Timeout    time.Duration `yaml:"timeout"`
	Dimension  int           `yaml:"dimension"`
}

// IndexerConfig controls the File Indexer.
type IndexerConfig struct {
	RescanInterval  time.Duration `yaml:"rescan_interval"`
	DebounceWindow  time.Duration `yaml:"debounce_window"`
	MaxWorkers      int           `yaml:"max_workers"`
	HealthAddr      string        `yaml:"health_addr"`
}

// OverrideConfig controls the Override Authenticator.
type OverrideConfig struct {
	SkewWindow time.Duration `yaml:"skew_window"`
	AuditLog   string        `yaml:"audit_log"`
}

// ReviewConfig controls the Code-Review Orchestrator.
type ReviewConfig struct {
	Model          string `yaml:"model"`
	APIURL         string `yaml:"api_url"`
	MaxFileBytes   int64  `yaml:"max_file_bytes"`
}

// SymbolsConfig controls the Symbol Index & Search peripheral.
type SymbolsConfig struct {
	IndexFileName string `yaml:"index_file_name"`
	ResultLimit   int    `yaml:"result_limit"`
}

// DefaultConfig returns the configuration used when no override file is
// present; absent configuration is legal.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Duplicate: DuplicateConfig{
			Threshold: 0.75,
			TopK:      5,
			MinLines:  5,
		},
		Embedding: EmbeddingConfig{
			ServiceURL: "http://127.0.0.1:8901",
			Timeout:    10 * time.Second,
		},
		VectorStore: VectorStoreConfig{
			ServiceURL: "http://127.0.0.1:8902",
			Timeout:    10 * time.Second,
			Dimension:  768,
		},
		Indexer: IndexerConfig{
			RescanInterval: 60 * time.Second,
			DebounceWindow: time.Second,
			MaxWorkers:     4,
			HealthAddr:     "127.0.0.1:8903",
		},
		Override: OverrideConfig{
			SkewWindow: 30 * time.Second,
			AuditLog:   home + "/.guardhook/override-audit.log",
		},
		Review: ReviewConfig{
			Model:        "standard",
			MaxFileBytes: 200_000,
		},
		Symbols: SymbolsConfig{
			IndexFileName: ".code_index.db",
			ResultLimit:   100,
		},
		Guard: GuardConfig{
			AuditLog: home + "/.guardhook/guard-audit.log",
		},
		InstallRoot: home + "/.guardhook",
	}
}

// Load reads a YAML configuration file at path and overlays it onto
// DefaultConfig. A missing file is not an error: absent configuration is
// legal and defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
