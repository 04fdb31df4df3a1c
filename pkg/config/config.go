// Package config loads engine configuration from TOML, YAML, or JSON files.
// Every tunable the analyzers consult lives here as a named value; nothing
// threshold-like is hard-coded in analyzer code.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the analysis engine.
type Config struct {
	// Analysis tunables consumed by sub-analyzers.
	Analysis AnalysisConfig `koanf:"analysis"`

	// Quality evaluation tunables.
	Quality QualityConfig `koanf:"quality"`

	// Batch runner settings.
	Runner RunnerConfig `koanf:"runner"`

	// Output settings.
	Output OutputConfig `koanf:"output"`
}

// AnalysisConfig controls the sub-analyzers.
type AnalysisConfig struct {
	// CriticalItemDegree is the combined dependency+flow degree above
	// which (strictly) a data item is flagged critical.
	CriticalItemDegree int `koanf:"critical_item_degree"`

	// MaxDocSize caps AST document size in bytes (0 = no limit).
	MaxDocSize int64 `koanf:"max_doc_size"`
}

// QualityConfig controls benchmark evaluation.
type QualityConfig struct {
	// RecommendationCutoff: metrics scoring below this get a recommendation.
	RecommendationCutoff float64 `koanf:"recommendation_cutoff"`

	// TargetTolerance is the relative distance from target within which a
	// value is rated as if it were on target.
	TargetTolerance float64 `koanf:"target_tolerance"`

	// BenchmarkFile is an optional metric-definition document.
	BenchmarkFile string `koanf:"benchmark_file"`
}

// RunnerConfig controls batch processing.
type RunnerConfig struct {
	// Workers bounds the pool; 0 means 2x NumCPU.
	Workers int `koanf:"workers"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			CriticalItemDegree: 5,
			MaxDocSize:         0,
		},
		Quality: QualityConfig{
			RecommendationCutoff: 0.7,
			TargetTolerance:      0.1,
		},
		Runner: RunnerConfig{
			Workers: 0,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file, with defaults for absent keys.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries standard locations, falling back to defaults.
func LoadOrDefault() *Config {
	names := []string{
		"coban.toml", "coban.yaml", "coban.yml", "coban.json",
		".coban.toml", ".coban.yaml", ".coban.yml", ".coban.json",
	}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}

// Validate rejects values the analyzers cannot work with.
func (c *Config) Validate() error {
	if c.Analysis.CriticalItemDegree < 0 {
		return fmt.Errorf("analysis.critical_item_degree must be >= 0, got %d", c.Analysis.CriticalItemDegree)
	}
	if c.Quality.RecommendationCutoff < 0 || c.Quality.RecommendationCutoff > 1 {
		return fmt.Errorf("quality.recommendation_cutoff must be in [0,1], got %g", c.Quality.RecommendationCutoff)
	}
	if c.Quality.TargetTolerance < 0 {
		return fmt.Errorf("quality.target_tolerance must be >= 0, got %g", c.Quality.TargetTolerance)
	}
	if c.Runner.Workers < 0 {
		return fmt.Errorf("runner.workers must be >= 0, got %d", c.Runner.Workers)
	}
	return nil
}
