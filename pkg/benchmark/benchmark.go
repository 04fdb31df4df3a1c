// Package benchmark loads quality benchmark definitions from YAML, JSON or
// TOML documents and supplies the built-in defaults.
package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

func ptr(v float64) *float64 { return &v }

// Defaults returns the built-in benchmark set. Targets follow common COBOL
// maintenance guidance; callers can override any of them from a file.
func Defaults() []models.MetricDefinition {
	return []models.MetricDefinition{
		{Name: "cyclomatic_complexity", Category: models.CategoryComplexity, Min: ptr(1), Max: ptr(50), Target: 10, Weight: 2},
		{Name: "cognitive_complexity", Category: models.CategoryComplexity, Min: ptr(0), Max: ptr(100), Target: 15, Weight: 2},
		{Name: "max_nesting_depth", Category: models.CategoryComplexity, Min: ptr(0), Max: ptr(10), Target: 3, Weight: 1},
		{Name: "decision_density", Category: models.CategoryComplexity, Min: ptr(0), Max: ptr(1), Target: 0.2, Weight: 1},
		{Name: "maintainability_index", Category: models.CategoryMaintainability, Min: ptr(0), Max: ptr(100), Target: 70, Weight: 2},
		{Name: "halstead_volume", Category: models.CategoryMaintainability, Min: ptr(0), Max: ptr(30000), Target: 3000, Weight: 1},
		{Name: "halstead_effort", Category: models.CategoryMaintainability, Min: ptr(0), Max: ptr(1000000), Target: 50000, Weight: 1},
		{Name: "lines_of_code", Category: models.CategoryModularity, Min: ptr(0), Max: ptr(5000), Target: 500, Weight: 1},
		{Name: "comment_ratio", Category: models.CategoryDocumentation, Min: ptr(0), Target: 0.2, Weight: 1},
	}
}

// document is the on-disk shape of a benchmark file.
type document struct {
	Metrics []models.MetricDefinition `json:"metrics" yaml:"metrics"`
}

// Load reads definitions from a YAML, JSON or TOML file, chosen by
// extension.
func Load(path string) ([]models.MetricDefinition, error) {
	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing benchmark file %s: %w", path, err)
		}
		if err := k.Unmarshal("metrics", &doc.Metrics); err != nil {
			return nil, fmt.Errorf("parsing benchmark file %s: %w", path, err)
		}
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading benchmark file: %w", err)
		}
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			err = json.Unmarshal(data, &doc)
		} else {
			err = yaml.Unmarshal(data, &doc)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing benchmark file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported benchmark format %q", filepath.Ext(path))
	}

	if err := validate(doc.Metrics); err != nil {
		return nil, err
	}
	return doc.Metrics, nil
}

// LoadOrDefaults loads from path when given, otherwise returns Defaults.
func LoadOrDefaults(path string) ([]models.MetricDefinition, error) {
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

func validate(defs []models.MetricDefinition) error {
	if len(defs) == 0 {
		return fmt.Errorf("benchmark file defines no metrics")
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("benchmark metric with empty name")
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate benchmark metric %q", d.Name)
		}
		seen[d.Name] = true
		if d.Min != nil && d.Target < *d.Min {
			return fmt.Errorf("metric %q: target %g below min %g", d.Name, d.Target, *d.Min)
		}
		if d.Max != nil && d.Target > *d.Max {
			return fmt.Errorf("metric %q: target %g above max %g", d.Name, d.Target, *d.Max)
		}
		if d.Weight < 0 {
			return fmt.Errorf("metric %q: negative weight %g", d.Name, d.Weight)
		}
	}
	return nil
}
