package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hiroakinsm/cobol-analyzer-sub001/internal/output"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/analyzer"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/benchmark"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/config"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze one parser document",
		ArgsUsage: "<document.json>",
		Action:    runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("analyze expects exactly one document path")
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := buildEngine(c, cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	slog.Debug("analyzing document", "path", path, "bytes", len(data))

	result, err := engine.AnalyzeDocument(c.Context, data)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", path, err)
	}

	formatter, err := output.NewFormatter(
		output.ParseFormat(flagOrConfig(c, "format", cfg.Output.Format)),
		c.String("output"),
		cfg.Output.Color,
	)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.RenderResult(result))
}

// buildEngine assembles the pipeline from config plus command-line
// overrides.
func buildEngine(c *cli.Context, cfg *config.Config) (*analyzer.Engine, error) {
	benchPath := flagOrConfig(c, "benchmark", cfg.Quality.BenchmarkFile)
	defs, err := benchmark.LoadOrDefaults(benchPath)
	if err != nil {
		return nil, err
	}

	return analyzer.NewEngine(
		analyzer.WithBenchmarks(defs),
		analyzer.WithCriticalItemDegree(cfg.Analysis.CriticalItemDegree),
		analyzer.WithRecommendationCutoff(cfg.Quality.RecommendationCutoff),
		analyzer.WithTargetTolerance(cfg.Quality.TargetTolerance),
	), nil
}
