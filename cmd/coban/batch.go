package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/hiroakinsm/cobol-analyzer-sub001/internal/locator"
	"github.com/hiroakinsm/cobol-analyzer-sub001/internal/output"
	"github.com/hiroakinsm/cobol-analyzer-sub001/internal/progress"
	"github.com/hiroakinsm/cobol-analyzer-sub001/internal/runner"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

func batchCmd() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Aliases:   []string{"b"},
		Usage:     "Analyze every parser document under the given targets",
		ArgsUsage: "[path|glob...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Worker count (0 selects the default)",
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "Print only the per-program summary table",
			},
		},
		Action: runBatch,
	}
}

func runBatch(c *cli.Context) error {
	targets := c.Args().Slice()
	if len(targets) == 0 {
		targets = []string{"."}
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var paths []string
	for _, target := range targets {
		resolved, err := locator.Resolve(target)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", target, err)
		}
		paths = append(paths, resolved...)
	}
	if len(paths) == 0 {
		color.Yellow("No documents found")
		return nil
	}
	slog.Debug("batch resolved", "documents", len(paths))

	engine, err := buildEngine(c, cfg)
	if err != nil {
		return err
	}

	workers := c.Int("workers")
	if workers <= 0 {
		workers = cfg.Runner.Workers
	}

	tracker := progress.NewTracker("Analyzing...", len(paths))
	run := runner.New(engine,
		runner.WithWorkers(workers),
		runner.WithMaxDocSize(cfg.Analysis.MaxDocSize),
		runner.WithProgress(tracker.Tick),
	)
	results, errs := run.Run(c.Context, paths)
	tracker.FinishSuccess()

	formatter, err := output.NewFormatter(
		output.ParseFormat(flagOrConfig(c, "format", cfg.Output.Format)),
		c.String("output"),
		cfg.Output.Color,
	)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if c.Bool("summary") {
		if err := formatter.Output(summaryTable(results)); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if err := formatter.Output(output.RenderResult(result)); err != nil {
				return err
			}
		}
	}

	if errs != nil {
		for _, pe := range errs.Errors {
			formatter.Error("%s: %v", pe.Path, pe.Err)
		}
		return fmt.Errorf("%d of %d documents failed", len(errs.Errors), len(paths))
	}
	return nil
}

func summaryTable(results []*models.AnalysisResult) *output.Table {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		overall := ""
		mi := ""
		if r.Quality != nil {
			overall = fmt.Sprintf("%.2f", r.Quality.OverallScore)
		}
		if r.Metrics != nil && r.Metrics.Available("maintainability_index") {
			mi = fmt.Sprintf("%.1f", r.Metrics.MaintainabilityIndex)
		}
		rows = append(rows, []string{
			r.ProgramName,
			string(r.Status),
			overall,
			mi,
			fmt.Sprintf("%d", len(r.Issues)),
		})
	}
	return output.NewTable("Batch Summary",
		[]string{"Program", "Status", "Score", "MI", "Issues"}, rows, results)
}
