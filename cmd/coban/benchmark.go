package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/hiroakinsm/cobol-analyzer-sub001/internal/output"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/benchmark"
)

func benchmarkCmd() *cli.Command {
	return &cli.Command{
		Name:  "benchmark",
		Usage: "Work with quality benchmark definitions",
		Subcommands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write the built-in benchmark definitions to a YAML file",
				ArgsUsage: "<file.yaml>",
				Action:    runBenchmarkInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective benchmark definitions",
				Action: runBenchmarkShow,
			},
		},
	}
}

func runBenchmarkInit(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("benchmark init expects a target file path")
	}
	path := c.Args().First()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	doc := struct {
		Metrics any `yaml:"metrics"`
	}{Metrics: benchmark.Defaults()}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func runBenchmarkShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	defs, err := benchmark.LoadOrDefaults(flagOrConfig(c, "benchmark", cfg.Quality.BenchmarkFile))
	if err != nil {
		return err
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

	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		bound := func(v *float64) string {
			if v == nil {
				return "-"
			}
			return fmt.Sprintf("%g", *v)
		}
		rows = append(rows, []string{
			d.Name,
			string(d.Category),
			bound(d.Min),
			fmt.Sprintf("%g", d.Target),
			bound(d.Max),
			fmt.Sprintf("%g", d.Weight),
		})
	}
	return formatter.Output(output.NewTable("Benchmarks",
		[]string{"Metric", "Category", "Min", "Target", "Max", "Weight"}, rows, defs))
}
