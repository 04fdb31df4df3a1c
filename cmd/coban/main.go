package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/config"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "coban",
		Usage:   "COBOL program analysis CLI",
		Version: version,
		Description: `Coban analyzes parsed COBOL programs for structure, control flow,
data dependencies, call relationships and quality metrics.

Input documents are the JSON syntax trees produced by the parser.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"COBAN_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.StringFlag{
				Name:  "benchmark",
				Usage: "Path to a benchmark definitions file (YAML or JSON)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelWarn
			if c.Bool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
			return nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			batchCmd(),
			benchmarkCmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file from the --config flag, or searches the
// default locations.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

// flagOrConfig prefers an explicitly set string flag over the config value.
func flagOrConfig(c *cli.Context, name, fallback string) string {
	if v := c.String(name); v != "" {
		return v
	}
	return fallback
}
