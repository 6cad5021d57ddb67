// Command stress-train simulates labelled student weeks, fits a regression
// forest and writes the model artifact stressd serves.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/oracle"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/training"
	"github.com/Kiiichu/stress-estimator/pkg/observability"
)

type options struct {
	revision     string
	out          string
	csvOut       string
	from         string
	logLevel     string
	rows         int
	trees        int
	depth        int
	minLeaf      int
	workers      int
	testFraction float64
	seed         uint64
}

func main() {
	var opts options
	flag.IntVar(&opts.rows, "rows", 5000, "number of simulated rows")
	flag.IntVar(&opts.trees, "trees", 60, "number of trees in the forest")
	flag.IntVar(&opts.depth, "depth", 10, "maximum tree depth")
	flag.IntVar(&opts.minLeaf, "min-leaf", 5, "minimum rows per leaf")
	flag.IntVar(&opts.workers, "workers", 0, "parallel tree builders (0 = GOMAXPROCS)")
	flag.Uint64Var(&opts.seed, "seed", 42, "random seed for simulation, split and bootstrap")
	flag.Float64Var(&opts.testFraction, "test-fraction", 0.15, "held-out fraction for evaluation")
	flag.StringVar(&opts.revision, "revision", string(ruleset.RevB), "rule set revision the labels follow (A or B)")
	flag.StringVar(&opts.out, "out", "stress_model.json", "model artifact output path")
	flag.StringVar(&opts.csvOut, "csv", "", "also write the dataset to this CSV path")
	flag.StringVar(&opts.from, "from", "", "train on this CSV instead of simulating")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level")
	flag.Parse()

	logger := observability.InitLogger(observability.LogConfig{
		Output:  os.Stderr,
		Level:   opts.logLevel,
		Format:  "text",
		Service: "stress-train",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("training failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	rules, err := ruleset.Lookup(opts.revision)
	if err != nil {
		return err
	}

	rows, err := loadRows(opts, rules, logger)
	if err != nil {
		return err
	}

	if opts.csvOut != "" {
		if err := writeCSV(opts.csvOut, rows); err != nil {
			return err
		}
		logger.Info("dataset written", "path", opts.csvOut, "rows", len(rows))
	}

	pipeline := training.NewPipeline(rules, training.Config{
		Forest: training.ForestConfig{
			Trees:    opts.trees,
			MaxDepth: opts.depth,
			MinLeaf:  opts.minLeaf,
			Seed:     opts.seed,
			Workers:  opts.workers,
		},
		TestFraction: opts.testFraction,
		Seed:         opts.seed,
	}, logger)

	bundle, err := pipeline.Run(ctx, rows)
	if err != nil {
		return err
	}

	if err := oracle.Save(opts.out, bundle); err != nil {
		return err
	}

	// Read the artifact back the way stressd will.
	artifact, err := oracle.Open(opts.out, rules.Revision)
	if err != nil {
		return fmt.Errorf("verify written artifact: %w", err)
	}

	logger.Info("model artifact written",
		"path", opts.out,
		"revision", artifact.Revision(),
		"kind", artifact.Kind(),
		"test_mse", artifact.Metrics().TestMSE,
	)
	return nil
}

func loadRows(opts options, rules ruleset.RuleSet, logger *slog.Logger) ([]training.Row, error) {
	if opts.from == "" {
		if opts.rows <= 0 {
			return nil, fmt.Errorf("-rows must be positive, got %d", opts.rows)
		}
		logger.Info("simulating dataset", "rows", opts.rows, "revision", rules.Revision, "seed", opts.seed)
		return training.NewSimulator(rules, opts.seed).Rows(opts.rows), nil
	}

	f, err := os.Open(opts.from)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := training.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", opts.from, err)
	}

	// Rows outside the revision's bounds would teach the model inputs stressd rejects.
	for i, r := range rows {
		if err := rules.Validate(r.Inputs); err != nil {
			return nil, fmt.Errorf("dataset row %d: %w", i+1, err)
		}
	}
	logger.Info("dataset loaded", "path", opts.from, "rows", len(rows))
	return rows, nil
}

func writeCSV(path string, rows []training.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	if err := training.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
