package training

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/port"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/oracle"
)

// Config controls a training run.
type Config struct {
	Forest       ForestConfig
	TestFraction float64
	Seed         uint64
}

// Pipeline turns labelled rows into a model artifact.
type Pipeline struct {
	rules  ruleset.RuleSet
	cfg    Config
	logger *slog.Logger
}

// NewPipeline creates a training pipeline for one rule set revision.
func NewPipeline(rules ruleset.RuleSet, cfg Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{rules: rules, cfg: cfg, logger: logger}
}

// Run splits the rows, fits a forest, evaluates it on the held-out split and
// returns the bundle ready to be saved.
func (p *Pipeline) Run(ctx context.Context, rows []Row) (*oracle.Bundle, error) {
	if p.cfg.TestFraction < 0 || p.cfg.TestFraction >= 1 {
		return nil, fmt.Errorf("test fraction must be in [0, 1), got %v", p.cfg.TestFraction)
	}

	train, test := FromRows(rows).Split(p.cfg.TestFraction, p.cfg.Seed)
	p.logger.Info("dataset split",
		slog.Int("train_rows", train.Len()),
		slog.Int("test_rows", test.Len()),
	)

	start := time.Now()
	trees, err := TrainForest(ctx, train, p.cfg.Forest)
	if err != nil {
		return nil, err
	}

	forest, err := oracle.NewForest(trees)
	if err != nil {
		return nil, fmt.Errorf("trained forest is invalid: %w", err)
	}
	p.logger.Info("forest trained",
		slog.Int("trees", forest.Size()),
		slog.Duration("elapsed", time.Since(start)),
	)

	evalSet := test
	if evalSet.Len() == 0 {
		evalSet = train
	}
	mse, err := MSE(forest, evalSet)
	if err != nil {
		return nil, err
	}
	p.logger.Info("forest evaluated", slog.Float64("test_mse", mse))

	return &oracle.Bundle{
		Version:        oracle.BundleVersion,
		Revision:       string(p.rules.Revision),
		FeatureColumns: append([]string(nil), model.FeatureColumns[:]...),
		Model: oracle.ModelSpec{
			Kind:  oracle.KindForest,
			Trees: trees,
		},
		Metrics: &oracle.TrainingMetrics{
			TestMSE:   mse,
			TrainRows: train.Len(),
			TestRows:  test.Len(),
			Trees:     len(trees),
			MaxDepth:  p.cfg.Forest.MaxDepth,
			Seed:      p.cfg.Seed,
		},
	}, nil
}

// MSE is the mean squared error of o over d.
func MSE(o port.Oracle, d Dataset) (float64, error) {
	if d.Len() == 0 {
		return 0, fmt.Errorf("cannot evaluate on an empty dataset")
	}

	var sum float64
	for i, x := range d.X {
		pred, err := o.Predict(x)
		if err != nil {
			return 0, fmt.Errorf("predict sample %d: %w", i, err)
		}
		diff := pred - d.Y[i]
		sum += diff * diff
	}
	return sum / float64(d.Len()), nil
}
