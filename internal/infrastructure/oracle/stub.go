package oracle

import (
	"log/slog"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
)

// Stub implements port.Oracle without a trained artifact. It is meant for
// tests and local development.
type Stub struct {
	fn     func(model.FeatureVector) float64
	logger *slog.Logger
}

// NewStub creates a stub that always returns score.
func NewStub(logger *slog.Logger, score float64) *Stub {
	return NewStubFunc(logger, func(model.FeatureVector) float64 { return score })
}

// NewStubFunc creates a stub backed by fn.
func NewStubFunc(logger *slog.Logger, fn func(model.FeatureVector) float64) *Stub {
	return &Stub{fn: fn, logger: logger}
}

// Predict returns the stubbed score.
func (s *Stub) Predict(fv model.FeatureVector) (float64, error) {
	s.logger.Debug("stub oracle prediction requested",
		slog.Int("feature_count", len(fv)),
	)
	return s.fn(fv), nil
}
