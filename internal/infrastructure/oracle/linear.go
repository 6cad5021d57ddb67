package oracle

import (
	"fmt"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
)

// Linear is an intercept plus one coefficient per feature.
type Linear struct {
	coefficients model.FeatureVector
	intercept    float64
}

// NewLinear builds a Linear model. There must be exactly one coefficient per feature.
func NewLinear(intercept float64, coefficients []float64) (*Linear, error) {
	if len(coefficients) != model.FeatureCount {
		return nil, fmt.Errorf("%w: linear model has %d coefficients, want %d",
			ErrInvalidModel, len(coefficients), model.FeatureCount)
	}

	l := &Linear{intercept: intercept}
	copy(l.coefficients[:], coefficients)
	return l, nil
}

// Predict returns intercept + coefficients · features.
func (l *Linear) Predict(fv model.FeatureVector) (float64, error) {
	out := l.intercept
	for i, c := range l.coefficients {
		out += c * fv[i]
	}
	return out, nil
}
