package port

import "github.com/Kiiichu/stress-estimator/internal/domain/model"

// Oracle is the regression function a trained model artifact provides.
// Implementations are loaded once, never mutated afterwards and must be safe
// for concurrent use.
type Oracle interface {
	// Predict maps a feature vector to a raw, unclamped stress value.
	Predict(features model.FeatureVector) (float64, error)
}
