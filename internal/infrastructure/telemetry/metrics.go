// Package telemetry records prediction metrics through OpenTelemetry instruments.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Kiiichu/stress-estimator"

// Recorder implements port.MetricsRecorder.
type Recorder struct {
	predictions metric.Int64Counter
	rejections  metric.Int64Counter
	scores      metric.Float64Histogram
}

// NewRecorder creates the prediction instruments on the given provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	predictions, err := meter.Int64Counter("stress_predictions_total",
		metric.WithDescription("Predictions served, by category and top factor."),
	)
	if err != nil {
		return nil, fmt.Errorf("create predictions counter: %w", err)
	}

	rejections, err := meter.Int64Counter("stress_rejections_total",
		metric.WithDescription("Prediction requests rejected by input validation."),
	)
	if err != nil {
		return nil, fmt.Errorf("create rejections counter: %w", err)
	}

	scores, err := meter.Float64Histogram("stress_score",
		metric.WithDescription("Distribution of served stress scores."),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("create score histogram: %w", err)
	}

	return &Recorder{
		predictions: predictions,
		rejections:  rejections,
		scores:      scores,
	}, nil
}

// RecordPrediction counts a served prediction and observes its score.
func (r *Recorder) RecordPrediction(ctx context.Context, category, topFactor string, score float64) {
	attrs := metric.WithAttributes(
		attribute.String("category", category),
		attribute.String("top_factor", topFactor),
	)
	r.predictions.Add(ctx, 1, attrs)
	r.scores.Record(ctx, score, metric.WithAttributes(attribute.String("category", category)))
}

// RecordRejection counts a rejected request on the given transport.
func (r *Recorder) RecordRejection(ctx context.Context, transport string) {
	r.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("transport", transport)))
}
