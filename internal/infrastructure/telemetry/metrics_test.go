package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Kiiichu/stress-estimator/internal/infrastructure/telemetry"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := telemetry.NewRecorder(provider)
	require.NoError(t, err)

	ctx := context.Background()
	rec.RecordPrediction(ctx, "High", "exam_proximity", 91.2)
	rec.RecordPrediction(ctx, "High", "exam_proximity", 85)
	rec.RecordPrediction(ctx, "Low", "sleep", 12.5)
	rec.RecordRejection(ctx, "rest")

	metrics := collect(t, reader)

	predictions, ok := metrics["stress_predictions_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[attribute.Distinct]int64{}
	for _, dp := range predictions.DataPoints {
		counts[dp.Attributes.Equivalent()] = dp.Value
	}
	high := attribute.NewSet(attribute.String("category", "High"), attribute.String("top_factor", "exam_proximity"))
	assert.Equal(t, int64(2), counts[high.Equivalent()])

	scores, ok := metrics["stress_score"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total uint64
	for _, dp := range scores.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(3), total)

	rejections, ok := metrics["stress_rejections_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, rejections.DataPoints, 1)
	assert.Equal(t, int64(1), rejections.DataPoints[0].Value)
}
