package port

import "context"

// MetricsRecorder receives prediction outcomes for operational metrics.
type MetricsRecorder interface {
	RecordPrediction(ctx context.Context, category, topFactor string, score float64)
	RecordRejection(ctx context.Context, transport string)
}
