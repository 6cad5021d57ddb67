package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kiiichu/stress-estimator/internal/application/dto"
	"github.com/Kiiichu/stress-estimator/internal/domain/event"
	"github.com/Kiiichu/stress-estimator/internal/domain/port"
	"github.com/Kiiichu/stress-estimator/internal/domain/service"
	"github.com/Kiiichu/stress-estimator/pkg/events"
)

const tracerName = "github.com/Kiiichu/stress-estimator/internal/application/usecase"

// PredictStress is the use case for scoring one set of student inputs.
type PredictStress struct {
	predictor *service.Predictor
	publisher port.EventPublisher
	metrics   port.MetricsRecorder
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewPredictStress creates a new PredictStress use case.
func NewPredictStress(
	predictor *service.Predictor,
	publisher port.EventPublisher,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
) *PredictStress {
	return &PredictStress{
		predictor: predictor,
		publisher: publisher,
		metrics:   metrics,
		tracer:    otel.Tracer(tracerName),
		logger:    logger,
	}
}

// Execute validates the inputs against the active rule set, runs the
// prediction and publishes the resulting events. A *ruleset.ValidationError
// is returned unwrapped for out-of-range inputs.
func (uc *PredictStress) Execute(ctx context.Context, req dto.PredictStressRequest) (dto.PredictStressResponse, error) {
	rules := uc.predictor.RuleSet()

	ctx, span := uc.tracer.Start(ctx, "PredictStress.Execute",
		trace.WithAttributes(attribute.String("stress.rule_set", string(rules.Revision))),
	)
	defer span.End()

	// 1. Range checks belong to the boundary, before the core sees the inputs.
	inputs := req.ToInputs()
	if err := rules.Validate(inputs); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.PredictStressResponse{}, err
	}

	// 2. Run the prediction pipeline.
	result, err := uc.predictor.Predict(inputs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.PredictStressResponse{}, fmt.Errorf("failed to predict stress: %w", err)
	}

	predictionID := uuid.New()
	category := result.Category().String()
	topFactor := result.TopFactor().String()

	span.SetAttributes(
		attribute.String("stress.prediction_id", predictionID.String()),
		attribute.String("stress.category", category),
		attribute.String("stress.top_factor", topFactor),
		attribute.Float64("stress.score", result.Score()),
	)

	uc.metrics.RecordPrediction(ctx, category, topFactor, result.Score())

	// 3. Publish events. Delivery problems never fail a prediction.
	collector := &events.EventCollector{}
	collector.Record(event.NewPredictionCompleted(
		predictionID, string(rules.Revision), category, topFactor, result.Score(), len(result.Advice()),
	))
	if result.Category().IsHigh() {
		collector.Record(event.NewHighStressDetected(predictionID, string(rules.Revision), topFactor, result.Score()))
	}

	if err := uc.publisher.Publish(ctx, collector.ClearEvents()...); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish prediction events",
			slog.String("prediction_id", predictionID.String()),
			slog.String("error", err.Error()),
		)
	}

	uc.logger.DebugContext(ctx, "stress predicted",
		slog.String("prediction_id", predictionID.String()),
		slog.String("rule_set", string(rules.Revision)),
		slog.Float64("stress_score", result.Score()),
		slog.String("category", category),
		slog.String("top_factor", topFactor),
	)

	return dto.FromResult(predictionID, result), nil
}
