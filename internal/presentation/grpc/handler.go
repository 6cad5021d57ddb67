package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Kiiichu/stress-estimator/internal/application/dto"
	"github.com/Kiiichu/stress-estimator/internal/application/usecase"
	"github.com/Kiiichu/stress-estimator/internal/domain/port"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
)

// Compile-time assertion that StressHandler implements StressServiceServer.
var _ StressServiceServer = (*StressHandler)(nil)

// StressHandler implements the gRPC StressServiceServer interface.
type StressHandler struct {
	UnimplementedStressServiceServer
	predict  *usecase.PredictStress
	describe *usecase.DescribeRuleSet
	metrics  port.MetricsRecorder
	logger   *slog.Logger
}

// NewStressHandler creates a new StressHandler.
func NewStressHandler(
	predict *usecase.PredictStress,
	describe *usecase.DescribeRuleSet,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
) *StressHandler {
	return &StressHandler{
		predict:  predict,
		describe: describe,
		metrics:  metrics,
		logger:   logger,
	}
}

// Predict scores one set of inputs.
func (h *StressHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if missing := missingFields(req); len(missing) > 0 {
		h.metrics.RecordRejection(ctx, "grpc")
		return nil, status.Errorf(codes.InvalidArgument, "%s is required", strings.Join(missing, ", "))
	}

	resp, err := h.predict.Execute(ctx, dto.PredictStressRequest{
		Assignments: *req.Assignments,
		ClassHours:  *req.ClassHours,
		DaysToExam:  *req.DaysToExam,
		SleepHours:  *req.SleepHours,
	})
	if err != nil {
		var verr *ruleset.ValidationError
		if errors.As(err, &verr) {
			h.metrics.RecordRejection(ctx, "grpc")
			return nil, status.Error(codes.InvalidArgument, verr.Error())
		}
		h.logger.ErrorContext(ctx, "prediction failed", slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "prediction failed: %v", err)
	}

	return &PredictResponse{
		StressScore: resp.StressScore,
		Category:    resp.Category,
		TopFactor:   resp.TopFactor,
		Advice:      resp.Advice,
	}, nil
}

// DescribeRuleSet returns the active rule set.
func (h *StressHandler) DescribeRuleSet(_ context.Context, _ *DescribeRuleSetRequest) (*RuleSetResponse, error) {
	rs := h.describe.Execute()

	return &RuleSetResponse{
		Revision: rs.Revision,
		Bounds: map[string]RangeMsg{
			"assignments":  RangeMsg(rs.Bounds.Assignments),
			"class_hours":  RangeMsg(rs.Bounds.ClassHours),
			"days_to_exam": RangeMsg(rs.Bounds.DaysToExam),
			"sleep_hours":  RangeMsg(rs.Bounds.SleepHours),
		},
		Labels:        rs.Labels,
		MediumFrom:    rs.Thresholds.Medium,
		HighFrom:      rs.Thresholds.High,
		PositiveBelow: rs.PositiveBelow,
	}, nil
}

func missingFields(req *PredictRequest) []string {
	if req == nil {
		return []string{"assignments", "class_hours", "days_to_exam", "sleep_hours"}
	}
	var missing []string
	if req.Assignments == nil {
		missing = append(missing, "assignments")
	}
	if req.ClassHours == nil {
		missing = append(missing, "class_hours")
	}
	if req.DaysToExam == nil {
		missing = append(missing, "days_to_exam")
	}
	if req.SleepHours == nil {
		missing = append(missing, "sleep_hours")
	}
	return missing
}
