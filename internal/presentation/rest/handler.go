package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Kiiichu/stress-estimator/internal/application/dto"
	"github.com/Kiiichu/stress-estimator/internal/application/usecase"
	"github.com/Kiiichu/stress-estimator/internal/domain/port"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
)

// PredictionIDHeader carries the ID of a prediction in the response.
const PredictionIDHeader = "X-Prediction-ID"

func init() {
	// Report json names instead of Go field names in binding errors.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// predictRequest mirrors dto.PredictStressRequest with pointer fields so that
// a missing field can be told apart from a zero value. Count fields decode as
// numbers so that integral values such as 4.0 are accepted.
type predictRequest struct {
	Assignments *float64 `json:"assignments" binding:"required"`
	ClassHours  *float64 `json:"class_hours" binding:"required"`
	DaysToExam  *float64 `json:"days_to_exam" binding:"required"`
	SleepHours  *float64 `json:"sleep_hours" binding:"required"`
}

func (r predictRequest) toDTO() (dto.PredictStressRequest, []ruleset.FieldError) {
	var fields []ruleset.FieldError

	count := func(name string, v float64) int {
		n, ok := wholeNumber(v)
		if !ok {
			fields = append(fields, ruleset.FieldError{Field: name, Message: "must be an integer"})
		}
		return n
	}

	req := dto.PredictStressRequest{
		Assignments: count("assignments", *r.Assignments),
		ClassHours:  *r.ClassHours,
		DaysToExam:  count("days_to_exam", *r.DaysToExam),
		SleepHours:  *r.SleepHours,
	}
	return req, fields
}

// wholeNumber converts v to an int when it has no fractional part. Values
// outside the int32 range saturate so the range check still reports them.
func wholeNumber(v float64) (int, bool) {
	if v != math.Trunc(v) {
		return 0, false
	}
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32, true
	case v < math.MinInt32:
		return math.MinInt32, true
	}
	return int(v), true
}

// PredictionHandler serves the prediction and rule set endpoints.
type PredictionHandler struct {
	predict  *usecase.PredictStress
	describe *usecase.DescribeRuleSet
	metrics  port.MetricsRecorder
	logger   *slog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(
	predict *usecase.PredictStress,
	describe *usecase.DescribeRuleSet,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		predict:  predict,
		describe: describe,
		metrics:  metrics,
		logger:   logger,
	}
}

// RegisterRoutes registers the prediction routes on the given router.
func (h *PredictionHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/predict", h.Predict)
	r.GET("/ruleset", h.RuleSet)
}

// Predict scores one set of inputs.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields, ok := bindingFieldErrors(err); ok {
			h.reject(c, fields)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	in, fields := req.toDTO()
	if len(fields) > 0 {
		h.reject(c, fields)
		return
	}

	resp, err := h.predict.Execute(c.Request.Context(), in)
	if err != nil {
		var verr *ruleset.ValidationError
		if errors.As(err, &verr) {
			h.reject(c, verr.Fields)
			return
		}

		h.logger.ErrorContext(c.Request.Context(), "prediction failed",
			slog.String("request_id", RequestID(c)),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "prediction failed",
			"details": err.Error(),
		})
		return
	}

	c.Header(PredictionIDHeader, resp.PredictionID.String())
	c.JSON(http.StatusOK, resp)
}

// RuleSet describes the active rule set.
func (h *PredictionHandler) RuleSet(c *gin.Context) {
	c.JSON(http.StatusOK, h.describe.Execute())
}

func (h *PredictionHandler) reject(c *gin.Context, fields []ruleset.FieldError) {
	h.metrics.RecordRejection(c.Request.Context(), "rest")
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}

// bindingFieldErrors converts binding failures that concern a single field
// into field errors. Syntax errors are not field errors.
func bindingFieldErrors(err error) ([]ruleset.FieldError, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]ruleset.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			msg := "is invalid"
			if fe.Tag() == "required" {
				msg = "is required"
			}
			fields = append(fields, ruleset.FieldError{Field: fe.Field(), Message: msg})
		}
		return fields, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []ruleset.FieldError{{Field: typeErr.Field, Message: "must be a number"}}, true
	}

	return nil, false
}
