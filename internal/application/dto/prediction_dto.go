package dto

import (
	"github.com/google/uuid"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
	"github.com/Kiiichu/stress-estimator/internal/domain/valueobject"
)

// PredictStressRequest is the input DTO for the PredictStress use case.
type PredictStressRequest struct {
	ClassHours  float64 `json:"class_hours"`
	SleepHours  float64 `json:"sleep_hours"`
	Assignments int     `json:"assignments"`
	DaysToExam  int     `json:"days_to_exam"`
}

// ToInputs maps the request onto the domain inputs.
func (r PredictStressRequest) ToInputs() model.StressInputs {
	return model.StressInputs{
		Assignments: r.Assignments,
		ClassHours:  r.ClassHours,
		DaysToExam:  r.DaysToExam,
		SleepHours:  r.SleepHours,
	}
}

// PredictStressResponse is the output DTO of a prediction. Its JSON form is
// exactly the public response contract; the prediction ID travels in headers
// and events only.
type PredictStressResponse struct {
	Category     string    `json:"category"`
	TopFactor    string    `json:"top_factor"`
	Advice       []string  `json:"advice"`
	StressScore  float64   `json:"stress_score"`
	PredictionID uuid.UUID `json:"-"`
}

// FromResult maps a domain result to the response DTO.
func FromResult(id uuid.UUID, r model.StressResult) PredictStressResponse {
	return PredictStressResponse{
		PredictionID: id,
		StressScore:  r.Score(),
		Category:     r.Category().String(),
		TopFactor:    r.TopFactorLabel(),
		Advice:       r.Advice(),
	}
}

// RuleSetResponse describes the active rule set so clients can size their inputs.
type RuleSetResponse struct {
	Labels        map[string]string  `json:"labels"`
	Revision      string             `json:"revision"`
	Bounds        ruleset.Bounds     `json:"bounds"`
	Thresholds    ruleset.Thresholds `json:"thresholds"`
	PositiveBelow float64            `json:"positive_below,omitempty"`
}

// FromRuleSet maps a rule set to the response DTO.
func FromRuleSet(rs ruleset.RuleSet) RuleSetResponse {
	labels := make(map[string]string, len(valueobject.Factors()))
	for _, f := range valueobject.Factors() {
		labels[f.String()] = rs.Label(f)
	}

	return RuleSetResponse{
		Revision:      string(rs.Revision),
		Bounds:        rs.Bounds,
		Thresholds:    rs.Thresholds,
		Labels:        labels,
		PositiveBelow: rs.Advice.PositiveBelow,
	}
}
