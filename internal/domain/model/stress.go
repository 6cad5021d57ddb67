package model

import (
	"github.com/Kiiichu/stress-estimator/internal/domain/valueobject"
)

// StressInputs are the four self-reported values a prediction starts from.
// Ranges are enforced by the rule set at the boundary, not here.
type StressInputs struct {
	ClassHours  float64
	SleepHours  float64
	Assignments int
	DaysToExam  int
}

// FeatureCount is the length of the vector the regression oracle was trained on.
const FeatureCount = 5

// Positions of each feature inside a FeatureVector.
const (
	FeatureAssignments = iota
	FeatureClassHours
	FeatureDaysToExam
	FeatureSleepHours
	FeatureExamSoon
)

// FeatureColumns names the FeatureVector positions in order. A model artifact
// must declare exactly these columns in exactly this order.
var FeatureColumns = [FeatureCount]string{
	"assignments",
	"class_hours",
	"days_to_exam",
	"sleep_hours",
	"exam_soon",
}

// FeatureVector is the fixed-order numeric input of the regression oracle.
type FeatureVector [FeatureCount]float64

// FactorWeight is one entry of a FactorBreakdown.
type FactorWeight struct {
	Factor valueobject.Factor
	Weight float64
}

// FactorBreakdown holds one non-negative contribution per factor, in
// valueobject.Factors() order.
type FactorBreakdown []FactorWeight

// Total sums all contributions.
func (b FactorBreakdown) Total() float64 {
	var total float64
	for _, fw := range b {
		total += fw.Weight
	}
	return total
}

// Weight returns the contribution recorded for f, or zero.
func (b FactorBreakdown) Weight(f valueobject.Factor) float64 {
	for _, fw := range b {
		if fw.Factor.Equal(f) {
			return fw.Weight
		}
	}
	return 0
}

// StressResult is the outcome of one prediction. It is built once and never mutated.
type StressResult struct {
	category  valueobject.Category
	topFactor valueobject.Factor
	label     string
	advice    []string
	score     float64
}

// NewStressResult assembles a result. The advice slice is copied.
func NewStressResult(
	score float64,
	category valueobject.Category,
	topFactor valueobject.Factor,
	label string,
	advice []string,
) StressResult {
	adv := make([]string, len(advice))
	copy(adv, advice)

	return StressResult{
		score:     score,
		category:  category,
		topFactor: topFactor,
		label:     label,
		advice:    adv,
	}
}

// --- Accessors ---

func (r StressResult) Score() float64                 { return r.score }
func (r StressResult) Category() valueobject.Category { return r.category }
func (r StressResult) TopFactor() valueobject.Factor  { return r.topFactor }
func (r StressResult) TopFactorLabel() string         { return r.label }

// Advice returns a copy of the advice lines.
func (r StressResult) Advice() []string {
	adv := make([]string, len(r.advice))
	copy(adv, r.advice)
	return adv
}
