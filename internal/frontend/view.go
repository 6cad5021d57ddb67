package frontend

import (
	"math"

	"github.com/Kiiichu/stress-estimator/internal/application/dto"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
)

// Display bands. These only colour the gauge and are independent of the
// category thresholds of the active rule set.
const (
	calmBelow    = 40
	neutralBelow = 60
)

// Band is the emoji and colour a score is shown with.
type Band struct {
	Emoji string
	Color string
}

var (
	bandCalm    = Band{Emoji: "😌", Color: "#4ade80"}
	bandNeutral = Band{Emoji: "😐", Color: "#facc15"}
	bandTense   = Band{Emoji: "😫", Color: "#f87171"}
	bandIdle    = Band{Color: "#4b5563"}
)

// BandFor returns the display band of a score.
func BandFor(score float64) Band {
	switch {
	case score < calmBelow:
		return bandCalm
	case score < neutralBelow:
		return bandNeutral
	default:
		return bandTense
	}
}

// GaugeAngle maps a score in [0,100] onto the 180 degree gauge.
func GaugeAngle(score float64) float64 {
	return math.Max(0, math.Min(score, 100)) / 100 * 180
}

// Placeholder is shown when the backend cannot be reached.
func Placeholder() dto.PredictStressResponse {
	return dto.PredictStressResponse{
		StressScore: 62,
		Category:    "Medium",
		Advice: []string{
			"Ensure you are running the stressd backend!",
			"Take short breaks.",
		},
	}
}

// Slider describes one range input.
type Slider struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

// Result is the analysis panel of the page.
type Result struct {
	Band     Band
	Category string
	Advice   []string
	Score    float64
	Angle    float64
	Offline  bool
}

// Page is the data rendered by the page template.
type Page struct {
	Result *Result
	// Rejection lists the reasons the backend refused the inputs.
	Rejection []string
	Revision  string
	Sliders   []Slider
}

// defaultInputs are the initial slider positions.
var defaultInputs = dto.PredictStressRequest{
	Assignments: 4,
	ClassHours:  20,
	SleepHours:  6,
	DaysToExam:  30,
}

// fallbackRuleSet sizes the sliders when the backend cannot describe its
// rule set.
func fallbackRuleSet() dto.RuleSetResponse {
	return dto.FromRuleSet(ruleset.RevisionB())
}

func newSliders(rs dto.RuleSetResponse, in dto.PredictStressRequest) []Slider {
	clamp := func(v float64, r ruleset.Range) float64 {
		return math.Max(r.Min, math.Min(v, r.Max))
	}

	return []Slider{
		{
			Name: "assignments", Label: "Assignments Due", Step: 1,
			Min: rs.Bounds.Assignments.Min, Max: rs.Bounds.Assignments.Max,
			Value: clamp(float64(in.Assignments), rs.Bounds.Assignments),
		},
		{
			Name: "class_hours", Label: "Class Hours / Week", Step: 1,
			Min: rs.Bounds.ClassHours.Min, Max: rs.Bounds.ClassHours.Max,
			Value: clamp(in.ClassHours, rs.Bounds.ClassHours),
		},
		{
			Name: "sleep_hours", Label: "Sleep Hours / Night", Step: 0.5,
			Min: rs.Bounds.SleepHours.Min, Max: rs.Bounds.SleepHours.Max,
			Value: clamp(in.SleepHours, rs.Bounds.SleepHours),
		},
		{
			Name: "days_to_exam", Label: "Days Until Exam", Step: 1,
			Min: rs.Bounds.DaysToExam.Min, Max: rs.Bounds.DaysToExam.Max,
			Value: clamp(float64(in.DaysToExam), rs.Bounds.DaysToExam),
		},
	}
}

func newResult(resp dto.PredictStressResponse, offline bool) *Result {
	return &Result{
		Band:     BandFor(resp.StressScore),
		Category: resp.Category,
		Advice:   resp.Advice,
		Score:    resp.StressScore,
		Angle:    GaugeAngle(resp.StressScore),
		Offline:  offline,
	}
}

// GaugeBand is the band the gauge is drawn with, grey before any analysis.
func (p Page) GaugeBand() Band {
	if p.Result == nil {
		return bandIdle
	}
	return p.Result.Band
}

// GaugeAngle is the filled arc of the gauge in degrees.
func (p Page) GaugeAngle() float64 {
	if p.Result == nil {
		return 0
	}
	return p.Result.Angle
}
