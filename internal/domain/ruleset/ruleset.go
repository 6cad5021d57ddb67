// Package ruleset holds the two versioned stress rule revisions. A deployment
// runs exactly one of them; formulas from different revisions are never mixed.
package ruleset

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/valueobject"
)

// Revision names a rule set version.
type Revision string

const (
	RevA Revision = "A"
	RevB Revision = "B"
)

// NoExamSentinel is the days-to-exam value Revision A reads as "no exam scheduled".
const NoExamSentinel = 999

// Range is a closed interval of accepted values.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range. NaN is never contained.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Bounds are the accepted input ranges of a revision.
type Bounds struct {
	Assignments Range `json:"assignments"`
	ClassHours  Range `json:"class_hours"`
	DaysToExam  Range `json:"days_to_exam"`
	SleepHours  Range `json:"sleep_hours"`
}

// Thresholds are the inclusive lower edges of the Medium and High categories.
type Thresholds struct {
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// AdviceRule appends Message when Fires reports true.
type AdviceRule struct {
	Fires   func(in model.StressInputs) bool
	Name    string
	Message string
}

// Advice is the advice table of a revision.
type Advice struct {
	// Positive replaces every other message when the score is below
	// PositiveBelow. A zero PositiveBelow disables the short-circuit.
	Positive      string
	Fallback      string
	Rules         []AdviceRule
	PositiveBelow float64
}

// RuleSet is one complete, versioned set of scoring rules.
type RuleSet struct {
	labels     map[valueobject.Factor]string
	weigh      func(in model.StressInputs) model.FactorBreakdown
	Advice     Advice
	Revision   Revision
	Bounds     Bounds
	Thresholds Thresholds
	// NoExamDays is the days-to-exam value that means "no exam scheduled"
	// for this revision.
	NoExamDays int
}

// Lookup returns the rule set for a revision name ("A" or "B", case-insensitive).
func Lookup(name string) (RuleSet, error) {
	switch Revision(strings.ToUpper(strings.TrimSpace(name))) {
	case RevA:
		return RevisionA(), nil
	case RevB:
		return RevisionB(), nil
	default:
		return RuleSet{}, fmt.Errorf("unknown rule set revision: %q", name)
	}
}

// Categorize buckets a clamped score into a category.
func (rs RuleSet) Categorize(score float64) valueobject.Category {
	return valueobject.CategoryFromScore(score, rs.Thresholds.Medium, rs.Thresholds.High)
}

// Weigh computes the per-factor contributions from raw inputs.
func (rs RuleSet) Weigh(in model.StressInputs) model.FactorBreakdown {
	return rs.weigh(in)
}

// Label returns the user-facing name of a factor under this revision.
func (rs RuleSet) Label(f valueobject.Factor) string {
	if label, ok := rs.labels[f]; ok {
		return label
	}
	return "Other"
}

// Validate checks the inputs against the revision bounds and reports every
// offending field at once.
func (rs RuleSet) Validate(in model.StressInputs) error {
	var fields []FieldError

	check := func(name string, v float64, r Range) {
		if !r.Contains(v) {
			fields = append(fields, FieldError{
				Field:   name,
				Message: fmt.Sprintf("must be between %s and %s", formatBound(r.Min), formatBound(r.Max)),
			})
		}
	}

	check("assignments", float64(in.Assignments), rs.Bounds.Assignments)
	check("class_hours", in.ClassHours, rs.Bounds.ClassHours)
	check("days_to_exam", float64(in.DaysToExam), rs.Bounds.DaysToExam)
	check("sleep_hours", in.SleepHours, rs.Bounds.SleepHours)

	if len(fields) > 0 {
		return &ValidationError{Revision: rs.Revision, Fields: fields}
	}
	return nil
}

// formatBound prints a bound without trailing zeros: 10, 9.5.
func formatBound(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func breakdown(assignments, sleep, classHours, exam float64) model.FactorBreakdown {
	return model.FactorBreakdown{
		{Factor: valueobject.FactorAssignments, Weight: assignments},
		{Factor: valueobject.FactorSleep, Weight: sleep},
		{Factor: valueobject.FactorClassHours, Weight: classHours},
		{Factor: valueobject.FactorExamProximity, Weight: exam},
	}
}

// Advice lines shared by both revisions.
const (
	adviceSleep       = "Prioritise sleep — aim for 7+ hours nightly to improve focus and memory."
	adviceAssignments = "Break assignments into small tasks and use time-blocking."
	adviceExam        = "Use active recall & spaced repetition for exam prep. Make a 3-day plan."
	adviceClassLoad   = "Schedule recovery breaks between heavy class days."
	adviceMild        = "Your stress drivers look mild — keep consistent sleep and small breaks."
	advicePositive    = "Your stress level looks low. Keep up your current routine and balance!"
)

func standardAdviceRules() []AdviceRule {
	return []AdviceRule{
		{
			Name:    "short_sleep",
			Message: adviceSleep,
			Fires:   func(in model.StressInputs) bool { return in.SleepHours < 6 },
		},
		{
			Name:    "many_assignments",
			Message: adviceAssignments,
			Fires:   func(in model.StressInputs) bool { return in.Assignments >= 4 },
		},
		{
			Name:    "exam_this_week",
			Message: adviceExam,
			Fires:   func(in model.StressInputs) bool { return in.DaysToExam < 7 },
		},
		{
			Name:    "heavy_class_load",
			Message: adviceClassLoad,
			Fires:   func(in model.StressInputs) bool { return in.ClassHours > 25 },
		},
	}
}
