package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/port"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
)

const (
	minScore = 0
	maxScore = 100
)

// ErrNonNumericScore is returned when the oracle yields NaN.
var ErrNonNumericScore = errors.New("oracle returned a non-numeric score")

// Predictor runs one prediction end to end: normalize, regress, clamp, then
// categorize, attribute and advise. It holds no per-request state and may be
// shared between goroutines.
type Predictor struct {
	oracle port.Oracle
	rules  ruleset.RuleSet
}

// NewPredictor creates a Predictor bound to one oracle and one rule set.
func NewPredictor(oracle port.Oracle, rules ruleset.RuleSet) *Predictor {
	return &Predictor{
		oracle: oracle,
		rules:  rules,
	}
}

// RuleSet returns the rule set this predictor applies.
func (p *Predictor) RuleSet() ruleset.RuleSet {
	return p.rules
}

// Predict computes a StressResult for already-validated inputs.
func (p *Predictor) Predict(in model.StressInputs) (model.StressResult, error) {
	raw, err := p.oracle.Predict(Normalize(in))
	if err != nil {
		return model.StressResult{}, fmt.Errorf("oracle prediction: %w", err)
	}
	if math.IsNaN(raw) {
		return model.StressResult{}, ErrNonNumericScore
	}

	score := Clamp(raw)

	// Category and advice see the unrounded score; rounding is for display.
	category := p.rules.Categorize(score)
	top, _ := Attribute(p.rules, in)
	advice := Advise(p.rules, in, score)

	return model.NewStressResult(
		RoundScore(score),
		category,
		top,
		p.rules.Label(top),
		advice,
	), nil
}

// Clamp bounds a raw oracle value to [0, 100]. Infinities clamp to the nearest end.
func Clamp(raw float64) float64 {
	return math.Max(minScore, math.Min(maxScore, raw))
}

// RoundScore rounds a score to one decimal place. Rounding applies to the
// exact binary value, so 42.45 (stored as 42.4500000000000028...) becomes
// 42.5 and 0.15 (stored as 0.1499999999999999944...) becomes 0.1.
func RoundScore(score float64) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(score, 'f', 1, 64), 64)
	return rounded
}
