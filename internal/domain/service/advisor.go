package service

import (
	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
)

// Advise selects the advice lines for a prediction. The result is never empty
// and keeps the rule set's rule order.
func Advise(rs ruleset.RuleSet, in model.StressInputs, score float64) []string {
	table := rs.Advice

	if table.PositiveBelow > 0 && score < table.PositiveBelow {
		return []string{table.Positive}
	}

	var advice []string
	for _, rule := range table.Rules {
		if rule.Fires(in) {
			advice = append(advice, rule.Message)
		}
	}

	if len(advice) == 0 {
		advice = append(advice, table.Fallback)
	}

	return advice
}
