package service

import (
	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
	"github.com/Kiiichu/stress-estimator/internal/domain/valueobject"
)

// Attribute weighs every factor from the raw inputs under the given rule set
// and returns the heaviest one together with the full breakdown. On equal
// weights the factor listed first in valueobject.Factors() wins.
func Attribute(rs ruleset.RuleSet, in model.StressInputs) (valueobject.Factor, model.FactorBreakdown) {
	breakdown := rs.Weigh(in)
	if len(breakdown) == 0 {
		return valueobject.Factor{}, breakdown
	}

	top := breakdown[0]
	for _, fw := range breakdown[1:] {
		if fw.Weight > top.Weight {
			top = fw
		}
	}

	return top.Factor, breakdown
}
