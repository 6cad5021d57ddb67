package usecase

import (
	"github.com/Kiiichu/stress-estimator/internal/application/dto"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
)

// DescribeRuleSet is the use case for exposing the active rule set.
type DescribeRuleSet struct {
	rules ruleset.RuleSet
}

// NewDescribeRuleSet creates a new DescribeRuleSet use case.
func NewDescribeRuleSet(rules ruleset.RuleSet) *DescribeRuleSet {
	return &DescribeRuleSet{rules: rules}
}

// Execute returns the revision, input bounds, thresholds and factor labels.
func (uc *DescribeRuleSet) Execute() dto.RuleSetResponse {
	return dto.FromRuleSet(uc.rules)
}
