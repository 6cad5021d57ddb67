package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/valueobject"
)

func TestStressResult_AdviceIsCopied(t *testing.T) {
	advice := []string{"sleep more"}
	result := model.NewStressResult(42.5, valueobject.CategoryMedium, valueobject.FactorSleep, "Lack of sleep", advice)

	advice[0] = "mutated"
	assert.Equal(t, []string{"sleep more"}, result.Advice())

	got := result.Advice()
	got[0] = "mutated again"
	assert.Equal(t, []string{"sleep more"}, result.Advice())
}

func TestStressResult_Accessors(t *testing.T) {
	result := model.NewStressResult(80, valueobject.CategoryHigh, valueobject.FactorExamProximity, "Upcoming exam", []string{"a"})

	assert.Equal(t, 80.0, result.Score())
	assert.True(t, result.Category().Equal(valueobject.CategoryHigh))
	assert.True(t, result.TopFactor().Equal(valueobject.FactorExamProximity))
	assert.Equal(t, "Upcoming exam", result.TopFactorLabel())
}

func TestFactorBreakdown_TotalAndWeight(t *testing.T) {
	b := model.FactorBreakdown{
		{Factor: valueobject.FactorAssignments, Weight: 10},
		{Factor: valueobject.FactorSleep, Weight: 5.5},
		{Factor: valueobject.FactorClassHours, Weight: 0},
		{Factor: valueobject.FactorExamProximity, Weight: 2},
	}

	assert.InDelta(t, 17.5, b.Total(), 1e-9)
	assert.Equal(t, 5.5, b.Weight(valueobject.FactorSleep))
	assert.Equal(t, 0.0, model.FactorBreakdown{}.Weight(valueobject.FactorSleep))
}

func TestFeatureColumns_MatchPositions(t *testing.T) {
	assert.Equal(t, "assignments", model.FeatureColumns[model.FeatureAssignments])
	assert.Equal(t, "class_hours", model.FeatureColumns[model.FeatureClassHours])
	assert.Equal(t, "days_to_exam", model.FeatureColumns[model.FeatureDaysToExam])
	assert.Equal(t, "sleep_hours", model.FeatureColumns[model.FeatureSleepHours])
	assert.Equal(t, "exam_soon", model.FeatureColumns[model.FeatureExamSoon])
}
