package ruleset

import (
	"math"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/valueobject"
)

// RevisionA is the original rule set: wide input ranges, 35/65 thresholds,
// threshold-gated class load and the 999 "no exam" sentinel.
func RevisionA() RuleSet {
	return RuleSet{
		Revision: RevA,
		Bounds: Bounds{
			Assignments: Range{Min: 0, Max: 50},
			ClassHours:  Range{Min: 0, Max: 168},
			DaysToExam:  Range{Min: 0, Max: NoExamSentinel},
			SleepHours:  Range{Min: 0, Max: 24},
		},
		Thresholds: Thresholds{Medium: 35, High: 65},
		NoExamDays: NoExamSentinel,
		labels: map[valueobject.Factor]string{
			valueobject.FactorAssignments:   "Assignment load",
			valueobject.FactorSleep:         "Sleep hours",
			valueobject.FactorClassHours:    "Class load",
			valueobject.FactorExamProximity: "Upcoming exam",
		},
		weigh: func(in model.StressInputs) model.FactorBreakdown {
			var exam float64
			if in.DaysToExam < NoExamSentinel {
				exam = math.Max(0, float64(21-in.DaysToExam)) * 2
			}
			return breakdown(
				float64(in.Assignments)*8,
				math.Max(0, 7-in.SleepHours)*6,
				math.Max(0, in.ClassHours-20)*0.6,
				exam,
			)
		},
		Advice: Advice{
			Rules:    standardAdviceRules(),
			Fallback: adviceMild,
		},
	}
}

// RevisionB is the slider-era rule set: narrow input ranges matching the
// frontend, 55/80 thresholds, unconditional class load and a 60-day exam
// horizon. Scores below 30 receive a single positive message.
func RevisionB() RuleSet {
	return RuleSet{
		Revision: RevB,
		Bounds: Bounds{
			Assignments: Range{Min: 0, Max: 9},
			ClassHours:  Range{Min: 10, Max: 40},
			DaysToExam:  Range{Min: 0, Max: 180},
			SleepHours:  Range{Min: 0, Max: 12},
		},
		Thresholds: Thresholds{Medium: 55, High: 80},
		NoExamDays: 180,
		labels: map[valueobject.Factor]string{
			valueobject.FactorAssignments:   "Assignments",
			valueobject.FactorSleep:         "Lack of sleep",
			valueobject.FactorClassHours:    "Class hours",
			valueobject.FactorExamProximity: "Upcoming exam",
		},
		weigh: func(in model.StressInputs) model.FactorBreakdown {
			days := math.Min(float64(in.DaysToExam), 60)
			return breakdown(
				float64(in.Assignments)*5,
				math.Max(0, 9-in.SleepHours)*5,
				in.ClassHours*0.8,
				math.Max(0, 60-days)*1,
			)
		},
		Advice: Advice{
			Positive:      advicePositive,
			PositiveBelow: 30,
			Rules:         standardAdviceRules(),
			Fallback:      adviceMild,
		},
	}
}
