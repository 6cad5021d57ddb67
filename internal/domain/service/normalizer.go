package service

import (
	"math"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
)

const (
	// ExamHorizonDays caps days-to-exam in the feature vector; anything further
	// away carries no urgency.
	ExamHorizonDays = 60

	// ExamSoonDays is the strict upper bound for the exam-soon flag.
	ExamSoonDays = 21
)

// Normalize derives the oracle's feature vector from raw inputs. Inputs are
// assumed to be range-checked already.
func Normalize(in model.StressInputs) model.FeatureVector {
	var fv model.FeatureVector

	fv[model.FeatureAssignments] = float64(in.Assignments)
	fv[model.FeatureClassHours] = in.ClassHours
	fv[model.FeatureDaysToExam] = math.Min(float64(in.DaysToExam), ExamHorizonDays)
	fv[model.FeatureSleepHours] = in.SleepHours
	if in.DaysToExam < ExamSoonDays {
		fv[model.FeatureExamSoon] = 1
	}

	return fv
}
