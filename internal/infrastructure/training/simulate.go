// Package training produces model artifacts from simulated student data.
package training

import (
	"math"
	"math/rand/v2"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
)

// Simulation parameters.
const (
	assignmentRate    = 2.0
	maxAssignments    = 8
	classHoursMean    = 15.0
	classHoursStdDev  = 6.0
	maxClassHours     = 30.0
	noExamProbability = 0.25
	examDaysMean      = 10.0
	sleepMean         = 7.0
	sleepStdDev       = 1.5
	minSleep          = 3.0
	maxSleep          = 12.0
	labelNoiseStdDev  = 4.0
)

// Row is one simulated student week: raw inputs plus the stress label.
type Row struct {
	Inputs model.StressInputs
	Stress float64
}

// Simulator draws synthetic rows whose labels follow the rule set's factor
// weights, so the trained model agrees with the attribution it is served with.
type Simulator struct {
	rng   *rand.Rand
	rules ruleset.RuleSet
}

// NewSimulator creates a deterministic simulator for a rule set.
func NewSimulator(rules ruleset.RuleSet, seed uint64) *Simulator {
	return &Simulator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		rules: rules,
	}
}

// Rows draws n rows.
func (s *Simulator) Rows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = s.Row()
	}
	return rows
}

// Row draws a single row. Inputs are clipped into the rule set's bounds.
func (s *Simulator) Row() Row {
	b := s.rules.Bounds

	assignments := min(s.poisson(assignmentRate), maxAssignments)
	assignments = int(clip(float64(assignments), b.Assignments.Min, b.Assignments.Max))

	classHours := clip(s.rng.NormFloat64()*classHoursStdDev+classHoursMean, 0, maxClassHours)
	classHours = clip(classHours, b.ClassHours.Min, b.ClassHours.Max)

	days := s.rules.NoExamDays
	if s.rng.Float64() >= noExamProbability {
		days = int(clip(s.rng.ExpFloat64()*examDaysMean, b.DaysToExam.Min, b.DaysToExam.Max))
	}

	sleep := clip(s.rng.NormFloat64()*sleepStdDev+sleepMean, minSleep, maxSleep)
	sleep = clip(sleep, b.SleepHours.Min, b.SleepHours.Max)

	in := model.StressInputs{
		Assignments: assignments,
		ClassHours:  classHours,
		DaysToExam:  days,
		SleepHours:  sleep,
	}

	stress := s.rules.Weigh(in).Total() + s.rng.NormFloat64()*labelNoiseStdDev

	return Row{Inputs: in, Stress: clip(stress, 0, 100)}
}

// poisson draws from a Poisson distribution using Knuth's method, which is
// fine for the small rates used here.
func (s *Simulator) poisson(lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= s.rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
