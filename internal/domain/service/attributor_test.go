package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
	"github.com/Kiiichu/stress-estimator/internal/domain/service"
	"github.com/Kiiichu/stress-estimator/internal/domain/valueobject"
)

func TestAttribute_RevisionB(t *testing.T) {
	rs := ruleset.RevisionB()

	tests := []struct {
		name      string
		in        model.StressInputs
		want      valueobject.Factor
		wantLabel string
	}{
		{
			name:      "short sleep",
			in:        model.StressInputs{Assignments: 0, ClassHours: 10, DaysToExam: 180, SleepHours: 2},
			want:      valueobject.FactorSleep,
			wantLabel: "Lack of sleep",
		},
		{
			name:      "saturated inputs favour the exam",
			in:        model.StressInputs{Assignments: 9, ClassHours: 40, DaysToExam: 0, SleepHours: 0},
			want:      valueobject.FactorExamProximity,
			wantLabel: "Upcoming exam",
		},
		{
			name:      "class hours always count",
			in:        model.StressInputs{Assignments: 1, ClassHours: 40, DaysToExam: 120, SleepHours: 9},
			want:      valueobject.FactorClassHours,
			wantLabel: "Class hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, breakdown := service.Attribute(rs, tt.in)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLabel, rs.Label(got))
			assert.Len(t, breakdown, len(valueobject.Factors()))
		})
	}
}

func TestAttribute_RevisionA(t *testing.T) {
	rs := ruleset.RevisionA()

	t.Run("sentinel contributes nothing", func(t *testing.T) {
		got, breakdown := service.Attribute(rs, model.StressInputs{Assignments: 1, ClassHours: 10, DaysToExam: 999, SleepHours: 8})

		assert.Equal(t, 0.0, breakdown.Weight(valueobject.FactorExamProximity))
		assert.Equal(t, valueobject.FactorAssignments, got)
		assert.Equal(t, "Assignment load", rs.Label(got))
	})

	t.Run("near exam", func(t *testing.T) {
		got, _ := service.Attribute(rs, model.StressInputs{Assignments: 1, ClassHours: 10, DaysToExam: 1, SleepHours: 8})

		assert.Equal(t, valueobject.FactorExamProximity, got)
	})
}

func TestAttribute_TieGoesToFirstFactor(t *testing.T) {
	tests := []struct {
		name string
		in   model.StressInputs
		want valueobject.Factor
	}{
		{
			// assignments 45 == sleep 45, exam 0, class 8.
			name: "assignments before sleep",
			in:   model.StressInputs{Assignments: 9, ClassHours: 10, DaysToExam: 60, SleepHours: 0},
			want: valueobject.FactorAssignments,
		},
		{
			// sleep 10 == exam 10, class 8, assignments 0.
			name: "sleep before exam",
			in:   model.StressInputs{Assignments: 0, ClassHours: 10, DaysToExam: 50, SleepHours: 7},
			want: valueobject.FactorSleep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := service.Attribute(ruleset.RevisionB(), tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttribute_AllZeroPicksFirst(t *testing.T) {
	got, breakdown := service.Attribute(ruleset.RevisionA(), model.StressInputs{ClassHours: 10, DaysToExam: 999, SleepHours: 9})

	assert.Equal(t, 0.0, breakdown.Total())
	assert.Equal(t, valueobject.FactorAssignments, got)
}

func TestAttribute_Deterministic(t *testing.T) {
	in := model.StressInputs{Assignments: 5, ClassHours: 22.5, DaysToExam: 14, SleepHours: 5.5}

	for _, rs := range []ruleset.RuleSet{ruleset.RevisionA(), ruleset.RevisionB()} {
		first, firstBreakdown := service.Attribute(rs, in)
		for i := 0; i < 10; i++ {
			got, breakdown := service.Attribute(rs, in)
			assert.Equal(t, first, got)
			assert.Equal(t, firstBreakdown, breakdown)
		}
	}
}
