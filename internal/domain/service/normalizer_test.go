package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/service"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   model.StressInputs
		want model.FeatureVector
	}{
		{
			name: "exam soon",
			in:   model.StressInputs{Assignments: 4, ClassHours: 20, DaysToExam: 10, SleepHours: 6.5},
			want: model.FeatureVector{4, 20, 10, 6.5, 1},
		},
		{
			name: "exam flag is strict",
			in:   model.StressInputs{Assignments: 1, ClassHours: 12, DaysToExam: 21, SleepHours: 8},
			want: model.FeatureVector{1, 12, 21, 8, 0},
		},
		{
			name: "twenty days still soon",
			in:   model.StressInputs{DaysToExam: 20},
			want: model.FeatureVector{0, 0, 20, 0, 1},
		},
		{
			name: "days capped at horizon",
			in:   model.StressInputs{Assignments: 2, ClassHours: 15, DaysToExam: 180, SleepHours: 7},
			want: model.FeatureVector{2, 15, 60, 7, 0},
		},
		{
			name: "sentinel capped",
			in:   model.StressInputs{DaysToExam: 999},
			want: model.FeatureVector{0, 0, 60, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.Normalize(tt.in))
		})
	}
}
