package training_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/oracle"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/training"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSimulator_Deterministic(t *testing.T) {
	a := training.NewSimulator(ruleset.RevisionB(), 42).Rows(50)
	b := training.NewSimulator(ruleset.RevisionB(), 42).Rows(50)
	c := training.NewSimulator(ruleset.RevisionB(), 43).Rows(50)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSimulator_RowsStayInBounds(t *testing.T) {
	for _, rs := range []ruleset.RuleSet{ruleset.RevisionA(), ruleset.RevisionB()} {
		rows := training.NewSimulator(rs, 7).Rows(2000)

		var noExam int
		for _, r := range rows {
			require.NoError(t, rs.Validate(r.Inputs), "revision %s row %+v", rs.Revision, r.Inputs)
			assert.GreaterOrEqual(t, r.Stress, 0.0)
			assert.LessOrEqual(t, r.Stress, 100.0)
			assert.LessOrEqual(t, r.Inputs.Assignments, 8)
			if r.Inputs.DaysToExam == rs.NoExamDays {
				noExam++
			}
		}

		// Roughly a quarter of the rows have no exam.
		assert.InDelta(t, 0.25, float64(noExam)/float64(len(rows)), 0.05, "revision %s", rs.Revision)
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	rows := training.NewSimulator(ruleset.RevisionA(), 1).Rows(25)

	var buf bytes.Buffer
	require.NoError(t, training.WriteCSV(&buf, rows))
	assert.True(t, strings.HasPrefix(buf.String(), "assignments,class_hours,days_to_exam,sleep_hours,stress_score\n"))

	got, err := training.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrong header", "a,b,c,d,e\n"},
		{"bad number", "assignments,class_hours,days_to_exam,sleep_hours,stress_score\n1,x,3,4,5\n"},
		{"short row", "assignments,class_hours,days_to_exam,sleep_hours,stress_score\n1,2,3\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := training.ReadCSV(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDataset_FromRowsAndSplit(t *testing.T) {
	rows := []training.Row{
		{Inputs: model.StressInputs{Assignments: 1, ClassHours: 12, DaysToExam: 90, SleepHours: 8}, Stress: 10},
		{Inputs: model.StressInputs{Assignments: 6, ClassHours: 30, DaysToExam: 3, SleepHours: 4}, Stress: 90},
	}

	d := training.FromRows(rows)
	require.Equal(t, 2, d.Len())
	assert.Equal(t, model.FeatureVector{1, 12, 60, 8, 0}, d.X[0])
	assert.Equal(t, model.FeatureVector{6, 30, 3, 4, 1}, d.X[1])

	big := training.FromRows(training.NewSimulator(ruleset.RevisionB(), 3).Rows(100))
	train, test := big.Split(0.15, 42)
	assert.Equal(t, 85, train.Len())
	assert.Equal(t, 15, test.Len())
}

// stepData has stress 80 when sleep <= 5, otherwise 20.
func stepData() training.Dataset {
	var d training.Dataset
	for i := 0; i < 40; i++ {
		sleep := float64(i%10) + 0.5
		y := 20.0
		if sleep <= 5 {
			y = 80
		}
		var fv model.FeatureVector
		fv[model.FeatureSleepHours] = sleep
		fv[model.FeatureAssignments] = float64(i % 3)
		d.X = append(d.X, fv)
		d.Y = append(d.Y, y)
	}
	return d
}

func TestTrainForest_LearnsStep(t *testing.T) {
	d := stepData()

	trees, err := training.TrainForest(context.Background(), d, training.ForestConfig{
		Trees: 5, MaxDepth: 3, MinLeaf: 1, Seed: 42,
	})
	require.NoError(t, err)
	require.Len(t, trees, 5)

	forest, err := oracle.NewForest(trees)
	require.NoError(t, err)

	// Points far from the step are classified identically by every tree.
	var short, long model.FeatureVector
	short[model.FeatureSleepHours] = 0.5
	long[model.FeatureSleepHours] = 9.5

	got, err := forest.Predict(short)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, got, 1e-9)

	got, err = forest.Predict(long)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got, 1e-9)

	mse, err := training.MSE(forest, d)
	require.NoError(t, err)
	assert.Less(t, mse, 400.0)
}

func TestTrainForest_IndependentOfWorkers(t *testing.T) {
	d := training.FromRows(training.NewSimulator(ruleset.RevisionB(), 9).Rows(300))
	cfg := training.ForestConfig{Trees: 6, MaxDepth: 5, MinLeaf: 3, Seed: 11}

	cfg.Workers = 1
	serial, err := training.TrainForest(context.Background(), d, cfg)
	require.NoError(t, err)

	cfg.Workers = 4
	parallel, err := training.TrainForest(context.Background(), d, cfg)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestTrainForest_RespectsLimits(t *testing.T) {
	d := training.FromRows(training.NewSimulator(ruleset.RevisionA(), 5).Rows(200))

	trees, err := training.TrainForest(context.Background(), d, training.ForestConfig{
		Trees: 1, MaxDepth: 1, MinLeaf: 1, Seed: 1,
	})
	require.NoError(t, err)
	// A depth-one tree is a single split with two leaves.
	assert.LessOrEqual(t, len(trees[0].Nodes), 3)
}

func TestTrainForest_InvalidInput(t *testing.T) {
	_, err := training.TrainForest(context.Background(), stepData(), training.ForestConfig{Trees: 0, MaxDepth: 3, MinLeaf: 1})
	assert.Error(t, err)

	_, err = training.TrainForest(context.Background(), training.Dataset{}, training.ForestConfig{Trees: 1, MaxDepth: 3, MinLeaf: 1})
	assert.Error(t, err)
}

func TestTrainForest_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := training.TrainForest(ctx, stepData(), training.ForestConfig{Trees: 3, MaxDepth: 3, MinLeaf: 1, Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_ProducesLoadableArtifact(t *testing.T) {
	rs := ruleset.RevisionB()
	rows := training.NewSimulator(rs, 42).Rows(600)

	p := training.NewPipeline(rs, training.Config{
		Forest:       training.ForestConfig{Trees: 8, MaxDepth: 6, MinLeaf: 5, Seed: 42},
		TestFraction: 0.15,
		Seed:         42,
	}, testLogger())

	bundle, err := p.Run(context.Background(), rows)
	require.NoError(t, err)
	require.NotNil(t, bundle.Metrics)
	assert.Equal(t, "B", bundle.Revision)
	assert.Equal(t, 510, bundle.Metrics.TrainRows)
	assert.Equal(t, 90, bundle.Metrics.TestRows)
	// Labels carry Normal(0, 4) noise; a useful forest stays well under
	// the variance of the labels themselves.
	assert.Less(t, bundle.Metrics.TestMSE, 100.0)

	path := filepath.Join(t.TempDir(), "stress_model.json")
	require.NoError(t, oracle.Save(path, bundle))

	artifact, err := oracle.Open(path, rs.Revision)
	require.NoError(t, err)

	low, err := artifact.Oracle().Predict(model.FeatureVector{0, 10, 60, 9, 0})
	require.NoError(t, err)
	high, err := artifact.Oracle().Predict(model.FeatureVector{8, 30, 0, 3, 1})
	require.NoError(t, err)
	assert.Less(t, low, high)
}

func TestPipeline_RejectsBadTestFraction(t *testing.T) {
	p := training.NewPipeline(ruleset.RevisionB(), training.Config{
		Forest:       training.ForestConfig{Trees: 1, MaxDepth: 1, MinLeaf: 1},
		TestFraction: 1,
	}, testLogger())

	_, err := p.Run(context.Background(), training.NewSimulator(ruleset.RevisionB(), 1).Rows(10))
	assert.Error(t, err)
}
