package training

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/service"
)

// TargetColumn is the CSV header of the stress label.
const TargetColumn = "stress_score"

// csvHeader lists the raw, uncapped inputs followed by the target.
var csvHeader = []string{"assignments", "class_hours", "days_to_exam", "sleep_hours", TargetColumn}

// Dataset is a feature matrix with its targets.
type Dataset struct {
	X []model.FeatureVector
	Y []float64
}

// Len returns the number of samples.
func (d Dataset) Len() int { return len(d.Y) }

// FromRows normalizes rows the same way the serving path does.
func FromRows(rows []Row) Dataset {
	d := Dataset{
		X: make([]model.FeatureVector, len(rows)),
		Y: make([]float64, len(rows)),
	}
	for i, r := range rows {
		d.X[i] = service.Normalize(r.Inputs)
		d.Y[i] = r.Stress
	}
	return d
}

// Split shuffles the samples and holds out testFraction of them.
func (d Dataset) Split(testFraction float64, seed uint64) (train, test Dataset) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	perm := rng.Perm(d.Len())

	nTest := int(float64(d.Len()) * testFraction)
	pick := func(idx []int) Dataset {
		out := Dataset{X: make([]model.FeatureVector, len(idx)), Y: make([]float64, len(idx))}
		for i, j := range idx {
			out.X[i] = d.X[j]
			out.Y[i] = d.Y[j]
		}
		return out
	}

	return pick(perm[nTest:]), pick(perm[:nTest])
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Inputs.Assignments),
			strconv.FormatFloat(r.Inputs.ClassHours, 'f', -1, 64),
			strconv.Itoa(r.Inputs.DaysToExam),
			strconv.FormatFloat(r.Inputs.SleepHours, 'f', -1, 64),
			strconv.FormatFloat(r.Stress, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads rows written by WriteCSV.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, col := range csvHeader {
		if header[i] != col {
			return nil, fmt.Errorf("csv column %d is %q, want %q", i, header[i], col)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRecord(rec []string) (Row, error) {
	assignments, err := strconv.Atoi(rec[0])
	if err != nil {
		return Row{}, fmt.Errorf("assignments: %w", err)
	}
	classHours, err := strconv.ParseFloat(rec[1], 64)
	if err != nil {
		return Row{}, fmt.Errorf("class_hours: %w", err)
	}
	days, err := strconv.Atoi(rec[2])
	if err != nil {
		return Row{}, fmt.Errorf("days_to_exam: %w", err)
	}
	sleep, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return Row{}, fmt.Errorf("sleep_hours: %w", err)
	}
	stress, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return Row{}, fmt.Errorf("%s: %w", TargetColumn, err)
	}

	return Row{
		Inputs: model.StressInputs{
			Assignments: assignments,
			ClassHours:  classHours,
			DaysToExam:  days,
			SleepHours:  sleep,
		},
		Stress: stress,
	}, nil
}
