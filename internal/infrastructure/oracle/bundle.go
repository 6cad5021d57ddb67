// Package oracle loads trained model artifacts and exposes them as port.Oracle.
package oracle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/Kiiichu/stress-estimator/internal/domain/model"
	"github.com/Kiiichu/stress-estimator/internal/domain/port"
	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
)

// BundleVersion is the artifact format version this package reads and writes.
const BundleVersion = 1

// Model kinds.
const (
	KindForest = "forest"
	KindLinear = "linear"
)

var (
	// ErrArtifactNotFound is returned when the artifact file does not exist.
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrFeatureMismatch is returned when the artifact's feature columns differ
	// from the feature vector layout.
	ErrFeatureMismatch = errors.New("model feature columns do not match")

	// ErrRevisionMismatch is returned when the artifact was trained for a
	// different rule set revision.
	ErrRevisionMismatch = errors.New("model rule set revision does not match")

	// ErrInvalidModel is returned for structurally broken model definitions.
	ErrInvalidModel = errors.New("invalid model definition")
)

// Bundle is the serialized form of a trained model.
type Bundle struct {
	Metrics        *TrainingMetrics `json:"metrics,omitempty"`
	Revision       string           `json:"revision"`
	FeatureColumns []string         `json:"feature_columns"`
	Model          ModelSpec        `json:"model"`
	Version        int              `json:"version"`
}

// ModelSpec holds one model definition. Only the fields of its Kind are set.
type ModelSpec struct {
	Kind         string    `json:"kind"`
	Trees        []Tree    `json:"trees,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
}

// TrainingMetrics records how the artifact was produced.
type TrainingMetrics struct {
	TestMSE   float64 `json:"test_mse"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
	Trees     int     `json:"trees,omitempty"`
	MaxDepth  int     `json:"max_depth,omitempty"`
	Seed      uint64  `json:"seed"`
}

// Artifact is a validated, ready-to-serve model.
type Artifact struct {
	oracle port.Oracle
	bundle *Bundle
}

// Oracle returns the regression function of the artifact.
func (a *Artifact) Oracle() port.Oracle { return a.oracle }

// Kind returns the model kind.
func (a *Artifact) Kind() string { return a.bundle.Model.Kind }

// Revision returns the rule set revision the model was trained for.
func (a *Artifact) Revision() string { return a.bundle.Revision }

// FeatureColumns returns a copy of the declared feature columns.
func (a *Artifact) FeatureColumns() []string { return slices.Clone(a.bundle.FeatureColumns) }

// Metrics returns the training metrics, if recorded.
func (a *Artifact) Metrics() *TrainingMetrics { return a.bundle.Metrics }

// Open loads the artifact at path and checks that it matches the feature
// layout and the given rule set revision.
func Open(path string, rev ruleset.Revision) (*Artifact, error) {
	bundle, err := Load(path)
	if err != nil {
		return nil, err
	}
	if bundle.Revision != string(rev) {
		return nil, fmt.Errorf("%w: artifact %q, configured %q", ErrRevisionMismatch, bundle.Revision, rev)
	}

	o, err := bundle.Build()
	if err != nil {
		return nil, err
	}

	return &Artifact{oracle: o, bundle: bundle}, nil
}

// Load reads and decodes the artifact at path.
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()

	bundle, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bundle, nil
}

// Decode parses a bundle and checks its format version and feature columns.
func Decode(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}

	if b.Version != BundleVersion {
		return nil, fmt.Errorf("unsupported model artifact version %d", b.Version)
	}
	if err := CheckFeatureColumns(b.FeatureColumns); err != nil {
		return nil, err
	}

	return &b, nil
}

// CheckFeatureColumns fails unless columns equal model.FeatureColumns in
// length and order.
func CheckFeatureColumns(columns []string) error {
	if !slices.Equal(columns, model.FeatureColumns[:]) {
		return fmt.Errorf("%w: got %v, want %v", ErrFeatureMismatch, columns, model.FeatureColumns)
	}
	return nil
}

// Build turns the model definition into an oracle.
func (b *Bundle) Build() (port.Oracle, error) {
	switch b.Model.Kind {
	case KindForest:
		return NewForest(b.Model.Trees)
	case KindLinear:
		return NewLinear(b.Model.Intercept, b.Model.Coefficients)
	default:
		return nil, fmt.Errorf("%w: unknown model kind %q", ErrInvalidModel, b.Model.Kind)
	}
}

// Save writes the bundle to path, replacing any existing file atomically.
func Save(path string, b *Bundle) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".stress-model-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// Encode writes the bundle as JSON.
func Encode(w io.Writer, b *Bundle) error {
	if err := json.NewEncoder(w).Encode(b); err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}
	return nil
}
