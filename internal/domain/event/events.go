package event

import (
	"github.com/google/uuid"

	"github.com/Kiiichu/stress-estimator/pkg/events"
)

const (
	// EventTypePredictionCompleted is emitted for every served prediction.
	EventTypePredictionCompleted = "stress.prediction.completed"

	// EventTypeHighStressDetected is emitted when a prediction lands in the High category.
	EventTypeHighStressDetected = "stress.high.detected"

	aggregateType = "Prediction"
)

// PredictionCompleted is published once a stress prediction has been returned.
type PredictionCompleted struct {
	events.BaseEvent
	RuleSet     string  `json:"rule_set"`
	Category    string  `json:"category"`
	TopFactor   string  `json:"top_factor"`
	StressScore float64 `json:"stress_score"`
	AdviceCount int     `json:"advice_count"`
}

// NewPredictionCompleted creates a PredictionCompleted event for a prediction.
func NewPredictionCompleted(predictionID uuid.UUID, ruleSet, category, topFactor string, score float64, adviceCount int) PredictionCompleted {
	return PredictionCompleted{
		BaseEvent:   events.NewBaseEvent(EventTypePredictionCompleted, predictionID, aggregateType),
		RuleSet:     ruleSet,
		Category:    category,
		TopFactor:   topFactor,
		StressScore: score,
		AdviceCount: adviceCount,
	}
}

// HighStressDetected is published alongside PredictionCompleted when the
// category is High.
type HighStressDetected struct {
	events.BaseEvent
	RuleSet     string  `json:"rule_set"`
	TopFactor   string  `json:"top_factor"`
	StressScore float64 `json:"stress_score"`
}

// NewHighStressDetected creates a HighStressDetected event for a prediction.
func NewHighStressDetected(predictionID uuid.UUID, ruleSet, topFactor string, score float64) HighStressDetected {
	return HighStressDetected{
		BaseEvent:   events.NewBaseEvent(EventTypeHighStressDetected, predictionID, aggregateType),
		RuleSet:     ruleSet,
		TopFactor:   topFactor,
		StressScore: score,
	}
}
