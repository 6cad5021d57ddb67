package event_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiiichu/stress-estimator/internal/domain/event"
)

func TestPredictionCompleted_Payload(t *testing.T) {
	id := uuid.New()
	evt := event.NewPredictionCompleted(id, "B", "High", "exam_proximity", 83.4, 3)

	assert.Equal(t, event.EventTypePredictionCompleted, evt.EventType())
	assert.Equal(t, id, evt.AggregateID())
	assert.Equal(t, "Prediction", evt.AggregateType())

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "stress.prediction.completed", parsed["event_type"])
	assert.Equal(t, id.String(), parsed["aggregate_id"])
	assert.Equal(t, "B", parsed["rule_set"])
	assert.Equal(t, "High", parsed["category"])
	assert.Equal(t, "exam_proximity", parsed["top_factor"])
	assert.Equal(t, 83.4, parsed["stress_score"])
	assert.Equal(t, 3.0, parsed["advice_count"])
}

func TestHighStressDetected_Type(t *testing.T) {
	evt := event.NewHighStressDetected(uuid.New(), "A", "sleep", 91)

	assert.Equal(t, event.EventTypeHighStressDetected, evt.EventType())
	assert.NotEqual(t, uuid.Nil, evt.EventID())
	assert.False(t, evt.OccurredAt().IsZero())
}
