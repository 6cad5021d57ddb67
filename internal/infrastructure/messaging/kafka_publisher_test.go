package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiiichu/stress-estimator/internal/domain/event"
	"github.com/Kiiichu/stress-estimator/internal/infrastructure/messaging"
	"github.com/Kiiichu/stress-estimator/pkg/kafka"
)

type fakeProducer struct {
	err      error
	topic    string
	messages []kafka.Message
	calls    int
}

func (f *fakeProducer) Publish(_ context.Context, topic string, messages ...kafka.Message) error {
	f.calls++
	f.topic = topic
	f.messages = append(f.messages, messages...)
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &fakeProducer{}
	pub := messaging.NewKafkaPublisher(producer, "stress.predictions", testLogger())

	id := uuid.New()
	completed := event.NewPredictionCompleted(id, "B", "High", "exam_proximity", 88.1, 4)
	high := event.NewHighStressDetected(id, "B", "exam_proximity", 88.1)

	require.NoError(t, pub.Publish(context.Background(), completed, high))

	assert.Equal(t, 1, producer.calls)
	assert.Equal(t, "stress.predictions", producer.topic)
	require.Len(t, producer.messages, 2)

	first := producer.messages[0]
	assert.Equal(t, id.String(), string(first.Key))
	assert.Equal(t, event.EventTypePredictionCompleted, first.Headers["event_type"])
	assert.Equal(t, completed.EventID().String(), first.Headers["event_id"])
	assert.Equal(t, "application/json", first.Headers["content-type"])

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(first.Value, &payload))
	assert.Equal(t, "High", payload["category"])
	assert.Equal(t, 88.1, payload["stress_score"])

	assert.Equal(t, event.EventTypeHighStressDetected, producer.messages[1].Headers["event_type"])
}

func TestKafkaPublisher_NoEvents(t *testing.T) {
	producer := &fakeProducer{}
	pub := messaging.NewKafkaPublisher(producer, "stress.predictions", testLogger())

	require.NoError(t, pub.Publish(context.Background()))
	assert.Zero(t, producer.calls)
}

func TestKafkaPublisher_ProducerError(t *testing.T) {
	cause := errors.New("leader not available")
	pub := messaging.NewKafkaPublisher(&fakeProducer{err: cause}, "stress.predictions", testLogger())

	err := pub.Publish(context.Background(), event.NewPredictionCompleted(uuid.New(), "A", "Low", "sleep", 12, 1))
	assert.ErrorIs(t, err, cause)
}

func TestLogPublisher_NeverFails(t *testing.T) {
	pub := messaging.NewLogPublisher(testLogger())

	err := pub.Publish(context.Background(),
		event.NewPredictionCompleted(uuid.New(), "B", "Medium", "sleep", 60, 2),
	)
	assert.NoError(t, err)
}
