package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/gencart/internal/config"
	"github.com/polkiloo/gencart/internal/domain/model"
)

type writerStub struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *writerStub) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *writerStub) Close() error {
	w.closed = true
	return nil
}

func testEvent() model.Event {
	return model.Event{
		ID:          1,
		EventID:     uuid.MustParse("7f9c24e8-3b12-4fef-91e0-e5a3f2a1b001"),
		Type:        model.EventOrderCreated,
		AggregateID: "order-7",
		Payload:     json.RawMessage(`{"order_id":7}`),
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisherBuildsMessage(t *testing.T) {
	w := &writerStub{}
	pub := &KafkaPublisher{writer: w}

	require.NoError(t, pub.Publish(context.Background(), testEvent()))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "order-7", string(msg.Key))
	assert.JSONEq(t, `{"order_id":7}`, string(msg.Value))
	assert.Equal(t, testEvent().CreatedAt, msg.Time)
	assert.Equal(t, []kafka.Header{
		{Key: HeaderEventType, Value: []byte(model.EventOrderCreated)},
		{Key: HeaderEventID, Value: []byte("7f9c24e8-3b12-4fef-91e0-e5a3f2a1b001")},
	}, msg.Headers)

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	pub := &KafkaPublisher{writer: &writerStub{err: boom}}

	err := pub.Publish(context.Background(), testEvent())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), model.EventOrderCreated)
}

func TestNewKafkaPublisherConfiguresWriter(t *testing.T) {
	pub := NewKafkaPublisher([]string{"localhost:9092"}, "gencart.events")
	w, ok := pub.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "gencart.events", w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, pub.Publish(context.Background(), testEvent()))
	assert.Contains(t, buf.String(), `"event_type":"order.created"`)
	assert.Contains(t, buf.String(), `"aggregate_id":"order-7"`)
	assert.NoError(t, pub.Close())
}

func TestNewPublisherSelectsImplementation(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	lc := fxtest.NewLifecycle(t)
	pub := newPublisher(publisherParams{Lifecycle: lc, Config: &config.Config{}, Logger: logger})
	assert.IsType(t, &LogPublisher{}, pub)

	pub = newPublisher(publisherParams{Lifecycle: lc, Config: &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "t"}, Logger: logger})
	assert.IsType(t, &KafkaPublisher{}, pub)

	lc.RequireStart().RequireStop()
}
