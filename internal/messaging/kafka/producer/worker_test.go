package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-farmops/internal/messaging/kafka"
	"go-farmops/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	failTopic string
	written   []kafkago.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if m.Topic == w.failTopic {
			return errors.New("broker unavailable")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{
		{ID: "a", AggregateID: "emp-1", EventType: "period_closed", Topic: "ok", Payload: []byte("{}")},
		{ID: "b", AggregateID: "emp-2", EventType: "payroll_adjusted", Topic: "broken", Payload: []byte("{}")},
		{ID: "c", AggregateID: "emp-3", EventType: "period_reopened", Topic: "ok", Payload: []byte("{}")},
	}}
	writer := &fakeWriter{failTopic: "broken"}

	err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, repo.sent)
	assert.Contains(t, repo.failed, "b")
	assert.Len(t, writer.written, 2)
	assert.Equal(t, []byte("emp-1"), writer.written[0].Key)
	assert.Equal(t, "event_type", writer.written[0].Headers[0].Key)
}
