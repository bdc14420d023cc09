package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-farmops/internal/advance"
	"go-farmops/internal/events"
	"go-farmops/internal/messaging/kafka/consumer"
	"go-farmops/internal/payroll"
	payrollerrors "go-farmops/internal/payroll/errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeAdvanceLookup struct {
	advance *advance.SalaryAdvance
	err     error
}

func (f *fakeAdvanceLookup) FindByIDAndFarm(ctx context.Context, farmID, id string) (*advance.SalaryAdvance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.advance, nil
}

type refreshCall struct {
	farmID     string
	employeeID string
	q          payroll.PeriodQuery
}

type fakeRefresher struct {
	calls []refreshCall
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) (payroll.SnapshotResponse, error) {
	f.calls = append(f.calls, refreshCall{farmID: farmID, employeeID: employeeID, q: q})
	return payroll.SnapshotResponse{}, f.err
}

func mustMessage(t *testing.T, topic string, v any) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return kafkago.Message{Topic: topic, Value: raw}
}

func TestAdvanceHandler_Handle(t *testing.T) {
	ctx := context.Background()
	farmID := uuid.New().String()
	employeeID := uuid.New()
	advanceID := uuid.New()

	decided := events.ApprovalDecidedEvent{
		EventType: events.EventTypeApprovalDecided,
		Kind:      "ADVANCE",
		EntityID:  advanceID.String(),
		FarmID:    farmID,
		ToStatus:  "APPROVED",
	}

	t.Run("approval decision refreshes advance period", func(t *testing.T) {
		lookup := &fakeAdvanceLookup{advance: &advance.SalaryAdvance{ID: advanceID, EmployeeID: employeeID, Month: 6, Year: 2025}}
		refresher := &fakeRefresher{}
		h := consumer.NewAdvanceHandler(lookup, refresher, zap.NewNop())

		err := h.Handle(ctx, mustMessage(t, events.ApprovalDecidedTopic, decided))

		require.NoError(t, err)
		require.Len(t, refresher.calls, 1)
		assert.Equal(t, farmID, refresher.calls[0].farmID)
		assert.Equal(t, employeeID.String(), refresher.calls[0].employeeID)
		assert.Equal(t, payroll.PeriodQuery{Month: 6, Year: 2025}, refresher.calls[0].q)
	})

	t.Run("advance requested uses event period", func(t *testing.T) {
		refresher := &fakeRefresher{}
		h := consumer.NewAdvanceHandler(&fakeAdvanceLookup{}, refresher, zap.NewNop())

		err := h.Handle(ctx, mustMessage(t, events.AdvanceRequestedTopic, events.AdvanceRequestedEvent{
			EventType:  events.EventTypeAdvanceRequested,
			AdvanceID:  advanceID.String(),
			FarmID:     farmID,
			EmployeeID: employeeID.String(),
			Month:      7,
			Year:       2025,
			Amount:     200_000,
		}))

		require.NoError(t, err)
		require.Len(t, refresher.calls, 1)
		assert.Equal(t, 7, refresher.calls[0].q.Month)
	})

	t.Run("other kinds are ignored", func(t *testing.T) {
		refresher := &fakeRefresher{}
		h := consumer.NewAdvanceHandler(&fakeAdvanceLookup{}, refresher, zap.NewNop())
		leave := decided
		leave.Kind = "LEAVE"

		err := h.Handle(ctx, mustMessage(t, events.ApprovalDecidedTopic, leave))

		assert.NoError(t, err)
		assert.Empty(t, refresher.calls)
	})

	t.Run("closed period is committed", func(t *testing.T) {
		lookup := &fakeAdvanceLookup{advance: &advance.SalaryAdvance{EmployeeID: employeeID, Month: 6, Year: 2025}}
		refresher := &fakeRefresher{err: payrollerrors.ErrPeriodClosed}
		h := consumer.NewAdvanceHandler(lookup, refresher, zap.NewNop())

		err := h.Handle(ctx, mustMessage(t, events.ApprovalDecidedTopic, decided))

		assert.NoError(t, err)
		assert.Len(t, refresher.calls, 1)
	})

	t.Run("missing advance is committed", func(t *testing.T) {
		refresher := &fakeRefresher{}
		h := consumer.NewAdvanceHandler(&fakeAdvanceLookup{err: gorm.ErrRecordNotFound}, refresher, zap.NewNop())

		err := h.Handle(ctx, mustMessage(t, events.ApprovalDecidedTopic, decided))

		assert.NoError(t, err)
		assert.Empty(t, refresher.calls)
	})

	t.Run("infrastructure failure is retried", func(t *testing.T) {
		lookup := &fakeAdvanceLookup{advance: &advance.SalaryAdvance{EmployeeID: employeeID, Month: 6, Year: 2025}}
		refresher := &fakeRefresher{err: errors.New("connection reset")}
		h := consumer.NewAdvanceHandler(lookup, refresher, zap.NewNop())

		err := h.Handle(ctx, mustMessage(t, events.ApprovalDecidedTopic, decided))

		assert.Error(t, err)
	})

	t.Run("malformed payload is dropped", func(t *testing.T) {
		h := consumer.NewAdvanceHandler(&fakeAdvanceLookup{}, &fakeRefresher{}, zap.NewNop())

		err := h.Handle(ctx, kafkago.Message{Topic: events.AdvanceRequestedTopic, Value: []byte("{")})

		assert.NoError(t, err)
	})
}

type fakeReader struct {
	messages  []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.messages) == 0 {
		f.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := f.messages[0]
	f.messages = f.messages[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func TestConsume_CommitsOnlyHandledMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		messages: []kafkago.Message{
			{Offset: 1, Value: []byte("ok")},
			{Offset: 2, Value: []byte("fail")},
			{Offset: 3, Value: []byte("ok")},
		},
	}
	handle := func(ctx context.Context, msg kafkago.Message) error {
		if string(msg.Value) == "fail" {
			return errors.New("boom")
		}
		return nil
	}

	consumer.Consume(ctx, reader, handle, zap.NewNop())

	require.Len(t, reader.committed, 2)
	assert.Equal(t, int64(1), reader.committed[0].Offset)
	assert.Equal(t, int64(3), reader.committed[1].Offset)
}
