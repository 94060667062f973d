package events_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/db/dbtest"
	"github.com/devaakutty/Shashi-backend/internal/events"
)

type captureNotifier struct {
	events []db.DomainEvent
	err    error
}

func (c *captureNotifier) Notify(_ context.Context, event db.DomainEvent) error {
	c.events = append(c.events, event)
	return c.err
}

func TestEmitPersistsEvent(t *testing.T) {
	store := dbtest.New()
	notifier := &captureNotifier{}
	bus := events.Bus{Store: store, Notifiers: []events.Notifier{notifier}}

	aggregate := uuid.New()
	event, err := bus.Emit(context.Background(), events.TopicPaymentRecorded, aggregate, map[string]any{"amount": "100.00"})
	require.NoError(t, err)

	persisted := store.Events()
	require.Len(t, persisted, 1)
	require.Equal(t, events.TopicPaymentRecorded, persisted[0].Topic)
	require.Equal(t, aggregate, persisted[0].AggregateID)
	require.JSONEq(t, `{"amount":"100.00"}`, string(persisted[0].Payload))
	require.Len(t, notifier.events, 1)
	require.Equal(t, event.ID, notifier.events[0].ID)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	require.Equal(t, "100.00", decoded["amount"])
}

func TestEmitValidatesInput(t *testing.T) {
	bus := events.Bus{Store: dbtest.New()}
	_, err := bus.Emit(context.Background(), " ", uuid.New(), nil)
	require.Error(t, err)
	_, err = bus.Emit(context.Background(), events.TopicInvoiceCreated, uuid.Nil, nil)
	require.Error(t, err)
	_, err = bus.Emit(context.Background(), events.TopicInvoiceCreated, uuid.New(), []byte("{not json"))
	require.Error(t, err)
}

func TestEmitJoinsNotifierErrors(t *testing.T) {
	store := dbtest.New()
	failing := &captureNotifier{err: errors.New("redis down")}
	healthy := &captureNotifier{}
	bus := events.Bus{Store: store, Notifiers: []events.Notifier{failing, healthy}}

	_, err := bus.Emit(context.Background(), events.TopicInvoicePaid, uuid.New(), nil)
	require.ErrorContains(t, err, "redis down")
	require.Len(t, healthy.events, 1)
	require.Len(t, store.Events(), 1)
}

func TestPublishSwallowsErrors(t *testing.T) {
	store := dbtest.New()
	store.FailOn = map[string]error{"InsertDomainEvent": errors.New("disk full")}
	bus := &events.Bus{Store: store}

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), events.TopicInvoiceCreated, uuid.New(), nil)
	})
	require.Empty(t, store.Events())

	var nilBus *events.Bus
	nilBus.Publish(context.Background(), events.TopicInvoiceCreated, uuid.New(), nil)
}

func TestLogNotifierWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	notifier := events.LogNotifier{Logger: zerolog.New(&buf)}
	err := notifier.Notify(context.Background(), db.DomainEvent{
		ID:          uuid.New(),
		Topic:       events.TopicStockLow,
		AggregateID: uuid.New(),
		Payload:     []byte(`{"remaining":2}`),
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, events.TopicStockLow, line["topic"])
}
