package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/events"
)

func TestInvalidatorDropsAffectedKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewJSON(client, time.Minute)
	products := NewJSON(client, 5*time.Minute)
	ctx := context.Background()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	inv := Invalidator{Products: products, Reports: c, Location: loc}

	// 20:00 UTC on the 4th is already the 5th in Kolkata.
	created := time.Date(2025, 3, 4, 20, 0, 0, 0, time.UTC)
	reportKey := "report:daily:2025-03-05"
	seed := func() {
		require.NoError(t, c.Set(ctx, reportKey, []string{}))
		require.NoError(t, products.Set(ctx, KeyActiveProducts, []string{}))
	}

	seed()
	require.NoError(t, inv.Notify(ctx, db.DomainEvent{
		ID:          uuid.New(),
		Topic:       events.TopicPaymentRecorded,
		AggregateID: uuid.New(),
		Payload:     []byte(`{"invoiceDate":"` + created.Format(time.RFC3339) + `"}`),
		OccurredAt:  created.Add(48 * time.Hour),
	}))
	require.False(t, mr.Exists(reportKey))
	require.True(t, mr.Exists(KeyActiveProducts))

	seed()
	require.NoError(t, inv.Notify(ctx, db.DomainEvent{Topic: events.TopicInvoiceCreated, Payload: []byte(`{}`), OccurredAt: created}))
	require.False(t, mr.Exists(reportKey))
	require.False(t, mr.Exists(KeyActiveProducts))

	seed()
	require.NoError(t, inv.Notify(ctx, db.DomainEvent{Topic: events.TopicStockLow, Payload: []byte(`{}`)}))
	require.True(t, mr.Exists(reportKey))
	require.False(t, mr.Exists(KeyActiveProducts))

	require.NoError(t, inv.Notify(ctx, db.DomainEvent{Topic: "unrelated"}))
	require.True(t, mr.Exists(reportKey))
}
