package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/devaakutty/Shashi-backend/internal/db"
	"github.com/devaakutty/Shashi-backend/internal/events"
)

// Invalidator drops cached read models affected by domain events.
type Invalidator struct {
	Products *JSON
	Reports  *JSON
	Location *time.Location
}

// Notify implements events.Notifier.
func (i Invalidator) Notify(ctx context.Context, event db.DomainEvent) error {
	switch event.Topic {
	case events.TopicInvoiceCreated:
		if err := i.Products.Delete(ctx, KeyActiveProducts); err != nil {
			return err
		}
		return i.Reports.Delete(ctx, KeyDailyReport(i.invoiceDay(event)))
	case events.TopicInvoicePaid, events.TopicPaymentRecorded:
		return i.Reports.Delete(ctx, KeyDailyReport(i.invoiceDay(event)))
	case events.TopicStockLow:
		return i.Products.Delete(ctx, KeyActiveProducts)
	}
	return nil
}

// invoiceDay is the local creation day of the invoice the event concerns.
// Events without an invoiceDate fall back to when they occurred.
func (i Invalidator) invoiceDay(event db.DomainEvent) time.Time {
	loc := i.Location
	if loc == nil {
		loc = time.UTC
	}
	var payload struct {
		InvoiceDate time.Time `json:"invoiceDate"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err == nil && !payload.InvoiceDate.IsZero() {
		return payload.InvoiceDate.In(loc)
	}
	if event.OccurredAt.IsZero() {
		return time.Now().In(loc)
	}
	return event.OccurredAt.In(loc)
}
