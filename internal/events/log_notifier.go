package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devaakutty/Shashi-backend/internal/db"
)

// LogNotifier writes one structured line per event.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, event db.DomainEvent) error {
	evt := n.Logger.Info()
	if event.Topic == TopicStockLow {
		evt = n.Logger.Warn()
	}
	evt.Str("topic", event.Topic).
		Str("event_id", event.ID.String()).
		Str("aggregate_id", event.AggregateID.String()).
		RawJSON("payload", event.Payload).
		Msg("domain_event")
	return nil
}
