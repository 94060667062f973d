package db

import (
	"context"

	"github.com/google/uuid"
)

const insertDomainEvent = `-- name: InsertDomainEvent :one
INSERT INTO domain_events (id, topic, aggregate_id, payload)
VALUES ($1, $2, $3, $4)
RETURNING id, topic, aggregate_id, payload, occurred_at`

type InsertDomainEventParams struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
}

func (q *Queries) InsertDomainEvent(ctx context.Context, arg InsertDomainEventParams) (DomainEvent, error) {
	row := q.db.QueryRow(ctx, insertDomainEvent, arg.ID, arg.Topic, arg.AggregateID, arg.Payload)
	var i DomainEvent
	err := row.Scan(&i.ID, &i.Topic, &i.AggregateID, &i.Payload, &i.OccurredAt)
	return i, err
}
