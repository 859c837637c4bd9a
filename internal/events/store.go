package events

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists domain events in Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

func (s *PGStore) InsertDomainEvent(ctx context.Context, topic string, payload []byte) (DomainEvent, error) {
	const q = `
INSERT INTO domain_events (topic, payload)
VALUES ($1, $2)
RETURNING id, topic, payload, created_at`
	var ev DomainEvent
	err := s.Pool.QueryRow(ctx, q, topic, payload).Scan(&ev.ID, &ev.Topic, &ev.Payload, &ev.OccurredAt)
	if err != nil {
		return DomainEvent{}, err
	}
	return ev, nil
}
