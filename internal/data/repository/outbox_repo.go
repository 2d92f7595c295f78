package repository

import (
	"context"
	"fmt"

	"barbershop-booking/internal/data/entity"
	"barbershop-booking/pkg/database"

	"go.uber.org/zap"
)

type OutboxRepository interface {
	// PublishPending locks up to limit unpublished events, hands them to publish and
	// marks them published when publish succeeds. It returns how many were published.
	PublishPending(ctx context.Context, limit int, publish func(ctx context.Context, events []*entity.OutboxEvent) error) (int, error)
}

type outboxRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOutboxRepository(db database.PgxIface, log *zap.Logger) OutboxRepository {
	return &outboxRepository{
		db:  db,
		log: log.With(zap.String("repository", "outbox")),
	}
}

func (r *outboxRepository) PublishPending(ctx context.Context, limit int, publish func(ctx context.Context, events []*entity.OutboxEvent) error) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin outbox tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT id, event_id, aggregate_id, event_type, payload, created_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		r.log.Error("Failed to fetch unpublished events", zap.Error(err))
		return 0, fmt.Errorf("fetch unpublished events: %w", err)
	}

	var events []*entity.OutboxEvent
	for rows.Next() {
		var evt entity.OutboxEvent
		if err := rows.Scan(&evt.ID, &evt.EventID, &evt.AggregateID, &evt.EventType, &evt.Payload, &evt.CreatedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		events = append(events, &evt)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}

	if len(events) == 0 {
		return 0, tx.Commit(ctx)
	}

	if err := publish(ctx, events); err != nil {
		return 0, err
	}

	ids := make([]int64, len(events))
	for i, evt := range events {
		ids[i] = evt.ID
	}
	if _, err := tx.Exec(ctx, `UPDATE outbox_events SET published_at = NOW() WHERE id = ANY($1)`, ids); err != nil {
		r.log.Error("Failed to mark events published", zap.Error(err), zap.Int("count", len(ids)))
		return 0, fmt.Errorf("mark events published: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit outbox tx: %w", err)
	}

	return len(events), nil
}
