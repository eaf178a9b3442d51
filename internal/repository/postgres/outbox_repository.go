package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/melodix/billing/internal/domain/outbox"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *OutboxRepository) Append(ctx context.Context, msg *outbox.Message) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO outbox_messages (id, kind, type, content, occurred_at, attempt_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, string(msg.Kind), msg.Type, []byte(msg.Content), msg.OccurredAt, msg.AttemptCount,
	)
	if err != nil {
		return fmt.Errorf("append outbox message: %w", err)
	}
	return nil
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, kind, type, content, occurred_at, processed_at, attempt_count, last_error
		 FROM outbox_messages WHERE processed_at IS NULL
		 ORDER BY occurred_at ASC
		 LIMIT $1
		 FOR UPDATE SKIP LOCKED`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch pending outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []*outbox.Message
	for rows.Next() {
		m := &outbox.Message{}
		var kind string
		var content []byte
		if err := rows.Scan(&m.ID, &kind, &m.Type, &content, &m.OccurredAt, &m.ProcessedAt, &m.AttemptCount, &m.LastError); err != nil {
			return nil, fmt.Errorf("scan outbox message: %w", err)
		}
		m.Kind = outbox.Kind(kind)
		m.Content = content
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE outbox_messages SET processed_at = $1 WHERE id = $2 AND processed_at IS NULL`, now, id,
	)
	if err != nil {
		return fmt.Errorf("mark outbox message processed: %w", err)
	}
	return nil
}

func (r *OutboxRepository) RecordFailure(ctx context.Context, id uuid.UUID, dispatchErr string) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE outbox_messages SET attempt_count = attempt_count + 1, last_error = $1
		 WHERE id = $2 AND processed_at IS NULL`, dispatchErr, id,
	)
	if err != nil {
		return fmt.Errorf("record outbox dispatch failure: %w", err)
	}
	return nil
}
