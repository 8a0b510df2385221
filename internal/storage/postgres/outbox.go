package postgres

import (
	"context"
	"fmt"

	"github.com/grossitech/FlyChain/internal/events"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Outbox reads committed ledger records for the broker relay.
type Outbox struct {
	pool *pgxpool.Pool
}

func NewOutbox(pool *pgxpool.Pool) *Outbox {
	return &Outbox{pool: pool}
}

// FetchUnpublished returns up to limit records not yet relayed, oldest
// first.
func (o *Outbox) FetchUnpublished(ctx context.Context, limit int) ([]events.OutboxRecord, error) {
	const query = `
SELECT id, kind, payload, occurred_at
FROM ledger_events
WHERE published_at IS NULL
ORDER BY id
LIMIT $1`

	rows, err := o.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished: %w", err)
	}
	defer rows.Close()

	var out []events.OutboxRecord
	for rows.Next() {
		var rec events.OutboxRecord
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Payload, &rec.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan outbox record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch unpublished: %w", err)
	}
	return out, nil
}

// MarkPublished stamps relayed records so they are not sent twice.
func (o *Outbox) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const stmt = `UPDATE ledger_events SET published_at = NOW() WHERE id = ANY($1)`
	if _, err := o.pool.Exec(ctx, stmt, ids); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}
