package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OutboxRecord is one committed ledger record awaiting relay.
type OutboxRecord struct {
	ID         int64
	Kind       string
	Payload    json.RawMessage
	OccurredAt time.Time
}

// Source supplies committed records and acknowledges relayed ones.
type Source interface {
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, ids []int64) error
}

// QueueName is the durable queue ledger records are relayed to.
const QueueName = "ledger.events"

const relayBatch = 100

// Relay drains the outbox to RabbitMQ. Relay failures never affect
// ledger operations; unpublished records are retried on the next tick.
type Relay struct {
	source Source
	url    string
	logger *log.Logger
}

func NewRelay(source Source, url string, logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.Default()
	}
	return &Relay{
		source: source,
		url:    url,
		logger: logger,
	}
}

// Run polls the outbox every interval until ctx is cancelled.
func (r *Relay) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				r.logger.Printf("WARN: event relay: %v", err)
			}
		}
	}
}

// Drain publishes all currently unpublished records.
func (r *Relay) Drain(ctx context.Context) error {
	records, err := r.source.FetchUnpublished(ctx, relayBatch)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	conn, err := amqp.Dial(r.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so records survive broker restarts.
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return err
	}

	published := make([]int64, 0, len(records))
	for _, rec := range records {
		body, err := json.Marshal(struct {
			Kind       string          `json:"kind"`
			OccurredAt time.Time       `json:"occurred_at"`
			Payload    json.RawMessage `json:"payload"`
		}{rec.Kind, rec.OccurredAt, rec.Payload})
		if err != nil {
			return err
		}

		pub := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    rec.OccurredAt,
			Type:         rec.Kind,
			Body:         body,
		}
		if err := ch.PublishWithContext(ctx, "", QueueName, false, false, pub); err != nil {
			break
		}
		published = append(published, rec.ID)
	}
	return r.source.MarkPublished(ctx, published)
}
