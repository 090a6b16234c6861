package clickhouse

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
	"github.com/demirdoven/fluxa-analytics-service/internal/repository"
)

// Repository implements EventRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// The table is keyed on event_id so that queue redeliveries of the same
// message collapse into a single row. Each accepted request is assigned a
// fresh event_id, so identical POSTed bodies still land as distinct rows;
// only the at-least-once delivery duplicates are replaced. ingested_at is
// the version column: the latest delivery wins.
const createTrackedEventsTable = `
	CREATE TABLE IF NOT EXISTS tracked_events (
		event_id String,
		event_type LowCardinality(String),
		identity_id String,
		conversation_id String,
		page_url String,
		page_referrer String,
		user_agent String,
		ip Nullable(IPv6),
		product_id Int64,
		variation_id Int64,
		qty Int32,
		price Float64,
		currency LowCardinality(String),
		order_id Int64,
		order_status LowCardinality(String),
		cart_total Float64,
		shipping_total Float64,
		discount_total Float64,
		tax_total Float64,
		payload String,
		occurred_at DateTime64(3),
		ingested_at DateTime64(3) DEFAULT now64(3)
	) ENGINE = ReplacingMergeTree(ingested_at)
	PRIMARY KEY (event_id)
	ORDER BY (event_id)
	PARTITION BY toYYYYMM(occurred_at)
	SETTINGS index_granularity = 8192
	`

// InitSchema initializes the ClickHouse schema
func (r *Repository) InitSchema(ctx context.Context) error {
	if err := r.client.Conn().Exec(ctx, createTrackedEventsTable); err != nil {
		return fmt.Errorf("failed to create tracked_events table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertBatch appends a batch of events into ClickHouse
func (r *Repository) InsertBatch(ctx context.Context, events []*domain.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO tracked_events")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	insertedCount := 0
	for _, event := range events {
		payloadJSON := event.Payload
		if payloadJSON == "" {
			payloadJSON = "{}"
		}

		// nil keeps the column NULL when the address was unparseable
		var ip *net.IP
		if len(event.IP) > 0 {
			ip = &event.IP
		}

		ingestedAt := event.IngestedAt
		if ingestedAt.IsZero() {
			ingestedAt = time.Now().UTC()
		}

		err := batch.Append(
			event.EventID,
			event.EventType,
			event.IdentityID,
			event.ConversationID,
			event.PageURL,
			event.PageReferrer,
			event.UserAgent,
			ip,
			event.ProductID,
			event.VariationID,
			event.Qty,
			event.Price,
			event.Currency,
			event.OrderID,
			event.OrderStatus,
			event.CartTotal,
			event.ShippingTotal,
			event.DiscountTotal,
			event.TaxTotal,
			payloadJSON,
			event.OccurredAt,
			ingestedAt,
		)

		if err != nil {
			return 0, fmt.Errorf("failed to append event to batch: %w", err)
		}
		insertedCount++
	}

	if insertedCount == 0 {
		return 0, fmt.Errorf("no events could be appended to batch")
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// UsageStats returns session and message counts for one window. Sessions are
// distinct conversations; messages are visitor/assistant turns.
func (r *Repository) UsageStats(ctx context.Context, from, to time.Time) (*repository.UsageStats, error) {
	query := `
		SELECT
			uniqExactIf(conversation_id, conversation_id != '') AS sessions,
			countIf(event_type = ?) AS messages
		FROM tracked_events FINAL
		WHERE occurred_at >= ? AND occurred_at < ?
	`

	stats := &repository.UsageStats{}
	row := r.client.Conn().QueryRow(ctx, query, domain.EventChatMessage, from, to)
	if err := row.Scan(&stats.Sessions, &stats.Messages); err != nil {
		return nil, fmt.Errorf("failed to query usage stats: %w", err)
	}

	return stats, nil
}

// QuestionCounts returns visitor questions grouped by text. Rows come back
// ordered by first-seen ascending; the service layer applies the stable
// count-descending ranking on top.
func (r *Repository) QuestionCounts(ctx context.Context, from, to time.Time) ([]repository.QuestionCount, error) {
	query := `
		SELECT
			JSONExtractString(payload, 'text') AS question,
			count() AS total,
			min(occurred_at) AS first_seen
		FROM tracked_events FINAL
		WHERE event_type = ?
			AND JSONExtractString(payload, 'role') = 'user'
			AND occurred_at >= ? AND occurred_at < ?
			AND question != ''
		GROUP BY question
		ORDER BY first_seen ASC
	`

	rows, err := r.client.Conn().Query(ctx, query, domain.EventChatMessage, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query question counts: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close question counts rows", zap.Error(err))
		}
	}(rows)

	var counts []repository.QuestionCount
	for rows.Next() {
		var qc repository.QuestionCount
		if err := rows.Scan(&qc.Text, &qc.Count, &qc.FirstSeen); err != nil {
			return nil, fmt.Errorf("failed to scan question counts row: %w", err)
		}
		counts = append(counts, qc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question counts rows: %w", err)
	}

	return counts, nil
}

// ConversationIDs returns the distinct conversation ids seen in the window.
func (r *Repository) ConversationIDs(ctx context.Context, from, to time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT conversation_id
		FROM tracked_events FINAL
		WHERE conversation_id != ''
			AND occurred_at >= ? AND occurred_at < ?
		ORDER BY conversation_id ASC
	`

	rows, err := r.client.Conn().Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation ids: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close conversation id rows", zap.Error(err))
		}
	}(rows)

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan conversation id row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation id rows: %w", err)
	}

	return ids, nil
}
