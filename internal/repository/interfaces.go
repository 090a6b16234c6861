package repository

import (
	"context"
	"time"

	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
)

// UsageStats represents session/message counts for one window
type UsageStats struct {
	Sessions uint64
	Messages uint64
}

// QuestionCount represents one aggregated visitor question
type QuestionCount struct {
	Text      string
	Count     uint64
	FirstSeen time.Time
}

// EventRepository defines the interface for event storage operations
type EventRepository interface {
	// InsertBatch appends a batch of events into storage
	InsertBatch(ctx context.Context, events []*domain.Event) (int, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error

	// UsageStats returns session/message counts for the window
	UsageStats(ctx context.Context, from, to time.Time) (*UsageStats, error)

	// QuestionCounts returns visitor questions grouped by text with their
	// occurrence count and first-seen time, ordered by first-seen ascending
	QuestionCounts(ctx context.Context, from, to time.Time) ([]QuestionCount, error)

	// ConversationIDs returns the distinct conversation ids seen in the window
	ConversationIDs(ctx context.Context, from, to time.Time) ([]string, error)
}
