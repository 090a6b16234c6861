package service

import (
	"context"

	"github.com/demirdoven/fluxa-analytics-service/internal/dto"
	"github.com/demirdoven/fluxa-analytics-service/internal/identity"
)

// RequestContext carries the server-trusted request state the ingestion path
// enriches events with.
type RequestContext struct {
	UserID      string // authenticated account id forwarded by the storefront, "" for guests
	SessionID   string
	CookieValue string
	RemoteAddr  string
	UserAgent   string
	RequestURL  string
	Referrer    string
	Secure      bool
}

// IngestResult is the outcome of one ingestion attempt. Skipped means the
// tracking policy gated the event off: a success no-op, not an error.
type IngestResult struct {
	EventID string
	Skipped bool
}

// IngestServicer defines the interface for event ingestion operations
type IngestServicer interface {
	Ingest(ctx context.Context, req *dto.TrackEventRequest, rc RequestContext) (*IngestResult, error)
	IngestBulk(ctx context.Context, reqs []dto.TrackEventRequest, rc RequestContext) ([]string, int, []string)
}

// AnalyticsServicer defines the interface for analytics read operations
type AnalyticsServicer interface {
	Stats(ctx context.Context, req *dto.StatsRequest) (*dto.StatsResponse, error)
	TopQuestions(ctx context.Context, req *dto.TopQuestionsRequest) (*dto.TopQuestionsResponse, error)
	UnansweredQuestions(ctx context.Context, req *dto.UnansweredQuestionsRequest) (*dto.UnansweredQuestionsResponse, error)
}

// IdentityLookup resolves the already-established identity for a request
// without creating one. Implemented by the identity resolver.
type IdentityLookup interface {
	Lookup(ctx context.Context, state identity.RequestState) (string, bool)
}
