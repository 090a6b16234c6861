// Package transport delivers captured event intents to the ingestion
// endpoint. Delivery is fire-and-forget: one request, no retry, no queue. A
// dropped request is a dropped event, which is the accepted loss model for
// analytics data.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
)

// Intent is the in-memory representation of a captured interaction before
// transport.
type Intent struct {
	EventType      string
	IdentityID     string
	ConversationID string
	PageURL        string
	PageReferrer   string
	Attributes     map[string]interface{}
}

// Credentials carry the endpoint and the per-page nonce/token pair. Without
// them the client refuses to send at all.
type Credentials struct {
	Endpoint string
	Nonce    string
	Token    string
}

// Client posts event intents to the ingestion endpoint.
type Client struct {
	hc    *http.Client
	creds Credentials
	log   *zap.Logger
}

// NewClient creates a new transport client
func NewClient(creds Credentials, log *zap.Logger) *Client {
	return &Client{
		hc:    &http.Client{Timeout: 5 * time.Second},
		creds: creds,
		log:   log,
	}
}

// Configured reports whether the client has an endpoint and credentials.
func (c *Client) Configured() bool {
	return c.creds.Endpoint != "" && c.creds.Nonce != "" && c.creds.Token != ""
}

// Dispatch delivers an intent without blocking the caller. In-flight sends
// abandoned at shutdown are acceptable loss.
func (c *Client) Dispatch(intent Intent) {
	go c.Deliver(context.Background(), intent)
}

// Deliver sends one intent. On failure it self-reports exactly one
// transport-failure event, except when the failing intent was itself a
// transport-failure report: that would amplify into an infinite chain.
func (c *Client) Deliver(ctx context.Context, intent Intent) {
	if !c.Configured() {
		return
	}

	err := c.Send(ctx, intent)
	if err == nil {
		return
	}

	c.log.Debug("Event delivery failed",
		zap.String("event_type", intent.EventType),
		zap.Error(err))

	if intent.EventType == domain.EventTransportFailure {
		return
	}

	report := Intent{
		EventType:    domain.EventTransportFailure,
		IdentityID:   intent.IdentityID,
		PageURL:      intent.PageURL,
		PageReferrer: intent.PageReferrer,
		Attributes: map[string]interface{}{
			"failed_event_type": intent.EventType,
			"error":             err.Error(),
		},
	}
	if err := c.Send(ctx, report); err != nil {
		c.log.Debug("Transport failure report dropped", zap.Error(err))
	}
}

// Send performs the single synchronous delivery.
func (c *Client) Send(ctx context.Context, intent Intent) error {
	if !c.Configured() {
		return fmt.Errorf("transport not configured")
	}

	body := make(map[string]interface{}, len(intent.Attributes)+5)
	for k, v := range intent.Attributes {
		body[k] = v
	}
	body["event_type"] = intent.EventType
	if intent.IdentityID != "" {
		body["identity_hint"] = intent.IdentityID
	}
	if intent.ConversationID != "" {
		body["conversation_id"] = intent.ConversationID
	}
	if intent.PageURL != "" {
		body["page_url"] = intent.PageURL
	}
	if intent.PageReferrer != "" {
		body["page_referrer"] = intent.PageReferrer
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal event intent: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build tracking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tracking-Nonce", c.creds.Nonce)
	req.Header.Set("X-Tracking-Token", c.creds.Token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("tracking request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tracking request returned status %d", resp.StatusCode)
	}
	return nil
}
