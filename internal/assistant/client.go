// Package assistant is a thin client for the external conversational AI
// service. Both calls this service makes are best-effort with short bounded
// timeouts; callers are expected to degrade gracefully when they fail.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/demirdoven/fluxa-analytics-service/internal/config"
)

// Message is one turn of a conversation transcript.
type Message struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
	SenderName string `json:"senderName"`
}

// Client calls the external assistant API.
type Client struct {
	baseURL          string
	apiKey           string
	replicaID        string
	hc               *http.Client
	provisionTimeout time.Duration
	log              *zap.Logger
}

// NewClient creates a new assistant API client
func NewClient(cfg config.Assistant, log *zap.Logger) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		replicaID: cfg.ReplicaID,
		hc: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
		provisionTimeout: time.Duration(cfg.ProvisionTimeoutMs) * time.Millisecond,
		log:              log,
	}
}

// Configured reports whether the client has an endpoint to talk to.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// ProvisionUser asks the assistant service to create a user record and
// returns its id. The call is bounded by the provisioning timeout so it can
// never stall identity resolution; there is no retry.
func (c *Client) ProvisionUser(ctx context.Context, displayName string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("assistant client not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.provisionTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"name": displayName})
	if err != nil {
		return "", fmt.Errorf("failed to marshal user payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build provisioning request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("provisioning request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("provisioning request returned status %d", resp.StatusCode)
	}

	var parsed struct {
		ID   string `json:"id"`
		UUID string `json:"uuid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode provisioning response: %w", err)
	}

	id := parsed.ID
	if id == "" {
		id = parsed.UUID
	}
	if id == "" {
		return "", fmt.Errorf("provisioning response missing id")
	}
	return id, nil
}

// ListMessages fetches the transcript of one conversation.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("assistant client not configured")
	}

	url := fmt.Sprintf("%s/replicas/%s/conversations/%s/messages", c.baseURL, c.replicaID, conversationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build messages request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("messages request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("messages request returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Items []Message `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode messages response: %w", err)
	}

	return parsed.Items, nil
}
