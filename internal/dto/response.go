package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"event_type is required"`
}

// TrackEventResponse represents a successful tracking response.
// Status is "skipped" when the tracking policy gated the event off.
type TrackEventResponse struct {
	EventID string `json:"event_id,omitempty" example:"7f9c3b1a-2e64-4d0b-9b1f-5a8c2e7d4f01"`
	Status  string `json:"status" example:"accepted"`
}

// TrackEventsBulkResponse represents a bulk tracking response
type TrackEventsBulkResponse struct {
	Accepted int      `json:"accepted" example:"5"`
	Skipped  int      `json:"skipped" example:"1"`
	Rejected int      `json:"rejected" example:"0"`
	EventIDs []string `json:"event_ids,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// IdentityResponse represents the resolved visitor identity plus the per-page
// transport credentials the browser agent needs.
type IdentityResponse struct {
	IdentityID string `json:"identity_id" example:"3f2b8c1e-9d54-4a6b-8a01-6f2e9c7b1a2d"`
	Origin     string `json:"origin" example:"cookie"`
	Nonce      string `json:"nonce" example:"a1f0c9d2e3b44c5d8e6f7a8b9c0d1e2f"`
	Token      string `json:"token" example:"9c0ffee1bad0cafe..."`
}

// StatsResponse represents aggregated usage stats with period-over-period deltas
type StatsResponse struct {
	From          int64   `json:"from" example:"1756419200"`
	To            int64   `json:"to" example:"1756678400"`
	Sessions      uint64  `json:"sessions" example:"412"`
	Messages      uint64  `json:"messages" example:"1893"`
	SessionsDelta float64 `json:"sessions_delta_pct" example:"12.5"`
	MessagesDelta float64 `json:"messages_delta_pct" example:"-3.1"`
}

// QuestionCount represents one ranked question
type QuestionCount struct {
	Question string `json:"question" example:"do you ship to Norway?"`
	Count    uint64 `json:"count" example:"37"`
}

// TopQuestionsResponse represents the frequency-ranked question list
type TopQuestionsResponse struct {
	From      int64           `json:"from" example:"1756419200"`
	To        int64           `json:"to" example:"1756678400"`
	Questions []QuestionCount `json:"questions"`
}

// UnansweredQuestion represents a user turn that received no follow-up
type UnansweredQuestion struct {
	ConversationID string `json:"conversation_id" example:"conv_8f31"`
	Question       string `json:"question" example:"can I pay with iDEAL?"`
	AskedAt        string `json:"asked_at" example:"2026-08-28T14:03:11Z"`
}

// UnansweredQuestionsResponse represents the unanswered questions list
type UnansweredQuestionsResponse struct {
	From      int64                `json:"from" example:"1756419200"`
	To        int64                `json:"to" example:"1756678400"`
	Questions []UnansweredQuestion `json:"questions"`
}
