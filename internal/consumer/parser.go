package consumer

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
)

// JSONEventParser implements MessageParser for JSON-formatted event messages.
// Everything except event_type is extracted defensively: a missing or
// mistyped field becomes its zero value rather than failing the message.
type JSONEventParser struct{}

// NewJSONEventParser creates a new JSON event parser
func NewJSONEventParser() *JSONEventParser {
	return &JSONEventParser{}
}

// Parse parses a JSON message body into an Event
func (p *JSONEventParser) Parse(body []byte) (*domain.Event, error) {
	var msgBody map[string]interface{}
	if err := json.Unmarshal(body, &msgBody); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	eventType := getStringField(msgBody, "event_type")
	if eventType == "" {
		return nil, fmt.Errorf("message missing event_type")
	}

	payloadJSON := getStringField(msgBody, "payload")
	if payloadJSON == "" {
		payloadJSON = "{}"
	}

	var ip net.IP
	if raw := getStringField(msgBody, "ip"); raw != "" {
		// unparseable addresses are stored as NULL, not as garbage
		ip = net.ParseIP(raw)
	}

	occurredAt := time.Now().UTC()
	if raw := getStringField(msgBody, "occurred_at"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			occurredAt = parsed
		}
	}

	event := &domain.Event{
		EventID:        getStringField(msgBody, "event_id"),
		EventType:      eventType,
		IdentityID:     getStringField(msgBody, "identity_id"),
		ConversationID: getStringField(msgBody, "conversation_id"),
		PageURL:        getStringField(msgBody, "page_url"),
		PageReferrer:   getStringField(msgBody, "page_referrer"),
		UserAgent:      getStringField(msgBody, "user_agent"),
		IP:             ip,
		ProductID:      getInt64Field(msgBody, "product_id"),
		VariationID:    getInt64Field(msgBody, "variation_id"),
		Qty:            int32(getInt64Field(msgBody, "qty")),
		Price:          getFloatField(msgBody, "price"),
		Currency:       getStringField(msgBody, "currency"),
		OrderID:        getInt64Field(msgBody, "order_id"),
		OrderStatus:    getStringField(msgBody, "order_status"),
		CartTotal:      getFloatField(msgBody, "cart_total"),
		ShippingTotal:  getFloatField(msgBody, "shipping_total"),
		DiscountTotal:  getFloatField(msgBody, "discount_total"),
		TaxTotal:       getFloatField(msgBody, "tax_total"),
		Payload:        payloadJSON,
		OccurredAt:     occurredAt,
		IngestedAt:     time.Now().UTC(),
	}

	return event, nil
}

// Helper functions for extracting fields from parsed JSON
func getStringField(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

func getInt64Field(m map[string]interface{}, key string) int64 {
	if val, ok := m[key].(float64); ok {
		return int64(val)
	}
	return 0
}

func getFloatField(m map[string]interface{}, key string) float64 {
	if val, ok := m[key].(float64); ok {
		return val
	}
	return 0
}
