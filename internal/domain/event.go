package domain

import (
	"net"
	"time"
)

// Event type vocabulary captured by the browser agent.
const (
	EventImpression        = "impression"
	EventProductClick      = "product_click"
	EventVariantSelect     = "variant_select"
	EventJSError           = "js_error"
	EventCatalogSort       = "catalog_sort"
	EventCatalogFilter     = "catalog_filter"
	EventCatalogPagination = "catalog_pagination"
	EventAddToCart         = "add_to_cart"
	EventBeginCheckout     = "begin_checkout"
	EventPurchase          = "purchase"
	EventChatOpened        = "chat_opened"
	EventChatMessage       = "chat_message"
	EventTransportFailure  = "transport_failure"
)

// Event represents a tracked event stored in ClickHouse. Rows are append-only:
// nothing in this service updates or deletes them after insert.
type Event struct {
	EventID        string    `ch:"event_id"`
	EventType      string    `ch:"event_type"`
	IdentityID     string    `ch:"identity_id"`
	ConversationID string    `ch:"conversation_id"`
	PageURL        string    `ch:"page_url"`
	PageReferrer   string    `ch:"page_referrer"`
	UserAgent      string    `ch:"user_agent"`
	IP             net.IP    `ch:"ip"`
	ProductID      int64     `ch:"product_id"`
	VariationID    int64     `ch:"variation_id"`
	Qty            int32     `ch:"qty"`
	Price          float64   `ch:"price"`
	Currency       string    `ch:"currency"`
	OrderID        int64     `ch:"order_id"`
	OrderStatus    string    `ch:"order_status"`
	CartTotal      float64   `ch:"cart_total"`
	ShippingTotal  float64   `ch:"shipping_total"`
	DiscountTotal  float64   `ch:"discount_total"`
	TaxTotal       float64   `ch:"tax_total"`
	Payload        string    `ch:"payload"`
	OccurredAt     time.Time `ch:"occurred_at"`
	IngestedAt     time.Time `ch:"ingested_at"`
}

// ProductEvent reports whether the event concerns product visibility or
// viewing and therefore qualifies for price enrichment.
func (e *Event) ProductEvent() bool {
	switch e.EventType {
	case EventImpression, EventProductClick, EventVariantSelect:
		return e.ProductID != 0
	}
	return false
}
