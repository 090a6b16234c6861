package dto

// TrackEventRequest represents a single tracking request from the browser agent.
// Everything except event_type is optional: imperfect clients are normalized,
// not rejected.
type TrackEventRequest struct {
	EventType      string                 `json:"event_type" binding:"required" example:"impression"`
	IdentityHint   string                 `json:"identity_hint" example:"3f2b8c1e-9d54-4a6b-8a01-6f2e9c7b1a2d"`
	ConversationID string                 `json:"conversation_id" example:"conv_8f31"`
	PageURL        string                 `json:"page_url" example:"/shop/hoodies?page=2"`
	PageReferrer   string                 `json:"page_referrer" example:"https://www.google.com/"`
	ProductID      int64                  `json:"product_id" example:"812"`
	VariationID    int64                  `json:"variation_id" example:"8121"`
	Qty            int32                  `json:"qty" example:"1"`
	Price          float64                `json:"price" example:"49.90"`
	Currency       string                 `json:"currency" example:"EUR"`
	OrderID        int64                  `json:"order_id" example:"10233"`
	OrderStatus    string                 `json:"order_status" example:"processing"`
	CartTotal      float64                `json:"cart_total" example:"129.70"`
	ShippingTotal  float64                `json:"shipping_total" example:"4.90"`
	DiscountTotal  float64                `json:"discount_total" example:"10.00"`
	TaxTotal       float64                `json:"tax_total" example:"20.70"`
	JSONPayload    map[string]interface{} `json:"json_payload" swaggertype:"object,string" example:"role:user,text:do you ship to Norway?"`
}

// TrackEventsBulkRequest represents a bulk tracking request
type TrackEventsBulkRequest struct {
	Events []TrackEventRequest `json:"events" binding:"required,min=1,max=500,dive"`
}

// RegisterIdentityRequest links the ambient guest identity to a new account
type RegisterIdentityRequest struct {
	UserID string `json:"user_id" binding:"required" example:"u_4812"`
}

// StatsRequest represents a usage stats query
type StatsRequest struct {
	From int64 `form:"from" binding:"required" example:"1756419200"`
	To   int64 `form:"to" binding:"required" example:"1756678400"`
}

// TopQuestionsRequest represents a top questions query
type TopQuestionsRequest struct {
	From  int64 `form:"from" binding:"required" example:"1756419200"`
	To    int64 `form:"to" binding:"required" example:"1756678400"`
	Limit int   `form:"limit" example:"10"`
}

// UnansweredQuestionsRequest represents an unanswered questions query
type UnansweredQuestionsRequest struct {
	From int64 `form:"from" binding:"required" example:"1756419200"`
	To   int64 `form:"to" binding:"required" example:"1756678400"`
}
