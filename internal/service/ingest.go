package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/demirdoven/fluxa-analytics-service/internal/catalog"
	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
	"github.com/demirdoven/fluxa-analytics-service/internal/dto"
	"github.com/demirdoven/fluxa-analytics-service/internal/identity"
	"github.com/demirdoven/fluxa-analytics-service/internal/queue"
)

// IngestService validates, enriches, and publishes tracked events. Each
// accepted event becomes exactly one append-only row downstream; there is no
// server-side dedup, so identical bodies yield distinct rows.
type IngestService struct {
	publisher queue.Publisher
	resolver  IdentityLookup
	prices    catalog.PriceLookup
	policy    domain.TrackingPolicy
	log       *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(publisher queue.Publisher, resolver IdentityLookup, prices catalog.PriceLookup, policy domain.TrackingPolicy, log *zap.Logger) *IngestService {
	return &IngestService{
		publisher: publisher,
		resolver:  resolver,
		prices:    prices,
		policy:    policy,
		log:       log,
	}
}

// Ingest processes a single tracking request.
func (s *IngestService) Ingest(ctx context.Context, req *dto.TrackEventRequest, rc RequestContext) (*IngestResult, error) {
	if req.EventType == "" {
		return nil, fmt.Errorf("event_type is required")
	}

	authenticated := rc.UserID != ""
	if !s.policy.Allows(req.EventType, authenticated) {
		s.log.Debug("Event gated off by tracking policy",
			zap.String("event_type", req.EventType))
		return &IngestResult{Skipped: true}, nil
	}

	event := &domain.Event{
		EventID:        uuid.NewString(),
		EventType:      req.EventType,
		IdentityID:     s.normalizeIdentity(ctx, req.IdentityHint, rc),
		ConversationID: req.ConversationID,
		PageURL:        req.PageURL,
		PageReferrer:   req.PageReferrer,
		UserAgent:      rc.UserAgent,
		IP:             parseRemoteIP(rc.RemoteAddr),
		ProductID:      req.ProductID,
		VariationID:    req.VariationID,
		Qty:            req.Qty,
		Price:          req.Price,
		Currency:       req.Currency,
		OrderID:        req.OrderID,
		OrderStatus:    req.OrderStatus,
		CartTotal:      req.CartTotal,
		ShippingTotal:  req.ShippingTotal,
		DiscountTotal:  req.DiscountTotal,
		TaxTotal:       req.TaxTotal,
		Payload:        marshalPayload(req.JSONPayload),
		// server-assigned: client clocks are not trusted
		OccurredAt: time.Now().UTC(),
	}

	// the physical request URL is the tracking endpoint itself, so the
	// client-supplied page context wins; request-derived values are only a
	// fallback for clients that omitted them
	if event.PageURL == "" {
		event.PageURL = rc.RequestURL
	}
	if event.PageReferrer == "" {
		event.PageReferrer = rc.Referrer
	}

	s.enrichPrice(ctx, event)

	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to publish event to queue: %w", err)
	}

	return &IngestResult{EventID: event.EventID}, nil
}

// IngestBulk processes multiple tracking requests, returning accepted event
// ids, the skipped count, and per-event errors.
func (s *IngestService) IngestBulk(ctx context.Context, reqs []dto.TrackEventRequest, rc RequestContext) ([]string, int, []string) {
	var eventIDs []string
	var errs []string
	skipped := 0

	for i, req := range reqs {
		result, err := s.Ingest(ctx, &req, rc)
		if err != nil {
			errs = append(errs, err.Error())
			s.log.Warn("Failed to ingest event in bulk",
				zap.Int("index", i),
				zap.Error(err),
				zap.String("event_type", req.EventType))
			continue
		}
		if result.Skipped {
			skipped++
			continue
		}
		eventIDs = append(eventIDs, result.EventID)
	}

	return eventIDs, skipped, errs
}

// normalizeIdentity prefers the server-derived identity over the client hint.
// Hints are trusted only when UUID-shaped; anything else is discarded so the
// stored identity is empty rather than garbage.
func (s *IngestService) normalizeIdentity(ctx context.Context, hint string, rc RequestContext) string {
	if s.resolver != nil {
		state := identity.RequestState{
			UserID:      rc.UserID,
			SessionID:   rc.SessionID,
			CookieValue: rc.CookieValue,
			Secure:      rc.Secure,
		}
		if id, ok := s.resolver.Lookup(ctx, state); ok {
			return id
		}
	}

	if domain.UUIDShaped(hint) {
		return hint
	}
	if hint != "" {
		s.log.Debug("Discarding malformed identity hint", zap.String("hint", hint))
	}
	return ""
}

// enrichPrice fills in the current catalog price for product events that
// arrived without one. Enrichment failures never fail the write.
func (s *IngestService) enrichPrice(ctx context.Context, event *domain.Event) {
	if s.prices == nil || event.Price != 0 || !event.ProductEvent() {
		return
	}

	price, err := s.prices.Price(ctx, event.ProductID)
	if err != nil {
		if !errors.Is(err, catalog.ErrPriceUnknown) {
			s.log.Debug("Price enrichment failed",
				zap.Int64("product_id", event.ProductID),
				zap.Error(err))
		}
		return
	}
	event.Price = price
}

func marshalPayload(payload map[string]interface{}) string {
	if len(payload) == 0 {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}

func parseRemoteIP(remoteAddr string) net.IP {
	if remoteAddr == "" {
		return nil
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return net.ParseIP(host)
}
