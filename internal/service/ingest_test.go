package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/demirdoven/fluxa-analytics-service/internal/catalog"
	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
	"github.com/demirdoven/fluxa-analytics-service/internal/dto"
	"github.com/demirdoven/fluxa-analytics-service/internal/identity"
)

// MockPublisher is a mock implementation of queue.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockIdentityLookup is a mock implementation of IdentityLookup
type MockIdentityLookup struct {
	mock.Mock
}

func (m *MockIdentityLookup) Lookup(ctx context.Context, state identity.RequestState) (string, bool) {
	args := m.Called(ctx, state)
	return args.String(0), args.Bool(1)
}

// MockPriceLookup is a mock implementation of catalog.PriceLookup
type MockPriceLookup struct {
	mock.Mock
}

func (m *MockPriceLookup) Price(ctx context.Context, productID int64) (float64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(float64), args.Error(1)
}

func enabledPolicy() domain.TrackingPolicy {
	return domain.TrackingPolicy{Enabled: true}
}

func TestIngestService_Ingest_Success(t *testing.T) {
	publisher := new(MockPublisher)
	svc := NewIngestService(publisher, nil, nil, enabledPolicy(), zap.NewNop())

	var published *domain.Event
	publisher.On("PublishEvent", mock.Anything, mock.AnythingOfType("*domain.Event")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(*domain.Event)
		}).
		Return(nil)

	req := &dto.TrackEventRequest{
		EventType: domain.EventProductClick,
		ProductID: 42,
		PageURL:   "https://shop.example/product/42",
	}

	result, err := svc.Ingest(context.Background(), req, RequestContext{
		RemoteAddr: "203.0.113.9:51812",
		UserAgent:  "Mozilla/5.0",
	})

	assert.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.NotEmpty(t, result.EventID)

	assert.Equal(t, result.EventID, published.EventID)
	assert.Equal(t, domain.EventProductClick, published.EventType)
	assert.Equal(t, int64(42), published.ProductID)
	assert.Equal(t, "203.0.113.9", published.IP.String())
	assert.Equal(t, "Mozilla/5.0", published.UserAgent)
	assert.False(t, published.OccurredAt.IsZero())
}

func TestIngestService_Ingest_MissingEventType(t *testing.T) {
	publisher := new(MockPublisher)
	svc := NewIngestService(publisher, nil, nil, enabledPolicy(), zap.NewNop())

	result, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{}, RequestContext{})

	assert.Error(t, err)
	assert.Nil(t, result)
	publisher.AssertNotCalled(t, "PublishEvent")
}

func TestIngestService_Ingest_TrackingDisabledSkips(t *testing.T) {
	publisher := new(MockPublisher)
	svc := NewIngestService(publisher, nil, nil, domain.TrackingPolicy{Enabled: false}, zap.NewNop())

	result, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventProductClick,
	}, RequestContext{})

	assert.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, result.EventID)
	publisher.AssertNotCalled(t, "PublishEvent")
}

func TestIngestService_Ingest_EventTypeGate(t *testing.T) {
	publisher := new(MockPublisher)
	policy := domain.TrackingPolicy{
		Enabled:      true,
		EnabledTypes: map[string]bool{domain.EventPurchase: true},
	}
	svc := NewIngestService(publisher, nil, nil, policy, zap.NewNop())

	publisher.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	skipped, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventProductClick,
	}, RequestContext{})
	assert.NoError(t, err)
	assert.True(t, skipped.Skipped)

	accepted, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventPurchase,
	}, RequestContext{})
	assert.NoError(t, err)
	assert.False(t, accepted.Skipped)
}

func TestIngestService_Ingest_AudienceGate(t *testing.T) {
	publisher := new(MockPublisher)
	policy := domain.TrackingPolicy{Enabled: true, Audience: domain.AudienceAuthenticated}
	svc := NewIngestService(publisher, nil, nil, policy, zap.NewNop())

	publisher.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	guest, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventProductClick,
	}, RequestContext{})
	assert.NoError(t, err)
	assert.True(t, guest.Skipped)

	authed, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventProductClick,
	}, RequestContext{UserID: "u_1"})
	assert.NoError(t, err)
	assert.False(t, authed.Skipped)
}

func TestIngestService_Ingest_ServerIdentityWinsOverHint(t *testing.T) {
	publisher := new(MockPublisher)
	resolver := new(MockIdentityLookup)
	svc := NewIngestService(publisher, resolver, nil, enabledPolicy(), zap.NewNop())

	resolver.On("Lookup", mock.Anything, mock.AnythingOfType("identity.RequestState")).
		Return("9a1b2c3d4e5f60718293a4b5c6d7e8f9", true)

	var published *domain.Event
	publisher.On("PublishEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*domain.Event) }).
		Return(nil)

	_, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType:    domain.EventChatOpened,
		IdentityHint: "3f2b8c1e-9d54-4a6b-8a01-6f2e9c7b1a2d",
	}, RequestContext{CookieValue: "whatever"})

	assert.NoError(t, err)
	assert.Equal(t, "9a1b2c3d4e5f60718293a4b5c6d7e8f9", published.IdentityID)
}

func TestIngestService_Ingest_UUIDHintAcceptedWhenUnresolved(t *testing.T) {
	publisher := new(MockPublisher)
	resolver := new(MockIdentityLookup)
	svc := NewIngestService(publisher, resolver, nil, enabledPolicy(), zap.NewNop())

	resolver.On("Lookup", mock.Anything, mock.Anything).Return("", false)

	var published *domain.Event
	publisher.On("PublishEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*domain.Event) }).
		Return(nil)

	_, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType:    domain.EventChatOpened,
		IdentityHint: "3f2b8c1e-9d54-4a6b-8a01-6f2e9c7b1a2d",
	}, RequestContext{})

	assert.NoError(t, err)
	assert.Equal(t, "3f2b8c1e-9d54-4a6b-8a01-6f2e9c7b1a2d", published.IdentityID)
}

func TestIngestService_Ingest_MalformedHintDiscarded(t *testing.T) {
	publisher := new(MockPublisher)
	svc := NewIngestService(publisher, nil, nil, enabledPolicy(), zap.NewNop())

	var published *domain.Event
	publisher.On("PublishEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*domain.Event) }).
		Return(nil)

	_, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType:    domain.EventChatOpened,
		IdentityHint: "'; DROP TABLE tracked_events; --",
	}, RequestContext{})

	assert.NoError(t, err)
	assert.Empty(t, published.IdentityID)
}

func TestIngestService_Ingest_PageContextFallback(t *testing.T) {
	publisher := new(MockPublisher)
	svc := NewIngestService(publisher, nil, nil, enabledPolicy(), zap.NewNop())

	var published *domain.Event
	publisher.On("PublishEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*domain.Event) }).
		Return(nil)

	_, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventChatOpened,
	}, RequestContext{
		RequestURL: "https://shop.example/wp-json/track",
		Referrer:   "https://shop.example/cart",
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://shop.example/wp-json/track", published.PageURL)
	assert.Equal(t, "https://shop.example/cart", published.PageReferrer)
}

func TestIngestService_Ingest_PriceEnriched(t *testing.T) {
	publisher := new(MockPublisher)
	prices := new(MockPriceLookup)
	svc := NewIngestService(publisher, nil, prices, enabledPolicy(), zap.NewNop())

	prices.On("Price", mock.Anything, int64(42)).Return(19.99, nil)

	var published *domain.Event
	publisher.On("PublishEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*domain.Event) }).
		Return(nil)

	_, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventImpression,
		ProductID: 42,
	}, RequestContext{})

	assert.NoError(t, err)
	assert.Equal(t, 19.99, published.Price)
}

func TestIngestService_Ingest_PriceEnrichmentFailureSwallowed(t *testing.T) {
	publisher := new(MockPublisher)
	prices := new(MockPriceLookup)
	svc := NewIngestService(publisher, nil, prices, enabledPolicy(), zap.NewNop())

	prices.On("Price", mock.Anything, int64(42)).Return(float64(0), catalog.ErrPriceUnknown)

	var published *domain.Event
	publisher.On("PublishEvent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*domain.Event) }).
		Return(nil)

	_, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventImpression,
		ProductID: 42,
	}, RequestContext{})

	assert.NoError(t, err)
	assert.Equal(t, float64(0), published.Price)
}

func TestIngestService_Ingest_ClientPriceNotOverwritten(t *testing.T) {
	publisher := new(MockPublisher)
	prices := new(MockPriceLookup)
	svc := NewIngestService(publisher, nil, prices, enabledPolicy(), zap.NewNop())

	publisher.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventImpression,
		ProductID: 42,
		Price:     9.5,
	}, RequestContext{})

	assert.NoError(t, err)
	prices.AssertNotCalled(t, "Price")
}

func TestIngestService_Ingest_DistinctIDsForIdenticalBodies(t *testing.T) {
	publisher := new(MockPublisher)
	svc := NewIngestService(publisher, nil, nil, enabledPolicy(), zap.NewNop())

	publisher.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	req := &dto.TrackEventRequest{EventType: domain.EventProductClick, ProductID: 42}
	first, err := svc.Ingest(context.Background(), req, RequestContext{})
	assert.NoError(t, err)
	second, err := svc.Ingest(context.Background(), req, RequestContext{})
	assert.NoError(t, err)

	assert.NotEqual(t, first.EventID, second.EventID)
	publisher.AssertNumberOfCalls(t, "PublishEvent", 2)
}

func TestIngestService_Ingest_PublishFailure(t *testing.T) {
	publisher := new(MockPublisher)
	svc := NewIngestService(publisher, nil, nil, enabledPolicy(), zap.NewNop())

	publisher.On("PublishEvent", mock.Anything, mock.Anything).Return(errors.New("queue unavailable"))

	result, err := svc.Ingest(context.Background(), &dto.TrackEventRequest{
		EventType: domain.EventProductClick,
	}, RequestContext{})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestIngestService_IngestBulk_MixedOutcomes(t *testing.T) {
	publisher := new(MockPublisher)
	policy := domain.TrackingPolicy{
		Enabled:      true,
		EnabledTypes: map[string]bool{domain.EventProductClick: true},
	}
	svc := NewIngestService(publisher, nil, nil, policy, zap.NewNop())

	publisher.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	reqs := []dto.TrackEventRequest{
		{EventType: domain.EventProductClick, ProductID: 1},
		{EventType: domain.EventPurchase},
		{},
		{EventType: domain.EventProductClick, ProductID: 2},
	}

	eventIDs, skipped, errs := svc.IngestBulk(context.Background(), reqs, RequestContext{})

	assert.Len(t, eventIDs, 2)
	assert.Equal(t, 1, skipped)
	assert.Len(t, errs, 1)
}

func TestParseRemoteIP(t *testing.T) {
	assert.Equal(t, "203.0.113.9", parseRemoteIP("203.0.113.9:51812").String())
	assert.Equal(t, "203.0.113.9", parseRemoteIP("203.0.113.9").String())
	assert.Equal(t, "2001:db8::1", parseRemoteIP("[2001:db8::1]:443").String())
	assert.Nil(t, parseRemoteIP("not-an-ip"))
	assert.Nil(t, parseRemoteIP(""))
}
