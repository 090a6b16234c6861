package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackingPolicy_Allows(t *testing.T) {
	disabled := TrackingPolicy{}
	assert.False(t, disabled.Allows(EventProductClick, false))

	allTypes := TrackingPolicy{Enabled: true}
	assert.True(t, allTypes.Allows(EventProductClick, false))
	assert.True(t, allTypes.Allows(EventPurchase, true))

	selective := TrackingPolicy{
		Enabled:      true,
		EnabledTypes: map[string]bool{EventPurchase: true},
	}
	assert.True(t, selective.Allows(EventPurchase, false))
	assert.False(t, selective.Allows(EventProductClick, false))

	authedOnly := TrackingPolicy{Enabled: true, Audience: AudienceAuthenticated}
	assert.True(t, authedOnly.Allows(EventProductClick, true))
	assert.False(t, authedOnly.Allows(EventProductClick, false))

	guestsOnly := TrackingPolicy{Enabled: true, Audience: AudienceGuests}
	assert.False(t, guestsOnly.Allows(EventProductClick, true))
	assert.True(t, guestsOnly.Allows(EventProductClick, false))
}

func TestValidIdentity(t *testing.T) {
	assert.True(t, ValidIdentity("3f2b8c1e-9d54-4a6b-8a01-6f2e9c7b1a2d"))
	assert.True(t, ValidIdentity("9a1b2c3d4e5f60718293a4b5c6d7e8f9"))

	assert.False(t, ValidIdentity(""))
	assert.False(t, ValidIdentity("short"))
	assert.False(t, ValidIdentity("9a1b2c3d4e5f60718293a4b5c6d7e8fz"))
	assert.False(t, ValidIdentity("not-a-uuid-but-thirty-six-chars-long"))
}

func TestUUIDShaped(t *testing.T) {
	assert.True(t, UUIDShaped("3f2b8c1e-9d54-4a6b-8a01-6f2e9c7b1a2d"))
	assert.False(t, UUIDShaped("9a1b2c3d4e5f60718293a4b5c6d7e8f9"))
	assert.False(t, UUIDShaped(""))
}

func TestEvent_ProductEvent(t *testing.T) {
	assert.True(t, (&Event{EventType: EventImpression, ProductID: 42}).ProductEvent())
	assert.True(t, (&Event{EventType: EventProductClick, ProductID: 42}).ProductEvent())
	assert.True(t, (&Event{EventType: EventVariantSelect, ProductID: 42}).ProductEvent())

	assert.False(t, (&Event{EventType: EventImpression}).ProductEvent())
	assert.False(t, (&Event{EventType: EventPurchase, ProductID: 42}).ProductEvent())
}
