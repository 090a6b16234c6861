package domain

// Audience scopes owned by the admin layer.
const (
	AudienceAll           = "all"
	AudienceAuthenticated = "authenticated"
	AudienceGuests        = "guests"
)

// TrackingPolicy is the read-only tracking configuration this service honors.
// The zero value disables tracking entirely.
type TrackingPolicy struct {
	Enabled      bool
	EnabledTypes map[string]bool // nil means all types enabled
	Audience     string
}

// Allows reports whether an event of the given type from the given visitor
// class should be recorded. A false result is a policy gate, not an error.
func (p TrackingPolicy) Allows(eventType string, authenticated bool) bool {
	if !p.Enabled {
		return false
	}

	if p.EnabledTypes != nil && !p.EnabledTypes[eventType] {
		return false
	}

	switch p.Audience {
	case AudienceAuthenticated:
		return authenticated
	case AudienceGuests:
		return !authenticated
	default:
		return true
	}
}
