package identity

import "context"

// AccountStore persists the durable account→identity link for authenticated
// visitors.
type AccountStore interface {
	// Get returns the linked identity for a user, or "" when none is linked.
	Get(ctx context.Context, userID string) (string, error)

	// SetIfAbsent links an identity to a user only when no link exists yet.
	// It never overwrites an existing value.
	SetIfAbsent(ctx context.Context, userID, identityID string) error
}

// SessionStore holds the identity for the lifetime of a server-side session.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, identityID string) error
}

// Provisioner creates externally provisioned identities. Implemented by the
// assistant client; treated as best-effort with no retry.
type Provisioner interface {
	ProvisionUser(ctx context.Context, displayName string) (string, error)
}
