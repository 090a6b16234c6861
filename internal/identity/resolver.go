package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/demirdoven/fluxa-analytics-service/internal/domain"
)

// RequestState is the ambient request state the resolver reads, extracted by
// the HTTP layer so the resolver itself is testable without a request.
type RequestState struct {
	UserID      string // authenticated account id, "" for guests
	SessionID   string // server-side session id, "" when no session
	CookieValue string // raw identity cookie value, "" when absent
	Secure      bool   // request arrived over TLS
}

// Resolution is the outcome of resolving an identity. SetCookie is non-nil
// whenever the cookie should be (re)written.
type Resolution struct {
	Identity  domain.VisitorIdentity
	SetCookie *http.Cookie
}

// Resolver produces a single stable identity for the current visitor and
// keeps cookie, session, and account storage consistent.
type Resolver struct {
	accounts    AccountStore
	sessions    SessionStore
	provisioner Provisioner
	codec       *CookieCodec
	log         *zap.Logger
}

// NewResolver creates a new identity resolver
func NewResolver(accounts AccountStore, sessions SessionStore, provisioner Provisioner, codec *CookieCodec, log *zap.Logger) *Resolver {
	return &Resolver{
		accounts:    accounts,
		sessions:    sessions,
		provisioner: provisioner,
		codec:       codec,
		log:         log,
	}
}

// CookieName returns the identity cookie name.
func (r *Resolver) CookieName() string {
	return r.codec.Name()
}

// SessionCookieName returns the server-side session cookie name.
func (r *Resolver) SessionCookieName() string {
	return r.codec.prefix + "_session"
}

// Resolve returns the canonical identity for the request, creating one when
// every storage location is absent. Resolution order: account link, session,
// signed cookie, external provisioning, local random fallback. The fallback
// is pure randomness and always succeeds.
func (r *Resolver) Resolve(ctx context.Context, state RequestState) (Resolution, error) {
	if id, origin, ok := r.lookup(ctx, state); ok {
		return r.persist(ctx, state, id, origin)
	}

	if r.provisioner != nil {
		id, err := r.provisioner.ProvisionUser(ctx, "Storefront Visitor")
		if err == nil && domain.UUIDShaped(id) {
			return r.persist(ctx, state, id, domain.OriginProvisioned)
		}
		if err != nil {
			// best-effort: fall through to the local generator
			r.log.Debug("Identity provisioning failed", zap.Error(err))
		}
	}

	id, err := localIdentity()
	if err != nil {
		return Resolution{}, err
	}
	return r.persist(ctx, state, id, domain.OriginLocal)
}

// Lookup returns the already-established identity for the request without
// creating one or touching any store. The ingestion path uses this to prefer
// server-derived identity over client hints.
func (r *Resolver) Lookup(ctx context.Context, state RequestState) (string, bool) {
	id, _, ok := r.lookup(ctx, state)
	return id, ok
}

// MergeOnRegistration copies the current guest identity into a freshly
// registered account. The merge is one-directional and never overwrites an
// identity already linked to the account.
func (r *Resolver) MergeOnRegistration(ctx context.Context, userID string, state RequestState) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	guest, _, ok := r.lookupAmbient(ctx, state)
	if !ok {
		return nil
	}

	if err := r.accounts.SetIfAbsent(ctx, userID, guest); err != nil {
		return fmt.Errorf("failed to link guest identity to account: %w", err)
	}

	r.log.Info("Guest identity linked to account",
		zap.String("user_id", userID),
		zap.String("identity_id", guest))
	return nil
}

// lookup checks every storage location in resolution order.
func (r *Resolver) lookup(ctx context.Context, state RequestState) (string, domain.IdentityOrigin, bool) {
	if state.UserID != "" {
		id, err := r.accounts.Get(ctx, state.UserID)
		if err != nil {
			r.log.Warn("Account identity lookup failed",
				zap.String("user_id", state.UserID),
				zap.Error(err))
		} else if domain.ValidIdentity(id) {
			return id, domain.OriginAccount, true
		}
	}

	return r.lookupAmbient(ctx, state)
}

// lookupAmbient checks the guest-reachable locations: session, then cookie.
func (r *Resolver) lookupAmbient(ctx context.Context, state RequestState) (string, domain.IdentityOrigin, bool) {
	if state.SessionID != "" {
		id, err := r.sessions.Get(ctx, state.SessionID)
		if err != nil {
			r.log.Warn("Session identity lookup failed", zap.Error(err))
		} else if domain.ValidIdentity(id) {
			return id, domain.OriginSession, true
		}
	}

	if state.CookieValue != "" {
		id, sigValid := r.codec.Decode(state.CookieValue)
		if domain.ValidIdentity(id) {
			if !sigValid {
				r.log.Warn("Identity cookie signature mismatch, reusing value",
					zap.String("identity_id", id))
			}
			return id, domain.OriginCookie, true
		}
	}

	return "", "", false
}

// persist writes the identity back to every applicable storage location.
func (r *Resolver) persist(ctx context.Context, state RequestState, id string, origin domain.IdentityOrigin) (Resolution, error) {
	res := Resolution{
		Identity:  domain.VisitorIdentity{ID: id, Origin: origin},
		SetCookie: r.codec.Build(id, state.Secure),
	}

	if state.SessionID != "" {
		if err := r.sessions.Set(ctx, state.SessionID, id); err != nil {
			r.log.Warn("Failed to write identity to session", zap.Error(err))
		}
	}

	if state.UserID != "" {
		if err := r.accounts.SetIfAbsent(ctx, state.UserID, id); err != nil {
			r.log.Warn("Failed to write identity to account",
				zap.String("user_id", state.UserID),
				zap.Error(err))
		}
	}

	return res, nil
}

// localIdentity generates the 16-random-byte hex fallback identity.
func localIdentity() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate local identity: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
