package domain

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// IdentityOrigin describes where a visitor identity was resolved from.
type IdentityOrigin string

const (
	OriginAccount     IdentityOrigin = "account"
	OriginSession     IdentityOrigin = "session"
	OriginCookie      IdentityOrigin = "cookie"
	OriginProvisioned IdentityOrigin = "provisioned"
	OriginLocal       IdentityOrigin = "local"
)

// VisitorIdentity is the stable pseudo-identity assigned to a visitor.
// Externally provisioned identities are UUID-shaped; locally generated
// fallbacks are 32 hex characters.
type VisitorIdentity struct {
	ID     string
	Origin IdentityOrigin
}

// ValidIdentity reports whether s has an acceptable identity shape.
func ValidIdentity(s string) bool {
	return UUIDShaped(s) || hexShaped(s)
}

// UUIDShaped reports whether s parses as a canonical UUID. Only UUID-shaped
// client hints are trusted by the ingestion path.
func UUIDShaped(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func hexShaped(s string) bool {
	if len(s) != 32 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
