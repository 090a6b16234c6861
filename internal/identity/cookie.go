package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

// CookieCodec encodes the visitor identity cookie. The value format is
// "<id>.<hex hmac-sha256>": visitor-readable, tamper-evident.
type CookieCodec struct {
	prefix string
	secret []byte
	ttl    time.Duration
}

// NewCookieCodec creates a new cookie codec
func NewCookieCodec(prefix, secret string, ttlDays int) *CookieCodec {
	return &CookieCodec{
		prefix: prefix,
		secret: []byte(secret),
		ttl:    time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// Name returns the identity cookie name.
func (c *CookieCodec) Name() string {
	return c.prefix + "_uid"
}

// Encode produces the signed cookie value for an identity.
func (c *CookieCodec) Encode(id string) string {
	return id + "." + c.sign(id)
}

// Decode splits a raw cookie value into its identity and reports whether the
// signature verified. Callers deliberately reuse the value even when the
// signature does not match: continuity across a domain change beats strict
// enforcement here, and the cookie gets re-signed on the way out.
func (c *CookieCodec) Decode(raw string) (id string, sigValid bool) {
	value, sig, found := strings.Cut(raw, ".")
	if !found {
		return raw, false
	}
	return value, hmac.Equal([]byte(c.sign(value)), []byte(sig))
}

// Build constructs the Set-Cookie header for an identity. Not HttpOnly: the
// browser agent reads the cookie to attach identity to outgoing events.
func (c *CookieCodec) Build(id string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name(),
		Value:    c.Encode(id),
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		Expires:  time.Now().Add(c.ttl),
		Secure:   secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *CookieCodec) sign(id string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}
