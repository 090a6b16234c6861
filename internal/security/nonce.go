package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// TokenIssuer issues and verifies the per-page nonce/token pair required by
// the tracking endpoint. Tokens are an HMAC-SHA256 over the nonce, so
// verification is stateless.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue generates a fresh nonce and its matching token.
func (t *TokenIssuer) Issue() (nonce, token string) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails if the OS entropy source is broken
		panic(err)
	}
	nonce = hex.EncodeToString(buf)
	return nonce, t.sign(nonce)
}

// Verify reports whether token matches nonce.
func (t *TokenIssuer) Verify(nonce, token string) bool {
	if nonce == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(t.sign(nonce)), []byte(token))
}

func (t *TokenIssuer) sign(nonce string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(nonce))
	return hex.EncodeToString(mac.Sum(nil))
}
