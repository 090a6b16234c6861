package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	nonce, token := issuer.Issue()

	assert.Len(t, nonce, 32)
	assert.Len(t, token, 64)
	assert.True(t, issuer.Verify(nonce, token))
}

func TestTokenIssuer_FreshNoncePerIssue(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	nonce1, _ := issuer.Issue()
	nonce2, _ := issuer.Issue()

	assert.NotEqual(t, nonce1, nonce2)
}

func TestTokenIssuer_RejectsMismatchedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	nonce, _ := issuer.Issue()
	_, otherToken := issuer.Issue()

	assert.False(t, issuer.Verify(nonce, otherToken))
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	foreign := NewTokenIssuer("other-secret")

	nonce, token := foreign.Issue()

	assert.False(t, issuer.Verify(nonce, token))
}

func TestTokenIssuer_RejectsEmptyInputs(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	nonce, token := issuer.Issue()

	assert.False(t, issuer.Verify("", token))
	assert.False(t, issuer.Verify(nonce, ""))
	assert.False(t, issuer.Verify("", ""))
}
