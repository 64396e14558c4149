package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "user-registration-service/pkg/errors"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", 7*24*time.Hour)

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerify_ExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerify_Garbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	_, err := issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
