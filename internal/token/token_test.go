package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewService("test-secret", "billboard-escrow", time.Hour)

	signed, err := svc.Issue("sponsor-1")
	require.NoError(t, err)

	address, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "sponsor-1", address)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	signed, err := NewService("secret-a", "billboard-escrow", time.Hour).Issue("sponsor-1")
	require.NoError(t, err)

	_, err = NewService("secret-b", "billboard-escrow", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-secret", "billboard-escrow", -time.Minute)
	signed, err := svc.Issue("sponsor-1")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", "billboard-escrow", time.Hour)
	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
