package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "ana@star.mx", "customer", time.Hour, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)

	claims, err := ParseSessionToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@star.mx", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, tok.ID, claims.ID)
}

func TestSessionTokenRejected(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "ana@star.mx", "customer", time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ParseSessionToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewSessionToken("s3cret", "ana@star.mx", "customer", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseSessionToken("s3cret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseSessionToken("s3cret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokensAreUnique(t *testing.T) {
	now := time.Now()
	a, err := NewSessionToken("s3cret", "ana@star.mx", "admin", time.Hour, now)
	require.NoError(t, err)
	b, err := NewSessionToken("s3cret", "ana@star.mx", "admin", time.Hour, now)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}
