package fakeapi

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	now := time.Now()
	tok, err := generateToken(42, now)
	require.NoError(t, err)

	id, err := userIDFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(TokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestUserIDFromToken_RejectsForeignSignature(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}).SignedString([]byte("other"))
	require.NoError(t, err)

	_, err = userIDFromToken(tok)
	assert.Error(t, err)
}

func TestUserIDFromToken_Garbage(t *testing.T) {
	_, err := userIDFromToken("abc")
	assert.Error(t, err)
}
