package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ZeroValueIsAnonymous(t *testing.T) {
	var s Session
	assert.Equal(t, Anonymous, s.State())
	assert.False(t, s.NeedsRefresh())
}

func TestSession_Transitions(t *testing.T) {
	s := NewAuthenticatedSession("access", "refresh")
	assert.Equal(t, Authenticated, s.State())
	assert.Equal(t, "access", s.AccessToken().String())
	assert.Equal(t, "refresh", s.RefreshToken())

	unlocked := s.WithEncryptionKey("key")
	assert.Equal(t, VaultUnlocked, unlocked.State())

	// Transitions return copies; the original value is unchanged.
	assert.Equal(t, Authenticated, s.State())
	assert.Empty(t, s.encryptionKey)
}

func TestSession_WithAccessToken_KeepsStateAndKey(t *testing.T) {
	s := NewAuthenticatedSession("old", "refresh").WithEncryptionKey("key")

	rotated := s.WithAccessToken("new")
	assert.Equal(t, VaultUnlocked, rotated.State())
	assert.Equal(t, "new", rotated.AccessToken().String())
	assert.Equal(t, "refresh", rotated.RefreshToken())
	assert.Equal(t, "key", rotated.encryptionKey)
}

func TestSession_NeedsRefresh(t *testing.T) {
	sign := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
		signed, err := token.SignedString([]byte("k"))
		require.NoError(t, err)
		return signed
	}

	fresh := NewAuthenticatedSession(sign(time.Now().Add(time.Hour)), "r")
	assert.False(t, fresh.NeedsRefresh())

	stale := NewAuthenticatedSession(sign(time.Now().Add(5*time.Second)), "r")
	assert.True(t, stale.NeedsRefresh())

	// An opaque non-JWT token has no readable expiry and always refreshes.
	opaque := NewAuthenticatedSession("opaque-token", "r")
	assert.True(t, opaque.NeedsRefresh())
}
