package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "bookforge-test")

	pair, err := m.GenerateTokenPair("user-1", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	access, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, "access", access.Type)
	assert.Equal(t, "bookforge-test", access.Issuer)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.Type)
}

func TestJWTManager_ParseToken_Errors(t *testing.T) {
	m := NewJWTManager("secret", "bookforge-test")

	t.Run("过期令牌", func(t *testing.T) {
		token, err := m.GenerateToken("user-1", "access", -time.Minute)
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("签名不匹配", func(t *testing.T) {
		other := NewJWTManager("different-secret", "bookforge-test")
		token, err := other.GenerateToken("user-1", "access", time.Hour)
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("畸形令牌", func(t *testing.T) {
		_, err := m.ParseToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
