package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/subshare/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "u@x.com"}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "u@x.com", claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestJWTValidateRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "u@x.com"}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("other", time.Hour).Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewJWTManager("secret", -time.Minute).Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := m.Generate(&models.User{Email: "u@x.com"})
		require.NoError(t, err)
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
