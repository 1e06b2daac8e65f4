package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/storage/memory"
)

func TestPasswordAuthenticator(t *testing.T) {
	store := memory.New()
	a := NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	ctx := context.Background()

	user, err := a.Register(ctx, "u@x.com", "Una", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	got, err := a.Authenticate(ctx, "u@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = a.Authenticate(ctx, "u@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody@x.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Register(ctx, "u@x.com", "", "password456")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = a.Register(ctx, "v@x.com", "", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestAuthenticateSocialAccount(t *testing.T) {
	store := memory.New()
	a := NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	ctx := context.Background()

	social, err := models.NewSocialUser("g@x.com", "Gee", models.SocialGoogle)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, social))

	_, err = a.Authenticate(ctx, "g@x.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
