package auth

import (
	"context"

	"github.com/mmynk/subshare/internal/models"
)

// Authenticator defines the interface for credential-based authentication.
// This abstraction allows swapping between different auth methods (password, passkeys, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

// FederatedIdentity is the verified result of a third-party sign-in.
type FederatedIdentity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// IdentityProvider runs an OAuth 2.0 authorization-code flow against a
// third-party identity provider.
type IdentityProvider interface {
	// Name returns the provider tag stored on users it creates.
	Name() string

	// AuthCodeURL returns the consent page URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a verified identity.
	Exchange(ctx context.Context, code string) (*FederatedIdentity, error)
}
