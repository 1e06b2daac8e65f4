package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/subshare/internal/auth"
	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/storage"
)

// AuthService issues bearer tokens from credentials or a federated identity.
type AuthService struct {
	authenticator auth.Authenticator
	users         storage.UserStore
	jwtManager    *auth.JWTManager
	provider      auth.IdentityProvider
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. provider may be nil
// when federated login is not configured.
func NewAuthService(authenticator auth.Authenticator, users storage.UserStore, jwtManager *auth.JWTManager, provider auth.IdentityProvider, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		users:         users,
		jwtManager:    jwtManager,
		provider:      provider,
		logger:        logger,
	}
}

// SignUp creates a new password account.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	s.logger.Info("Signup request", "email", email)

	if email == "" || password == "" {
		return nil, validationError("Email and password are required", nil)
	}

	user, err := s.authenticator.Register(ctx, email, "", password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, newError(KindConflict, "User already exists", err)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, validationError(err.Error(), err)
		default:
			return nil, internalError("Failed to create user", err)
		}
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	s.logger.Info("Login request", "email", email)

	if email == "" || password == "" {
		return "", validationError("Email and password are required", nil)
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return "", newError(KindAuthentication, "Invalid email or password", err)
		}
		return "", internalError("Failed to log in", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", internalError("Failed to log in", err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return token, nil
}

// FederatedLoginURL returns the provider consent page URL for state.
func (s *AuthService) FederatedLoginURL(state string) (string, error) {
	if s.provider == nil {
		return "", internalError("Google login is not configured", nil)
	}
	return s.provider.AuthCodeURL(state), nil
}

// CompleteFederatedLogin exchanges the provider's authorization code, finds
// or creates the user by the asserted email, and returns a bearer token.
// Every failure is reported as KindFederation.
func (s *AuthService) CompleteFederatedLogin(ctx context.Context, code string) (string, error) {
	if s.provider == nil {
		return "", newError(KindFederation, "Google login is not configured", nil)
	}
	if code == "" {
		return "", newError(KindFederation, "Failed to authorize with Google", errors.New("missing authorization code"))
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("Federated login failed", "provider", s.provider.Name(), "error", err)
		return "", newError(KindFederation, "Failed to authorize with Google", err)
	}
	if identity.Email == "" {
		return "", newError(KindFederation, "Google account has no email associated", auth.ErrNoEmail)
	}
	if !identity.EmailVerified {
		return "", newError(KindFederation, "Google account email is not verified", auth.ErrFederatedLogin)
	}

	user, err := s.findOrCreateSocialUser(ctx, identity)
	if err != nil {
		s.logger.Error("Federated login failed", "email", identity.Email, "error", err)
		return "", newError(KindFederation, "Failed to authorize with Google", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", newError(KindFederation, "Failed to authorize with Google", err)
	}

	s.logger.Info("Federated login successful", "user_id", user.ID, "provider", identity.Provider)
	return token, nil
}

func (s *AuthService) findOrCreateSocialUser(ctx context.Context, identity *auth.FederatedIdentity) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	user, err = models.NewSocialUser(identity.Email, identity.Name, identity.Provider)
	if err != nil {
		return nil, err
	}
	err = s.users.CreateUser(ctx, user)
	if errors.Is(err, storage.ErrDuplicateEmail) {
		// Lost a race with a concurrent first login for the same email.
		return s.users.GetUserByEmail(ctx, identity.Email)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created from federated login", "user_id", user.ID, "provider", identity.Provider)
	return user, nil
}
