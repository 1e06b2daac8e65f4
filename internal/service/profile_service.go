package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/storage"
)

// Profile fields accepted by UpdateProfile.
const (
	ProfileFieldName   = "name"
	ProfileFieldEmail  = "email"
	ProfileFieldSocial = "social"
)

// ProfileService reads and updates the caller's own user record.
type ProfileService struct {
	users storage.UserStore
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users storage.UserStore) *ProfileService {
	return &ProfileService{users: users}
}

// GetProfile returns the caller's user record with the password hash removed.
func (s *ProfileService) GetProfile(ctx context.Context, callerID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, callerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundError("User not found", err)
	}
	if err != nil {
		slog.Error("GetProfile failed", "user_id", callerID, "error", err)
		return nil, internalError("Failed to load profile", err)
	}
	return user.Sanitized(), nil
}

// UpdateProfile applies a partial update from decoded JSON fields. The
// password can never be changed here. The returned flag is false when the
// update changed nothing.
func (s *ProfileService) UpdateProfile(ctx context.Context, callerID string, fields map[string]any) (*models.User, bool, error) {
	slog.Info("UpdateProfile request received", "user_id", callerID, "fields", fieldNames(fields))

	if _, ok := fields["password"]; ok {
		return nil, false, validationError("Password update not allowed via this endpoint", nil)
	}

	user, err := s.users.GetUserByID(ctx, callerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, notFoundError("User not found", err)
	}
	if err != nil {
		return nil, false, internalError("Failed to update profile", err)
	}

	changed := false
	for _, key := range fieldNames(fields) {
		value, ok := fields[key].(string)
		switch key {
		case ProfileFieldName:
			if !ok {
				return nil, false, validationError("name must be a string", nil)
			}
			if value != user.DisplayName {
				user.DisplayName = value
				changed = true
			}
		case ProfileFieldEmail:
			if !ok || value == "" {
				return nil, false, validationError("email must be a non-empty string", nil)
			}
			if value != user.Email {
				user.Email = value
				changed = true
			}
		case ProfileFieldSocial:
			if !ok {
				return nil, false, validationError("social must be a string", nil)
			}
			if value != user.Social {
				user.Social = value
				changed = true
			}
		default:
			return nil, false, validationError(fmt.Sprintf("Field %q cannot be updated", key), nil)
		}
	}

	if !changed {
		return user.Sanitized(), false, nil
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateEmail):
			return nil, false, newError(KindConflict, "Email already in use", err)
		case errors.Is(err, storage.ErrNotFound):
			return nil, false, notFoundError("User not found", err)
		default:
			slog.Error("UpdateProfile failed", "user_id", callerID, "error", err)
			return nil, false, internalError("Failed to update profile", err)
		}
	}

	slog.Info("Profile updated", "user_id", callerID)
	return user.Sanitized(), true, nil
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
