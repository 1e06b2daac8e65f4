// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/subshare/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user write would violate email
	// uniqueness.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. The user.ID field is populated by the
	// store if empty. Returns ErrDuplicateEmail if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by exact email match.
	// Returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID.
	// Users that don't exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// UpdateUser overwrites the mutable profile fields (email, display name)
	// of an existing user. Returns ErrNotFound or ErrDuplicateEmail.
	UpdateUser(ctx context.Context, user *models.User) error
}

// GroupStore persists subscription groups and their invitees.
type GroupStore interface {
	// CreateGroup persists a new group with its invitees.
	// The group.ID field is populated by the store if empty.
	CreateGroup(ctx context.Context, group *models.SubscriptionGroup) error

	// GetGroup retrieves a group with its invitees in order.
	// Returns ErrNotFound if absent.
	GetGroup(ctx context.Context, groupID string) (*models.SubscriptionGroup, error)

	// AddInvitees appends the emails that are not yet invited, as Pending,
	// and returns the invitees actually added. The read and the write happen
	// atomically. Returns ErrNotFound if the group is absent.
	AddInvitees(ctx context.Context, groupID string, emails []string) ([]models.Invitee, error)

	// MarkGroupPaid sets the paid flag and timestamp and moves every invitee
	// to Paid in one atomic update, returning the refreshed group.
	// Returns ErrNotFound if absent.
	MarkGroupPaid(ctx context.Context, groupID string, paidAt int64) (*models.SubscriptionGroup, error)

	// ListGroupsForUser returns groups where userID is the admin or email is
	// among the invitees, ordered by creation time.
	ListGroupsForUser(ctx context.Context, userID, email string) ([]*models.SubscriptionGroup, error)
}

// PaymentStore persists the payment ledger.
type PaymentStore interface {
	// RecordPayment inserts an immutable payment. When reconcileEmail is
	// non-empty, the invitee with that email in the payment's group is moved
	// to Paid in the same transaction. The returned flag reports whether an
	// invitee was reconciled; a missing group or invitee is not an error.
	RecordPayment(ctx context.Context, payment *models.Payment, reconcileEmail string) (bool, error)

	// ListPaymentsByGroup returns all payments referencing groupID,
	// oldest first.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// ListPaymentsByPayer returns all payments logged by payerID,
	// oldest first.
	ListPaymentsByPayer(ctx context.Context, payerID string) ([]*models.Payment, error)
}

// Store defines the full persistence context handed to the services.
// This abstraction allows swapping storage backends (SQLite, in-memory, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	PaymentStore

	// Close releases any resources held by the store.
	Close() error
}
