// Package memory provides an in-process implementation of storage.Store.
// It is used by tests and by the server when no database path is configured.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every record in maps guarded by a single mutex.
// Returned records are copies, so callers can never mutate stored state.
type Store struct {
	mu sync.RWMutex

	users      map[string]*models.User
	groups     map[string]*models.SubscriptionGroup
	groupOrder []string
	payments   []*models.Payment
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:  make(map[string]*models.User),
		groups: make(map[string]*models.SubscriptionGroup),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, "") {
		return storage.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	if user.UpdatedAt == 0 {
		user.UpdatedAt = user.CreatedAt
	}
	c := *user
	s.users[user.ID] = &c
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, storage.ErrNotFound)
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			c := *u
			out[id] = &c
		}
	}
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, storage.ErrNotFound)
	}
	if s.emailTaken(user.Email, user.ID) {
		return storage.ErrDuplicateEmail
	}
	user.UpdatedAt = time.Now().Unix()
	existing.Email = user.Email
	existing.DisplayName = user.DisplayName
	existing.Social = user.Social
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

// emailTaken must be called with mu held.
func (s *Store) emailTaken(email, exceptID string) bool {
	for id, u := range s.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) CreateGroup(_ context.Context, group *models.SubscriptionGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[group.AdminID]; !ok {
		return fmt.Errorf("admin %s: %w", group.AdminID, storage.ErrNotFound)
	}
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	s.groups[group.ID] = cloneGroup(group)
	s.groupOrder = append(s.groupOrder, group.ID)
	return nil
}

func (s *Store) GetGroup(_ context.Context, groupID string) (*models.SubscriptionGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return cloneGroup(g), nil
}

func (s *Store) AddInvitees(_ context.Context, groupID string, emails []string) ([]models.Invitee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	added := g.NewInvitees(emails)
	g.Invitees = append(g.Invitees, added...)
	return added, nil
}

func (s *Store) MarkGroupPaid(_ context.Context, groupID string, paidAt int64) (*models.SubscriptionGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	g.MarkPaid(paidAt)
	return cloneGroup(g), nil
}

func (s *Store) ListGroupsForUser(_ context.Context, userID, email string) ([]*models.SubscriptionGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := []*models.SubscriptionGroup{}
	for _, id := range s.groupOrder {
		g := s.groups[id]
		if g.AdminID == userID || (email != "" && g.HasInvitee(email)) {
			groups = append(groups, cloneGroup(g))
		}
	}
	return groups, nil
}

func (s *Store) RecordPayment(_ context.Context, payment *models.Payment, reconcileEmail string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.PaymentDate == 0 {
		payment.PaymentDate = time.Now().Unix()
	}
	c := *payment
	s.payments = append(s.payments, &c)

	if reconcileEmail == "" {
		return false, nil
	}
	g, ok := s.groups[payment.GroupID]
	if !ok {
		return false, nil
	}
	return g.MarkInviteePaid(reconcileEmail), nil
}

func (s *Store) ListPaymentsByGroup(_ context.Context, groupID string) ([]*models.Payment, error) {
	return s.filterPayments(func(p *models.Payment) bool { return p.GroupID == groupID }), nil
}

func (s *Store) ListPaymentsByPayer(_ context.Context, payerID string) ([]*models.Payment, error) {
	return s.filterPayments(func(p *models.Payment) bool { return p.PayerID == payerID }), nil
}

func (s *Store) filterPayments(keep func(*models.Payment) bool) []*models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Payment{}
	for _, p := range s.payments {
		if keep(p) {
			c := *p
			out = append(out, &c)
		}
	}
	return out
}

func cloneGroup(g *models.SubscriptionGroup) *models.SubscriptionGroup {
	c := *g
	c.Invitees = append([]models.Invitee{}, g.Invitees...)
	return &c
}
