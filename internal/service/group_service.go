package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/subshare/internal/calculator"
	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/storage"
)

// CreateGroupInput carries the fields of a new subscription group.
type CreateGroupInput struct {
	ServiceName string
	Cost        float64
	DueDate     string
	Invitees    []string
}

// GroupBalances is the per-member payment position of one group.
type GroupBalances struct {
	GroupID string
	Members []calculator.MemberBalance
	Debts   []calculator.DebtEdge
}

// GroupService manages the subscription-group lifecycle.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group administered by the caller, with every
// invitee Pending and the group unpaid.
func (s *GroupService) CreateGroup(ctx context.Context, callerID string, in CreateGroupInput) (*models.SubscriptionGroup, error) {
	slog.Info("CreateGroup request received",
		"admin_id", callerID,
		"service_name", in.ServiceName,
		"invitees_count", len(in.Invitees),
	)

	group, err := models.NewSubscriptionGroup(callerID, in.ServiceName, in.Cost, in.DueDate, in.Invitees)
	if err != nil {
		return nil, validationError(err.Error(), err)
	}

	if _, err := s.store.GetUserByID(ctx, callerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundError("User not found", err)
		}
		return nil, internalError("Failed to create subscription group", err)
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, internalError("Failed to create subscription group", err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return group, nil
}

// InviteMembers appends the emails not yet in the group and returns the
// invitees actually added. Only the admin may invite.
func (s *GroupService) InviteMembers(ctx context.Context, callerID, groupID string, emails []string) ([]models.Invitee, error) {
	slog.Info("InviteMembers request received", "group_id", groupID, "invitees_count", len(emails))

	if err := models.ValidateInviteList(emails); err != nil {
		return nil, validationError("Missing invitees field", err)
	}

	if _, err := s.adminGroup(ctx, callerID, groupID, "Only the group admin can invite new members"); err != nil {
		return nil, err
	}

	added, err := s.store.AddInvitees(ctx, groupID, emails)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundError("Subscription group not found", err)
		}
		slog.Error("InviteMembers failed", "group_id", groupID, "error", err)
		return nil, internalError("Failed to invite members", err)
	}
	if added == nil {
		added = []models.Invitee{}
	}

	slog.Info("Invitees added", "group_id", groupID, "added_count", len(added))
	return added, nil
}

// GetGroup retrieves a group by ID. Any authenticated caller may read any group.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.SubscriptionGroup, error) {
	slog.Info("GetGroup request received", "group_id", groupID)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundError("Subscription group not found", err)
		}
		slog.Error("GetGroup failed", "group_id", groupID, "error", err)
		return nil, internalError("Failed to get subscription group", err)
	}

	return group, nil
}

// MarkPaid flags the group paid and moves every invitee to Paid, overwriting
// any partial payment state. Only the admin may mark a group paid.
func (s *GroupService) MarkPaid(ctx context.Context, callerID, groupID string) (*models.SubscriptionGroup, error) {
	slog.Info("MarkPaid request received", "group_id", groupID)

	if _, err := s.adminGroup(ctx, callerID, groupID, "Only the group admin can mark the subscription as paid"); err != nil {
		return nil, err
	}

	group, err := s.store.MarkGroupPaid(ctx, groupID, time.Now().Unix())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundError("Subscription group not found", err)
		}
		slog.Error("MarkPaid failed", "group_id", groupID, "error", err)
		return nil, internalError("Failed to mark subscription as paid", err)
	}

	slog.Info("Group marked paid", "group_id", groupID, "invitees_count", len(group.Invitees))
	return group, nil
}

// ListGroupsForUser returns the groups the user administers or is invited to.
// An unknown user yields an empty list.
func (s *GroupService) ListGroupsForUser(ctx context.Context, userID string) ([]*models.SubscriptionGroup, error) {
	slog.Info("ListGroupsForUser request received", "user_id", userID)

	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return []*models.SubscriptionGroup{}, nil
	}
	if err != nil {
		slog.Error("ListGroupsForUser failed", "user_id", userID, "error", err)
		return nil, internalError("Failed to list subscriptions", err)
	}

	groups, err := s.store.ListGroupsForUser(ctx, user.ID, user.Email)
	if err != nil {
		slog.Error("ListGroupsForUser failed", "user_id", userID, "error", err)
		return nil, internalError("Failed to list subscriptions", err)
	}

	slog.Info("ListGroupsForUser successful", "user_id", userID, "count", len(groups))
	return groups, nil
}

// GroupBalances calculates each member's share of the group cost against
// the payments logged for the group. Invitees marked Paid owe nothing.
func (s *GroupService) GroupBalances(ctx context.Context, groupID string) (*GroupBalances, error) {
	slog.Info("GroupBalances request received", "group_id", groupID)

	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("GroupBalances failed - could not list payments", "group_id", groupID, "error", err)
		return nil, internalError("Failed to calculate balances", err)
	}

	// Members are keyed by email, payments by payer ID.
	ids := []string{group.AdminID}
	for _, p := range payments {
		ids = append(ids, p.PayerID)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.Error("GroupBalances failed - could not resolve users", "group_id", groupID, "error", err)
		return nil, internalError("Failed to calculate balances", err)
	}

	admin, ok := users[group.AdminID]
	if !ok {
		return nil, internalError("Failed to calculate balances", errors.New("group admin no longer exists"))
	}

	var forBalance []calculator.PaymentForBalance
	for _, p := range payments {
		if payer, ok := users[p.PayerID]; ok {
			forBalance = append(forBalance, calculator.PaymentForBalance{Member: payer.Email, Amount: p.Amount})
		}
	}

	var settled []string
	for _, inv := range group.Invitees {
		if inv.Status == models.StatusPaid {
			settled = append(settled, inv.Email)
		}
	}

	members, debts, err := calculator.CalculateGroupBalances(calculator.GroupForBalance{
		Cost:     group.Cost,
		Admin:    admin.Email,
		Invitees: group.InviteeEmails(),
		Settled:  settled,
		Paid:     group.Paid,
	}, forBalance)
	if err != nil {
		slog.Error("GroupBalances failed - calculation error", "group_id", groupID, "error", err)
		return nil, internalError("Failed to calculate balances", err)
	}

	slog.Info("GroupBalances successful",
		"group_id", groupID,
		"payments_count", len(payments),
		"members_count", len(members),
		"debts_count", len(debts),
	)

	return &GroupBalances{GroupID: groupID, Members: members, Debts: debts}, nil
}

// adminGroup loads the group and checks that callerID administers it.
func (s *GroupService) adminGroup(ctx context.Context, callerID, groupID, deniedMsg string) (*models.SubscriptionGroup, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsAdmin(callerID) {
		slog.Warn("Non-admin mutation rejected", "group_id", groupID, "caller_id", callerID)
		return nil, newError(KindAuthorization, deniedMsg, nil)
	}
	return group, nil
}
