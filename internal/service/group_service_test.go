package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/storage/memory"
)

// createUser stores a password-less user directly, bypassing signup.
func createUser(t *testing.T, store *memory.Store, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "", "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, KindOf(err), "error: %v", err)
}

func netflixInput(invitees ...string) CreateGroupInput {
	if invitees == nil {
		invitees = []string{}
	}
	return CreateGroupInput{
		ServiceName: "Netflix",
		Cost:        15.99,
		DueDate:     "2025-03-01",
		Invitees:    invitees,
	}
}

func TestCreateGroup(t *testing.T) {
	store := memory.New()
	svc := NewGroupService(store)
	admin := createUser(t, store, "admin@x.com")

	group, err := svc.CreateGroup(context.Background(), admin.ID, netflixInput("a@x.com", "b@x.com"))
	require.NoError(t, err)

	assert.NotEmpty(t, group.ID)
	assert.Equal(t, admin.ID, group.AdminID)
	assert.False(t, group.Paid)
	require.Len(t, group.Invitees, 2)
	for _, inv := range group.Invitees {
		assert.Equal(t, models.StatusPending, inv.Status)
	}

	stored, err := svc.GetGroup(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.InviteeEmails(), stored.InviteeEmails())
}

func TestCreateGroupKeepsDuplicateInvitees(t *testing.T) {
	store := memory.New()
	svc := NewGroupService(store)
	admin := createUser(t, store, "admin@x.com")

	group, err := svc.CreateGroup(context.Background(), admin.ID, netflixInput("a@x.com", "a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "a@x.com"}, group.InviteeEmails())
}

func TestCreateGroupValidation(t *testing.T) {
	store := memory.New()
	svc := NewGroupService(store)
	admin := createUser(t, store, "admin@x.com")

	tests := []struct {
		name string
		in   CreateGroupInput
	}{
		{"missing service name", CreateGroupInput{Cost: 1, DueDate: "d", Invitees: []string{}}},
		{"missing due date", CreateGroupInput{ServiceName: "s", Cost: 1, Invitees: []string{}}},
		{"missing invitees", CreateGroupInput{ServiceName: "s", Cost: 1, DueDate: "d"}},
		{"negative cost", CreateGroupInput{ServiceName: "s", Cost: -5, DueDate: "d", Invitees: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateGroup(context.Background(), admin.ID, tt.in)
			assertKind(t, err, KindValidation)
		})
	}
}

func TestInviteMembers(t *testing.T) {
	store := memory.New()
	svc := NewGroupService(store)
	admin := createUser(t, store, "admin@x.com")
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, admin.ID, netflixInput("a@x.com"))
	require.NoError(t, err)

	added, err := svc.InviteMembers(ctx, admin.ID, group.ID, []string{"a@x.com", "c@x.com", "c@x.com"})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, models.Invitee{Email: "c@x.com", Status: models.StatusPending}, added[0])

	group, err = svc.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "c@x.com"}, group.InviteeEmails())

	t.Run("nothing new", func(t *testing.T) {
		added, err := svc.InviteMembers(ctx, admin.ID, group.ID, []string{"a@x.com"})
		require.NoError(t, err)
		assert.Empty(t, added)
		assert.NotNil(t, added)
	})

	t.Run("non-admin rejected", func(t *testing.T) {
		other := createUser(t, store, "other@x.com")
		_, err := svc.InviteMembers(ctx, other.ID, group.ID, []string{"d@x.com"})
		assertKind(t, err, KindAuthorization)

		group, err := svc.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.False(t, group.HasInvitee("d@x.com"))
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := svc.InviteMembers(ctx, admin.ID, "missing", []string{"d@x.com"})
		assertKind(t, err, KindNotFound)
	})

	t.Run("missing list", func(t *testing.T) {
		_, err := svc.InviteMembers(ctx, admin.ID, group.ID, nil)
		assertKind(t, err, KindValidation)
	})
}

func TestMarkPaid(t *testing.T) {
	store := memory.New()
	svc := NewGroupService(store)
	admin := createUser(t, store, "admin@x.com")
	other := createUser(t, store, "a@x.com")
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, admin.ID, netflixInput("a@x.com", "b@x.com"))
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, other.ID, group.ID)
	assertKind(t, err, KindAuthorization)

	unchanged, err := svc.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.False(t, unchanged.Paid)
	assert.Zero(t, unchanged.PaidAt)
	for _, inv := range unchanged.Invitees {
		assert.Equal(t, models.StatusPending, inv.Status)
	}

	paid, err := svc.MarkPaid(ctx, admin.ID, group.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.NotZero(t, paid.PaidAt)
	for _, inv := range paid.Invitees {
		assert.Equal(t, models.StatusPaid, inv.Status)
	}

	_, err = svc.MarkPaid(ctx, admin.ID, "missing")
	assertKind(t, err, KindNotFound)
}

func TestGetGroupNotFound(t *testing.T) {
	svc := NewGroupService(memory.New())
	_, err := svc.GetGroup(context.Background(), "missing")
	assertKind(t, err, KindNotFound)
}

func TestListGroupsForUser(t *testing.T) {
	store := memory.New()
	svc := NewGroupService(store)
	admin := createUser(t, store, "admin@x.com")
	invitee := createUser(t, store, "a@x.com")
	outsider := createUser(t, store, "z@x.com")
	ctx := context.Background()

	g1, err := svc.CreateGroup(ctx, admin.ID, netflixInput("a@x.com"))
	require.NoError(t, err)
	g2, err := svc.CreateGroup(ctx, admin.ID, netflixInput())
	require.NoError(t, err)

	groups, err := svc.ListGroupsForUser(ctx, admin.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{g1.ID, g2.ID}, groupIDs(groups))

	groups, err = svc.ListGroupsForUser(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{g1.ID}, groupIDs(groups))

	groups, err = svc.ListGroupsForUser(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	groups, err = svc.ListGroupsForUser(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupBalances(t *testing.T) {
	store := memory.New()
	groups := NewGroupService(store)
	payments := NewPaymentService(store)
	admin := createUser(t, store, "admin@x.com")
	a := createUser(t, store, "a@x.com")
	ctx := context.Background()

	group, err := groups.CreateGroup(ctx, admin.ID, CreateGroupInput{
		ServiceName: "Spotify",
		Cost:        30,
		DueDate:     "2025-03-01",
		Invitees:    []string{"a@x.com", "b@x.com"},
	})
	require.NoError(t, err)

	_, err = payments.LogPayment(ctx, a.ID, LogPaymentInput{GroupID: group.ID, Amount: 10, Method: "manual"})
	require.NoError(t, err)

	balances, err := groups.GroupBalances(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, balances.Members, 3)

	byMember := make(map[string]float64)
	for _, m := range balances.Members {
		byMember[m.Member] = m.Outstanding
	}
	assert.InDelta(t, 0, byMember["a@x.com"], 0.001)
	assert.InDelta(t, 10, byMember["b@x.com"], 0.001)
	require.Len(t, balances.Debts, 1)
	assert.Equal(t, "b@x.com", balances.Debts[0].From)
	assert.Equal(t, "admin@x.com", balances.Debts[0].To)

	_, err = groups.GroupBalances(ctx, "missing")
	assertKind(t, err, KindNotFound)
}

func TestGroupBalancesAfterMarkPaid(t *testing.T) {
	store := memory.New()
	groups := NewGroupService(store)
	admin := createUser(t, store, "admin@x.com")
	ctx := context.Background()

	group, err := groups.CreateGroup(ctx, admin.ID, netflixInput("a@x.com", "b@x.com"))
	require.NoError(t, err)
	_, err = groups.MarkPaid(ctx, admin.ID, group.ID)
	require.NoError(t, err)

	balances, err := groups.GroupBalances(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, balances.Debts)
	for _, m := range balances.Members {
		assert.Zero(t, m.Outstanding, m.Member)
	}
}

func TestGroupBalancesReconciledPartialPayment(t *testing.T) {
	store := memory.New()
	groups := NewGroupService(store)
	payments := NewPaymentService(store)
	admin := createUser(t, store, "admin@x.com")
	alice := createUser(t, store, "a@x.com")
	ctx := context.Background()

	group, err := groups.CreateGroup(ctx, admin.ID, netflixInput("a@x.com", "b@x.com"))
	require.NoError(t, err)

	// Alice pays less than her share but is still reconciled to Paid.
	_, err = payments.LogPayment(ctx, alice.ID, LogPaymentInput{GroupID: group.ID, Amount: 1, Method: "manual"})
	require.NoError(t, err)

	balances, err := groups.GroupBalances(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, balances.Debts, 1)
	assert.Equal(t, "b@x.com", balances.Debts[0].From)
}

func groupIDs(groups []*models.SubscriptionGroup) []string {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return ids
}
