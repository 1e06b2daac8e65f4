package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/storage/memory"
)

func inviteeStatus(t *testing.T, store *memory.Store, groupID, email string) models.InviteeStatus {
	t.Helper()
	group, err := store.GetGroup(context.Background(), groupID)
	require.NoError(t, err)
	for _, inv := range group.Invitees {
		if inv.Email == email {
			return inv.Status
		}
	}
	t.Fatalf("invitee %s not found", email)
	return ""
}

func TestLogPayment(t *testing.T) {
	store := memory.New()
	groups := NewGroupService(store)
	svc := NewPaymentService(store)
	admin := createUser(t, store, "admin@x.com")
	alice := createUser(t, store, "a@x.com")
	ctx := context.Background()

	group, err := groups.CreateGroup(ctx, admin.ID, netflixInput("a@x.com", "b@x.com"))
	require.NoError(t, err)

	logged, err := svc.LogPayment(ctx, alice.ID, LogPaymentInput{
		GroupID: group.ID,
		Amount:  5.33,
		Method:  "venmo",
		Details: "txn-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.Payment.ID)
	assert.NotZero(t, logged.Payment.PaymentDate)
	assert.Equal(t, alice.ID, logged.Payment.PayerID)
	assert.Equal(t, "a@x.com", logged.Reconciled)

	assert.Equal(t, models.StatusPaid, inviteeStatus(t, store, group.ID, "a@x.com"))
	assert.Equal(t, models.StatusPending, inviteeStatus(t, store, group.ID, "b@x.com"))

	byGroup, err := svc.ListPaymentsForGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, logged.Payment.ID, byGroup[0].ID)

	byPayer, err := svc.ListPaymentsForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, byPayer, 1)
	assert.Equal(t, logged.Payment.ID, byPayer[0].ID)
}

func TestLogPaymentUnknownGroup(t *testing.T) {
	store := memory.New()
	svc := NewPaymentService(store)
	alice := createUser(t, store, "a@x.com")
	ctx := context.Background()

	logged, err := svc.LogPayment(ctx, alice.ID, LogPaymentInput{GroupID: "nope", Amount: 1, Method: "manual"})
	require.NoError(t, err)
	assert.Empty(t, logged.Reconciled)

	payments, err := svc.ListPaymentsForGroup(ctx, "nope")
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestLogPaymentPayerEmail(t *testing.T) {
	store := memory.New()
	groups := NewGroupService(store)
	svc := NewPaymentService(store)
	admin := createUser(t, store, "admin@x.com")
	alice := createUser(t, store, "a@x.com")
	ctx := context.Background()

	group, err := groups.CreateGroup(ctx, admin.ID, netflixInput("a@x.com", "b@x.com"))
	require.NoError(t, err)

	t.Run("ignored for non-admin", func(t *testing.T) {
		logged, err := svc.LogPayment(ctx, alice.ID, LogPaymentInput{
			GroupID: group.ID, Amount: 1, Method: "manual", PayerEmail: "b@x.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", logged.Reconciled)
		assert.Equal(t, models.StatusPending, inviteeStatus(t, store, group.ID, "b@x.com"))
	})

	t.Run("honored for admin", func(t *testing.T) {
		logged, err := svc.LogPayment(ctx, admin.ID, LogPaymentInput{
			GroupID: group.ID, Amount: 1, Method: "manual", PayerEmail: "b@x.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "b@x.com", logged.Reconciled)
		assert.Equal(t, models.StatusPaid, inviteeStatus(t, store, group.ID, "b@x.com"))
	})
}

func TestLogPaymentValidation(t *testing.T) {
	store := memory.New()
	svc := NewPaymentService(store)
	alice := createUser(t, store, "a@x.com")

	tests := []struct {
		name string
		in   LogPaymentInput
	}{
		{"missing group", LogPaymentInput{Amount: 1, Method: "manual"}},
		{"missing method", LogPaymentInput{GroupID: "g", Amount: 1}},
		{"negative amount", LogPaymentInput{GroupID: "g", Amount: -1, Method: "manual"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LogPayment(context.Background(), alice.ID, tt.in)
			assertKind(t, err, KindValidation)
		})
	}
}
