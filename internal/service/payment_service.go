package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/storage"
)

// LogPaymentInput carries the fields of a payment being logged.
type LogPaymentInput struct {
	GroupID string
	Amount  float64
	Method  string
	Details string
	// PayerEmail names the invitee to reconcile. It is honored only when the
	// caller is the group admin; everyone else reconciles their own email.
	PayerEmail string
}

// LoggedPayment is the result of LogPayment.
type LoggedPayment struct {
	Payment *models.Payment
	// Reconciled is the invitee email moved to Paid, or empty.
	Reconciled string
}

// PaymentService manages the append-only payment ledger.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a new PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// LogPayment records an immutable payment by the caller and, best effort,
// marks the paying invitee Paid in the referenced group. The insert and the
// invitee update commit together.
func (s *PaymentService) LogPayment(ctx context.Context, payerID string, in LogPaymentInput) (*LoggedPayment, error) {
	slog.Info("LogPayment request received",
		"group_id", in.GroupID,
		"payer_id", payerID,
		"amount", in.Amount,
		"method", in.Method,
	)

	payment, err := models.NewPayment(in.GroupID, payerID, in.Amount, in.Method, in.Details)
	if err != nil {
		return nil, validationError(err.Error(), err)
	}

	reconcileEmail, err := s.reconcileTarget(ctx, payerID, in)
	if err != nil {
		slog.Error("LogPayment failed - could not resolve payer", "payer_id", payerID, "error", err)
		return nil, internalError("Failed to log payment", err)
	}

	reconciled, err := s.store.RecordPayment(ctx, payment, reconcileEmail)
	if err != nil {
		slog.Error("LogPayment failed", "group_id", in.GroupID, "error", err)
		return nil, internalError("Failed to log payment", err)
	}

	result := &LoggedPayment{Payment: payment}
	if reconciled {
		result.Reconciled = reconcileEmail
	}

	slog.Info("Payment logged",
		"payment_id", payment.ID,
		"group_id", payment.GroupID,
		"reconciled", result.Reconciled,
	)
	return result, nil
}

// reconcileTarget picks the invitee email a payment should settle. The group
// admin may name any invitee; other callers can only settle their own entry.
func (s *PaymentService) reconcileTarget(ctx context.Context, payerID string, in LogPaymentInput) (string, error) {
	payer, err := s.store.GetUserByID(ctx, payerID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if in.PayerEmail == "" || in.PayerEmail == payer.Email {
		return payer.Email, nil
	}

	group, err := s.store.GetGroup(ctx, in.GroupID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if group.IsAdmin(payerID) {
		return in.PayerEmail, nil
	}

	slog.Warn("Ignoring payer_email from non-admin caller",
		"group_id", in.GroupID,
		"payer_id", payerID,
		"payer_email", in.PayerEmail,
	)
	return payer.Email, nil
}

// ListPaymentsForGroup returns every payment referencing the group.
func (s *PaymentService) ListPaymentsForGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	slog.Info("ListPaymentsForGroup request received", "group_id", groupID)

	payments, err := s.store.ListPaymentsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListPaymentsForGroup failed", "group_id", groupID, "error", err)
		return nil, internalError("Failed to list payments", err)
	}
	return payments, nil
}

// ListPaymentsForUser returns every payment logged by the payer.
func (s *PaymentService) ListPaymentsForUser(ctx context.Context, payerID string) ([]*models.Payment, error) {
	slog.Info("ListPaymentsForUser request received", "payer_id", payerID)

	payments, err := s.store.ListPaymentsByPayer(ctx, payerID)
	if err != nil {
		slog.Error("ListPaymentsForUser failed", "payer_id", payerID, "error", err)
		return nil, internalError("Failed to list payments", err)
	}
	return payments, nil
}
