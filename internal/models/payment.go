package models

import (
	"fmt"
	"time"
)

// Payment records one payer's contribution toward a group.
// Payments are immutable once created.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group this payment is for. It is a weak reference:
	// the group is not required to exist.
	GroupID string

	// PayerID is the user who logged the payment.
	PayerID string

	// Amount is the amount paid.
	Amount float64

	// Method is a free-form tag such as "manual" or "venmo".
	Method string

	// Details is optional free-form text, e.g. a transaction reference.
	Details string

	// PaymentDate is the Unix timestamp when the payment was logged.
	PaymentDate int64
}

// NewPayment validates the required fields and stamps the payment with the
// current time.
func NewPayment(groupID, payerID string, amount float64, method, details string) (*Payment, error) {
	switch {
	case groupID == "":
		return nil, fmt.Errorf("%w: group_id is required", ErrValidation)
	case payerID == "":
		return nil, fmt.Errorf("%w: payer is required", ErrValidation)
	case method == "":
		return nil, fmt.Errorf("%w: method is required", ErrValidation)
	case !validAmount(amount):
		return nil, fmt.Errorf("%w: amount must be a non-negative number no greater than %.0f", ErrValidation, MaxAmount)
	}

	return &Payment{
		GroupID:     groupID,
		PayerID:     payerID,
		Amount:      amount,
		Method:      method,
		Details:     details,
		PaymentDate: time.Now().Unix(),
	}, nil
}
