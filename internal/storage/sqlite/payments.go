package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/subshare/internal/models"
)

const paymentColumns = `id, group_id, payer_id, amount, method, details, payment_date`

// RecordPayment inserts a payment and, when reconcileEmail is set, marks the
// matching invitee Paid in the same transaction.
func (s *SQLiteStore) RecordPayment(ctx context.Context, payment *models.Payment, reconcileEmail string) (bool, error) {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.PaymentDate == 0 {
		payment.PaymentDate = time.Now().Unix()
	}

	var reconciled bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			payment.ID, payment.GroupID, payment.PayerID, payment.Amount,
			payment.Method, payment.Details, payment.PaymentDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		if reconcileEmail == "" {
			return nil
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE group_invitees SET status = ? WHERE group_id = ? AND email = ?`,
			string(models.StatusPaid), payment.GroupID, reconcileEmail,
		)
		if err != nil {
			return fmt.Errorf("failed to reconcile invitee: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check reconciled rows: %w", err)
		}
		reconciled = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return reconciled, nil
}

// ListPaymentsByGroup retrieves all payments for a group.
func (s *SQLiteStore) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	return s.listPayments(ctx, `group_id = ?`, groupID)
}

// ListPaymentsByPayer retrieves all payments logged by a user.
func (s *SQLiteStore) ListPaymentsByPayer(ctx context.Context, payerID string) ([]*models.Payment, error) {
	return s.listPayments(ctx, `payer_id = ?`, payerID)
}

func (s *SQLiteStore) listPayments(ctx context.Context, where string, arg string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE `+where+` ORDER BY payment_date, rowid`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.GroupID, &p.PayerID, &p.Amount,
			&p.Method, &p.Details, &p.PaymentDate); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
