package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/storage"
)

// CreateGroup persists a new group and its invitees in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.SubscriptionGroup) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var paidAt any
		if group.PaidAt != 0 {
			paidAt = group.PaidAt
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO subscription_groups (id, admin_id, service_name, cost, due_date, paid, created_at, paid_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			group.ID, group.AdminID, group.ServiceName, group.Cost, group.DueDate,
			group.Paid, group.CreatedAt, paidAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		return insertInvitees(ctx, tx, group.ID, 0, group.Invitees)
	})
}

// GetGroup retrieves a group by ID, including its invitees in order.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.SubscriptionGroup, error) {
	return getGroup(ctx, s.db, groupID)
}

// AddInvitees appends the emails not already invited to the group.
func (s *SQLiteStore) AddInvitees(ctx context.Context, groupID string, emails []string) ([]models.Invitee, error) {
	var added []models.Invitee

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		group, err := getGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}

		added = group.NewInvitees(emails)
		return insertInvitees(ctx, tx, groupID, len(group.Invitees), added)
	})
	if err != nil {
		return nil, err
	}

	return added, nil
}

// MarkGroupPaid flags the group paid and moves every invitee to Paid.
func (s *SQLiteStore) MarkGroupPaid(ctx context.Context, groupID string, paidAt int64) (*models.SubscriptionGroup, error) {
	var group *models.SubscriptionGroup

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE subscription_groups SET paid = 1, paid_at = ? WHERE id = ?`,
			paidAt, groupID,
		)
		if err != nil {
			return fmt.Errorf("failed to mark group paid: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check updated rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE group_invitees SET status = ? WHERE group_id = ?`,
			string(models.StatusPaid), groupID,
		)
		if err != nil {
			return fmt.Errorf("failed to mark invitees paid: %w", err)
		}

		group, err = getGroup(ctx, tx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// ListGroupsForUser returns groups administered by userID or inviting email.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID, email string) ([]*models.SubscriptionGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM subscription_groups
		 WHERE admin_id = ?
		    OR id IN (SELECT group_id FROM group_invitees WHERE email = ?)
		 ORDER BY created_at, rowid`,
		userID, email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user: %w", err)
	}

	// Collect IDs first: the pool has a single connection, so the rows must
	// be closed before the groups are loaded.
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	groups := make([]*models.SubscriptionGroup, 0, len(ids))
	for _, id := range ids {
		group, err := getGroup(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, nil
}

func getGroup(ctx context.Context, q querier, groupID string) (*models.SubscriptionGroup, error) {
	group := &models.SubscriptionGroup{}
	var paidAt sql.NullInt64

	err := q.QueryRowContext(ctx,
		`SELECT id, admin_id, service_name, cost, due_date, paid, created_at, paid_at
		 FROM subscription_groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.AdminID, &group.ServiceName, &group.Cost, &group.DueDate,
		&group.Paid, &group.CreatedAt, &paidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.PaidAt = paidAt.Int64

	rows, err := q.QueryContext(ctx,
		`SELECT email, status FROM group_invitees WHERE group_id = ? ORDER BY position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitees: %w", err)
	}
	defer rows.Close()

	group.Invitees = []models.Invitee{}
	for rows.Next() {
		var inv models.Invitee
		var status string
		if err := rows.Scan(&inv.Email, &status); err != nil {
			return nil, fmt.Errorf("failed to scan invitee: %w", err)
		}
		inv.Status = models.InviteeStatus(status)
		group.Invitees = append(group.Invitees, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitees: %w", err)
	}

	return group, nil
}

func insertInvitees(ctx context.Context, tx *sql.Tx, groupID string, start int, invitees []models.Invitee) error {
	for i, inv := range invitees {
		status := inv.Status
		if status == "" {
			status = models.StatusPending
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_invitees (group_id, position, email, status) VALUES (?, ?, ?, ?)`,
			groupID, start+i, inv.Email, string(status),
		)
		if err != nil {
			return fmt.Errorf("failed to insert invitee: %w", err)
		}
	}
	return nil
}
