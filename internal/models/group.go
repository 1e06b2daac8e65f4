package models

import (
	"fmt"
	"time"
)

// InviteeStatus is the payment status of one invited member.
type InviteeStatus string

const (
	StatusPending InviteeStatus = "Pending"
	StatusPaid    InviteeStatus = "Paid"
)

// Invitee is one member invited to a group by email.
// Invitees are embedded in a SubscriptionGroup and have no identity of their own.
type Invitee struct {
	Email  string
	Status InviteeStatus
}

// SubscriptionGroup represents a shared subscription split among its members.
type SubscriptionGroup struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// AdminID is the user who created the group. It never changes.
	AdminID string

	// ServiceName is the subscribed service (e.g., "Netflix").
	ServiceName string

	// Cost is the total cost of the subscription per billing period.
	Cost float64

	// DueDate is the next payment due date as supplied by the admin
	// (e.g., "2025-03-01").
	DueDate string

	// Invitees is the ordered list of invited members.
	Invitees []Invitee

	// Paid is set once the admin marks the whole group as paid.
	Paid bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// PaidAt is the Unix timestamp when the group was marked paid, or 0.
	PaidAt int64
}

// NewSubscriptionGroup validates the required fields and builds a new group
// with every invitee Pending. Duplicate emails in the initial list are kept
// in order; only later invites are de-duplicated.
func NewSubscriptionGroup(adminID, serviceName string, cost float64, dueDate string, emails []string) (*SubscriptionGroup, error) {
	switch {
	case adminID == "":
		return nil, fmt.Errorf("%w: admin is required", ErrValidation)
	case serviceName == "":
		return nil, fmt.Errorf("%w: service_name is required", ErrValidation)
	case dueDate == "":
		return nil, fmt.Errorf("%w: due_date is required", ErrValidation)
	case !validAmount(cost):
		return nil, fmt.Errorf("%w: cost must be a non-negative amount no greater than %.0f", ErrValidation, MaxAmount)
	}
	if err := validateEmails(emails); err != nil {
		return nil, err
	}

	invitees := make([]Invitee, len(emails))
	for i, email := range emails {
		invitees[i] = Invitee{Email: email, Status: StatusPending}
	}

	return &SubscriptionGroup{
		AdminID:     adminID,
		ServiceName: serviceName,
		Cost:        cost,
		DueDate:     dueDate,
		Invitees:    invitees,
		CreatedAt:   time.Now().Unix(),
	}, nil
}

// IsAdmin reports whether userID owns the group.
func (g *SubscriptionGroup) IsAdmin(userID string) bool {
	return userID != "" && g.AdminID == userID
}

// HasInvitee reports whether email is already invited.
func (g *SubscriptionGroup) HasInvitee(email string) bool {
	for _, inv := range g.Invitees {
		if inv.Email == email {
			return true
		}
	}
	return false
}

// NewInvitees returns Pending invitees for the emails that are not yet in the
// group, dropping duplicates within emails as well.
func (g *SubscriptionGroup) NewInvitees(emails []string) []Invitee {
	seen := make(map[string]bool, len(g.Invitees)+len(emails))
	for _, inv := range g.Invitees {
		seen[inv.Email] = true
	}
	var added []Invitee
	for _, email := range emails {
		if seen[email] {
			continue
		}
		seen[email] = true
		added = append(added, Invitee{Email: email, Status: StatusPending})
	}
	return added
}

// MarkPaid flags the group paid and moves every invitee to Paid.
func (g *SubscriptionGroup) MarkPaid(at int64) {
	g.Paid = true
	g.PaidAt = at
	for i := range g.Invitees {
		g.Invitees[i].Status = StatusPaid
	}
}

// MarkInviteePaid moves every invitee entry with the given email to Paid.
// Returns false if no such invitee exists.
func (g *SubscriptionGroup) MarkInviteePaid(email string) bool {
	found := false
	for i := range g.Invitees {
		if g.Invitees[i].Email == email {
			g.Invitees[i].Status = StatusPaid
			found = true
		}
	}
	return found
}

// InviteeEmails returns the invitee emails in order.
func (g *SubscriptionGroup) InviteeEmails() []string {
	emails := make([]string, len(g.Invitees))
	for i, inv := range g.Invitees {
		emails[i] = inv.Email
	}
	return emails
}

// ValidateInviteList checks a list of emails supplied for an invite.
func ValidateInviteList(emails []string) error {
	return validateEmails(emails)
}

func validateEmails(emails []string) error {
	if emails == nil {
		return fmt.Errorf("%w: invitees is required", ErrValidation)
	}
	for i, email := range emails {
		if email == "" {
			return fmt.Errorf("%w: invitee %d has an empty email", ErrValidation, i)
		}
	}
	return nil
}
