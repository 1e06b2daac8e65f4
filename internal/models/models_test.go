package models

import (
	"errors"
	"math"
	"testing"
)

func TestNewSubscriptionGroup(t *testing.T) {
	tests := []struct {
		name    string
		admin   string
		service string
		cost    float64
		due     string
		emails  []string
		wantErr bool
	}{
		{"valid", "u1", "Netflix", 15.99, "2025-03-01", []string{"a@x.com"}, false},
		{"empty invitee list", "u1", "Netflix", 0, "2025-03-01", []string{}, false},
		{"missing admin", "", "Netflix", 1, "d", []string{}, true},
		{"missing service", "u1", "", 1, "d", []string{}, true},
		{"missing due date", "u1", "Netflix", 1, "", []string{}, true},
		{"nil invitees", "u1", "Netflix", 1, "d", nil, true},
		{"empty email", "u1", "Netflix", 1, "d", []string{""}, true},
		{"negative cost", "u1", "Netflix", -1, "d", []string{}, true},
		{"NaN cost", "u1", "Netflix", math.NaN(), "d", []string{}, true},
		{"maximum cost", "u1", "Netflix", MaxAmount, "d", []string{}, false},
		{"cost too large", "u1", "Netflix", 1e300, "d", []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewSubscriptionGroup(tt.admin, tt.service, tt.cost, tt.due, tt.emails)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSubscriptionGroup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				return
			}
			for _, inv := range g.Invitees {
				if inv.Status != StatusPending {
					t.Errorf("invitee %s status = %s, want Pending", inv.Email, inv.Status)
				}
			}
		})
	}
}

func TestGroupInvitees(t *testing.T) {
	g, err := NewSubscriptionGroup("u1", "Netflix", 10, "d", []string{"a@x.com", "b@x.com", "a@x.com"})
	if err != nil {
		t.Fatalf("NewSubscriptionGroup failed: %v", err)
	}

	added := g.NewInvitees([]string{"a@x.com", "c@x.com", "c@x.com", "d@x.com"})
	if len(added) != 2 || added[0].Email != "c@x.com" || added[1].Email != "d@x.com" {
		t.Errorf("NewInvitees = %+v, want c and d", added)
	}

	if !g.MarkInviteePaid("a@x.com") {
		t.Fatal("MarkInviteePaid(a) = false")
	}
	if g.Invitees[0].Status != StatusPaid || g.Invitees[2].Status != StatusPaid {
		t.Error("every a@x.com entry should be Paid")
	}
	if g.Invitees[1].Status != StatusPending {
		t.Error("b@x.com should stay Pending")
	}
	if g.MarkInviteePaid("z@x.com") {
		t.Error("MarkInviteePaid on unknown email should return false")
	}

	g.MarkPaid(42)
	if !g.Paid || g.PaidAt != 42 {
		t.Errorf("MarkPaid did not flag group: %+v", g)
	}
	for _, inv := range g.Invitees {
		if inv.Status != StatusPaid {
			t.Errorf("invitee %s status = %s after MarkPaid", inv.Email, inv.Status)
		}
	}

	if !g.IsAdmin("u1") || g.IsAdmin("") || g.IsAdmin("u2") {
		t.Error("IsAdmin mismatch")
	}
}

func TestNewPayment(t *testing.T) {
	p, err := NewPayment("g1", "u1", 5.5, "manual", "")
	if err != nil {
		t.Fatalf("NewPayment failed: %v", err)
	}
	if p.PaymentDate == 0 {
		t.Error("expected payment date to be stamped")
	}

	invalid := []struct {
		name         string
		group, payer string
		amount       float64
		method       string
	}{
		{"missing group", "", "u1", 1, "manual"},
		{"missing payer", "g1", "", 1, "manual"},
		{"missing method", "g1", "u1", 1, ""},
		{"negative amount", "g1", "u1", -1, "manual"},
		{"infinite amount", "g1", "u1", math.Inf(1), "manual"},
		{"amount too large", "g1", "u1", MaxAmount * 10, "manual"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPayment(tt.group, tt.payer, tt.amount, tt.method, ""); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUserSanitized(t *testing.T) {
	u := NewUser("u@x.com", "Una", "hash")
	s := u.Sanitized()
	if s.PasswordHash != "" {
		t.Error("Sanitized should drop the password hash")
	}
	if u.PasswordHash != "hash" {
		t.Error("Sanitized must not modify the original")
	}
	if _, err := NewSocialUser("", "x", SocialGoogle); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing email, got %v", err)
	}
}
