package calculator

import (
	"math"
	"testing"
)

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name         string
		cost         float64
		members      []string
		wantErr      bool
		validateFunc func(t *testing.T, shares map[string]float64)
	}{
		{
			name:    "even split",
			cost:    30.0,
			members: []string{"admin@x.com", "a@x.com", "b@x.com"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				for m, s := range shares {
					if math.Abs(s-10.0) > 0.001 {
						t.Errorf("%s share = %v, want 10.0", m, s)
					}
				}
			},
		},
		{
			name:    "fractional cost",
			cost:    15.99,
			members: []string{"admin@x.com", "a@x.com", "b@x.com"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				// 1599 cents / 3 = 533 each, no remainder
				if math.Abs(shares["admin@x.com"]-5.33) > 0.001 {
					t.Errorf("admin share = %v, want 5.33", shares["admin@x.com"])
				}
			},
		},
		{
			name:    "uneven split sums to cost",
			cost:    10.0,
			members: []string{"admin@x.com", "a@x.com", "b@x.com"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				// 1000 cents / 3 = 333 r1
				if math.Abs(shares["admin@x.com"]-3.34) > 0.001 {
					t.Errorf("admin share = %v, want 3.34", shares["admin@x.com"])
				}
				if math.Abs(shares["b@x.com"]-3.33) > 0.001 {
					t.Errorf("b share = %v, want 3.33", shares["b@x.com"])
				}
				sum := 0.0
				for _, s := range shares {
					sum += s
				}
				if math.Abs(sum-10.0) > 0.001 {
					t.Errorf("shares sum = %v, want 10.0", sum)
				}
			},
		},
		{
			name:    "no members",
			cost:    10.0,
			members: nil,
			wantErr: true,
		},
		{
			name:    "cost overflows cents",
			cost:    1e300,
			members: []string{"admin@x.com", "a@x.com"},
			wantErr: true,
		},
		{
			name:    "large cost stays positive",
			cost:    1e12,
			members: []string{"admin@x.com", "a@x.com"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				for m, s := range shares {
					if s != 5e11 {
						t.Errorf("%s share = %v, want 5e11", m, s)
					}
				}
			},
		},
		{
			name:    "negative cost",
			cost:    -1,
			members: []string{"admin@x.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := SplitEqually(tt.cost, tt.members)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitEqually() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestCalculateGroupBalances(t *testing.T) {
	group := GroupForBalance{
		Cost:     30.0,
		Admin:    "admin@x.com",
		Invitees: []string{"a@x.com", "b@x.com", "a@x.com"},
	}

	t.Run("nothing paid", func(t *testing.T) {
		balances, debts, err := CalculateGroupBalances(group, nil)
		if err != nil {
			t.Fatalf("CalculateGroupBalances failed: %v", err)
		}
		if len(balances) != 3 {
			t.Fatalf("expected 3 members (duplicate invitee collapsed), got %d", len(balances))
		}
		if balances[0].Member != "admin@x.com" || balances[0].Outstanding != 0 {
			t.Errorf("admin balance = %+v, want zero outstanding", balances[0])
		}
		if len(debts) != 2 {
			t.Fatalf("expected 2 debts, got %d", len(debts))
		}
		for _, d := range debts {
			if d.To != "admin@x.com" {
				t.Errorf("debt from %s points at %s, want admin", d.From, d.To)
			}
			if math.Abs(d.Amount-10.0) > 0.001 {
				t.Errorf("debt from %s = %v, want 10.0", d.From, d.Amount)
			}
		}
	})

	t.Run("partial and full payments", func(t *testing.T) {
		payments := []PaymentForBalance{
			{Member: "a@x.com", Amount: 10.0},
			{Member: "b@x.com", Amount: 4.0},
			{Member: "stranger@x.com", Amount: 100.0},
		}
		balances, debts, err := CalculateGroupBalances(group, payments)
		if err != nil {
			t.Fatalf("CalculateGroupBalances failed: %v", err)
		}

		byMember := make(map[string]MemberBalance)
		for _, b := range balances {
			byMember[b.Member] = b
		}
		if _, ok := byMember["stranger@x.com"]; ok {
			t.Error("non-member payment should be ignored")
		}
		if byMember["a@x.com"].Outstanding != 0 {
			t.Errorf("a outstanding = %v, want 0", byMember["a@x.com"].Outstanding)
		}
		if math.Abs(byMember["b@x.com"].Outstanding-6.0) > 0.001 {
			t.Errorf("b outstanding = %v, want 6.0", byMember["b@x.com"].Outstanding)
		}
		if len(debts) != 1 || debts[0].From != "b@x.com" {
			t.Errorf("expected a single debt from b, got %+v", debts)
		}
	})

	t.Run("overpayment does not go negative", func(t *testing.T) {
		balances, _, err := CalculateGroupBalances(group, []PaymentForBalance{{Member: "a@x.com", Amount: 50}})
		if err != nil {
			t.Fatalf("CalculateGroupBalances failed: %v", err)
		}
		for _, b := range balances {
			if b.Outstanding < 0 {
				t.Errorf("%s outstanding = %v, want >= 0", b.Member, b.Outstanding)
			}
		}
	})

	t.Run("settled invitee owes nothing", func(t *testing.T) {
		settledGroup := group
		settledGroup.Settled = []string{"b@x.com"}
		balances, debts, err := CalculateGroupBalances(settledGroup, []PaymentForBalance{{Member: "b@x.com", Amount: 2}})
		if err != nil {
			t.Fatalf("CalculateGroupBalances failed: %v", err)
		}
		for _, b := range balances {
			if b.Member == "b@x.com" && b.Outstanding != 0 {
				t.Errorf("settled b outstanding = %v, want 0", b.Outstanding)
			}
		}
		if len(debts) != 1 || debts[0].From != "a@x.com" {
			t.Errorf("expected a single debt from a, got %+v", debts)
		}
	})

	t.Run("paid group has no debts", func(t *testing.T) {
		paidGroup := group
		paidGroup.Paid = true
		balances, debts, err := CalculateGroupBalances(paidGroup, nil)
		if err != nil {
			t.Fatalf("CalculateGroupBalances failed: %v", err)
		}
		if len(debts) != 0 {
			t.Errorf("expected no debts for a paid group, got %+v", debts)
		}
		for _, b := range balances {
			if b.Outstanding != 0 {
				t.Errorf("%s outstanding = %v, want 0", b.Member, b.Outstanding)
			}
		}
	})

	t.Run("admin required", func(t *testing.T) {
		if _, _, err := CalculateGroupBalances(GroupForBalance{Cost: 1}, nil); err == nil {
			t.Error("expected error without admin")
		}
	})
}
