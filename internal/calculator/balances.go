package calculator

import (
	"fmt"
	"math"
)

// epsilon absorbs floating point noise when comparing money amounts.
const epsilon = 0.005

// PaymentForBalance is the minimal information about a payment needed for
// balance calculations.
type PaymentForBalance struct {
	Member string // email of the member who paid
	Amount float64
}

// MemberBalance represents one member's position in a group.
type MemberBalance struct {
	Member      string
	Share       float64 // equal share of the subscription cost
	TotalPaid   float64 // sum of logged payments by this member
	Outstanding float64 // share still unpaid, never negative
}

// DebtEdge represents money one member still owes another.
type DebtEdge struct {
	From   string // member who owes
	To     string // member who is owed
	Amount float64
}

// GroupForBalance is a group reduced to what the balance calculation needs.
// Members are identified by email; Admin fronts the subscription cost.
type GroupForBalance struct {
	Cost     float64
	Admin    string
	Invitees []string
	// Settled lists members marked paid regardless of logged payments.
	Settled []string
	// Paid settles every member.
	Paid bool
}

// CalculateGroupBalances splits the group cost equally among the admin and
// every distinct invitee, credits each member's logged payments against their
// share, and returns what each invitee still owes the admin.
//
// Algorithm:
//   - share = cost / members, in whole cents
//   - outstanding = max(0, share - paid) for invitees; zero for the admin
//     and for settled members
//   - one debt edge per invitee with outstanding > 0, pointing at the admin
//
// Payments by people who are not members are ignored.
func CalculateGroupBalances(group GroupForBalance, payments []PaymentForBalance) ([]MemberBalance, []DebtEdge, error) {
	if group.Admin == "" {
		return nil, nil, fmt.Errorf("admin is required")
	}

	members := []string{group.Admin}
	seen := map[string]bool{group.Admin: true}
	for _, email := range group.Invitees {
		if !seen[email] {
			seen[email] = true
			members = append(members, email)
		}
	}

	shares, err := SplitEqually(group.Cost, members)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to split cost: %w", err)
	}

	settled := make(map[string]bool, len(group.Settled))
	for _, m := range group.Settled {
		settled[m] = true
	}

	paid := make(map[string]float64, len(members))
	for _, p := range payments {
		if seen[p.Member] {
			paid[p.Member] += p.Amount
		}
	}

	balances := make([]MemberBalance, 0, len(members))
	var debts []DebtEdge
	for _, m := range members {
		bal := MemberBalance{
			Member:    m,
			Share:     shares[m],
			TotalPaid: roundCents(paid[m]),
		}
		if m != group.Admin && !group.Paid && !settled[m] {
			bal.Outstanding = roundCents(math.Max(0, bal.Share-bal.TotalPaid))
			if bal.Outstanding > epsilon {
				debts = append(debts, DebtEdge{From: m, To: group.Admin, Amount: bal.Outstanding})
			}
		}
		balances = append(balances, bal)
	}

	return balances, debts, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
