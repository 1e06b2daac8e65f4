package api

import (
	"time"

	"github.com/mmynk/subshare/internal/calculator"
	"github.com/mmynk/subshare/internal/models"
	"github.com/mmynk/subshare/internal/service"
)

type userJSON struct {
	ID     string `json:"_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Social string `json:"social,omitempty"`
}

type inviteeJSON struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

type groupJSON struct {
	ID          string        `json:"_id"`
	AdminID     string        `json:"admin_id"`
	ServiceName string        `json:"service_name"`
	Cost        float64       `json:"cost"`
	DueDate     string        `json:"due_date"`
	Invitees    []inviteeJSON `json:"invitees"`
	Paid        bool          `json:"paid"`
	CreatedAt   string        `json:"created_at"`
	PaidAt      string        `json:"paid_at,omitempty"`
}

type paymentJSON struct {
	ID          string  `json:"_id"`
	GroupID     string  `json:"group_id"`
	PayerID     string  `json:"payer_id"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Details     string  `json:"details"`
	PaymentDate string  `json:"payment_date"`
}

type memberBalanceJSON struct {
	Member      string  `json:"member"`
	Share       float64 `json:"share"`
	TotalPaid   float64 `json:"total_paid"`
	Outstanding float64 `json:"outstanding"`
}

type debtJSON struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type balancesJSON struct {
	GroupID string              `json:"group_id"`
	Members []memberBalanceJSON `json:"members"`
	Debts   []debtJSON          `json:"debts"`
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, Name: u.DisplayName, Social: u.Social}
}

func toInviteesJSON(invitees []models.Invitee) []inviteeJSON {
	out := make([]inviteeJSON, 0, len(invitees))
	for _, inv := range invitees {
		out = append(out, inviteeJSON{Email: inv.Email, Status: string(inv.Status)})
	}
	return out
}

func toGroupJSON(g *models.SubscriptionGroup) groupJSON {
	return groupJSON{
		ID:          g.ID,
		AdminID:     g.AdminID,
		ServiceName: g.ServiceName,
		Cost:        g.Cost,
		DueDate:     g.DueDate,
		Invitees:    toInviteesJSON(g.Invitees),
		Paid:        g.Paid,
		CreatedAt:   formatUnix(g.CreatedAt),
		PaidAt:      formatUnix(g.PaidAt),
	}
}

func toGroupsJSON(groups []*models.SubscriptionGroup) []groupJSON {
	out := make([]groupJSON, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupJSON(g))
	}
	return out
}

func toPaymentJSON(p *models.Payment) paymentJSON {
	return paymentJSON{
		ID:          p.ID,
		GroupID:     p.GroupID,
		PayerID:     p.PayerID,
		Amount:      p.Amount,
		Method:      p.Method,
		Details:     p.Details,
		PaymentDate: formatUnix(p.PaymentDate),
	}
}

func toPaymentsJSON(payments []*models.Payment) []paymentJSON {
	out := make([]paymentJSON, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentJSON(p))
	}
	return out
}

func toBalancesJSON(b *service.GroupBalances) balancesJSON {
	out := balancesJSON{
		GroupID: b.GroupID,
		Members: make([]memberBalanceJSON, 0, len(b.Members)),
		Debts:   make([]debtJSON, 0, len(b.Debts)),
	}
	for _, m := range b.Members {
		out.Members = append(out.Members, toMemberBalanceJSON(m))
	}
	for _, d := range b.Debts {
		out.Debts = append(out.Debts, debtJSON{From: d.From, To: d.To, Amount: d.Amount})
	}
	return out
}

func toMemberBalanceJSON(m calculator.MemberBalance) memberBalanceJSON {
	return memberBalanceJSON{
		Member:      m.Member,
		Share:       m.Share,
		TotalPaid:   m.TotalPaid,
		Outstanding: m.Outstanding,
	}
}
