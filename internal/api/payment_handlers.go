package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/subshare/internal/middleware"
	"github.com/mmynk/subshare/internal/service"
)

type logPaymentRequest struct {
	GroupID    *string  `json:"group_id"`
	Amount     *float64 `json:"amount"`
	Method     *string  `json:"method"`
	Details    string   `json:"details"`
	PayerEmail string   `json:"payer_email"`
}

type paymentResponse struct {
	Msg        string      `json:"msg"`
	Payment    paymentJSON `json:"payment"`
	Reconciled string      `json:"reconciled,omitempty"`
}

// LogPayment handles POST /payments/log.
func (h *Handler) LogPayment(w http.ResponseWriter, r *http.Request) {
	var req logPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.GroupID == nil || req.Amount == nil || req.Method == nil {
		writeMsg(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	logged, err := h.svc.Payments.LogPayment(r.Context(), middleware.GetUserID(r.Context()), service.LogPaymentInput{
		GroupID:    *req.GroupID,
		Amount:     *req.Amount,
		Method:     *req.Method,
		Details:    req.Details,
		PayerEmail: req.PayerEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, paymentResponse{
		Msg:        "Payment logged",
		Payment:    toPaymentJSON(logged.Payment),
		Reconciled: logged.Reconciled,
	})
}

// ListGroupPayments handles GET /payments/group/{id}.
func (h *Handler) ListGroupPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.Payments.ListPaymentsForGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentsJSON(payments))
}

// ListUserPayments handles GET /payments/user.
func (h *Handler) ListUserPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.Payments.ListPaymentsForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentsJSON(payments))
}
