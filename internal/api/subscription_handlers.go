package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/subshare/internal/middleware"
	"github.com/mmynk/subshare/internal/service"
)

// Pointer fields distinguish an absent field from its zero value.
type createGroupRequest struct {
	ServiceName *string   `json:"service_name"`
	Cost        *float64  `json:"cost"`
	DueDate     *string   `json:"due_date"`
	Invitees    *[]string `json:"invitees"`
}

type inviteRequest struct {
	Invitees *[]string `json:"invitees"`
}

type groupResponse struct {
	Msg   string    `json:"msg"`
	Group groupJSON `json:"group"`
}

type inviteResponse struct {
	Msg         string        `json:"msg"`
	NewInvitees []inviteeJSON `json:"new_invitees"`
}

// CreateGroup handles POST /subscription/create.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ServiceName == nil || req.Cost == nil || req.DueDate == nil || req.Invitees == nil {
		writeMsg(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	group, err := h.svc.Groups.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), service.CreateGroupInput{
		ServiceName: *req.ServiceName,
		Cost:        *req.Cost,
		DueDate:     *req.DueDate,
		Invitees:    *req.Invitees,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, groupResponse{Msg: "Subscription group created", Group: toGroupJSON(group)})
}

// InviteMembers handles POST /subscription/{id}/invite.
func (h *Handler) InviteMembers(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Invitees == nil {
		writeMsg(w, http.StatusBadRequest, "Missing invitees field")
		return
	}

	added, err := h.svc.Groups.InviteMembers(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), *req.Invitees)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inviteResponse{Msg: "Invitees added", NewInvitees: toInviteesJSON(added)})
}

// GetGroup handles GET /subscription/{id}.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.Groups.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupJSON(group))
}

// MarkPaid handles PUT /subscription/{id}/pay.
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.Groups.MarkPaid(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{Msg: "Subscription marked as paid", Group: toGroupJSON(group)})
}

// ListGroups handles GET /subscription.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Groups.ListGroupsForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupsJSON(groups))
}

// GroupBalances handles GET /subscription/{id}/balances.
func (h *Handler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.svc.Groups.GroupBalances(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalancesJSON(balances))
}
