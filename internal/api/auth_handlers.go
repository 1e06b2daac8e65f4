package api

import (
	"net/http"

	"github.com/google/uuid"
)

const oauthStateCookie = "subshare_oauth_state"

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SignUp handles POST /auth/signup.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if _, err := h.svc.Auth.SignUp(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeMsg(w, http.StatusCreated, "User created successfully")
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	token, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// GoogleLogin handles GET /auth/login/google by redirecting to the consent
// page. The state is kept in a short-lived cookie and checked on callback.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	url, err := h.svc.Auth.FederatedLoginURL(state)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/login/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, url, http.StatusFound)
}

// GoogleCallback handles GET /auth/login/google/callback.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeMsg(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/auth/login/google", MaxAge: -1})

	token, err := h.svc.Auth.CompleteFederatedLogin(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
