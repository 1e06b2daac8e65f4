package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mmynk/subshare/internal/service"
)

// message is the body of every error and acknowledgement response.
type message struct {
	Msg string `json:"msg"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, message{Msg: msg})
}

// writeError maps a service error to its HTTP status. Internal causes are
// logged by the service and never echoed.
func writeError(w http.ResponseWriter, err error) {
	writeMsg(w, statusFor(service.KindOf(err)), service.MessageOf(err))
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict, service.KindFederation:
		return http.StatusBadRequest
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a single JSON value into dst. An empty body decodes to
// the zero value so presence checks report the missing fields.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
