package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logging returns a middleware that logs every request.
// It logs the method, path, status, user ID, request ID and duration;
// 5xx responses are logged at error level and 4xx at warn.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			// The user ID is only known once RequireAuth has run further down
			// the chain, so it is captured through a holder on the context.
			holder := &userHolder{}
			r = r.WithContext(withUserHolder(r.Context(), holder))

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"user_id", holder.userID,
				"request_id", RequestIDFromContext(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			}

			switch {
			case status >= 500:
				logger.Error("HTTP request failed", attrs...)
			case status >= 400:
				logger.Warn("HTTP request rejected", attrs...)
			default:
				logger.Info("HTTP request ok", attrs...)
			}
		})
	}
}

type userHolderKey struct{}

// userHolder lets RequireAuth report the caller back to Logging.
type userHolder struct {
	userID string
}

func withUserHolder(ctx context.Context, h *userHolder) context.Context {
	return context.WithValue(ctx, userHolderKey{}, h)
}

func userHolderFrom(ctx context.Context) *userHolder {
	h, _ := ctx.Value(userHolderKey{}).(*userHolder)
	return h
}
