// Package api exposes the services as a JSON REST API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mmynk/subshare/internal/auth"
	"github.com/mmynk/subshare/internal/middleware"
	"github.com/mmynk/subshare/internal/service"
)

// Services bundles the service layer the handlers delegate to.
type Services struct {
	Groups   *service.GroupService
	Payments *service.PaymentService
	Auth     *service.AuthService
	Profiles *service.ProfileService
}

// Options configures the router's middleware.
type Options struct {
	JWT         *auth.JWTManager
	CORSOrigins []string
	// RateLimiter guards the /auth routes; nil disables it.
	RateLimiter *middleware.RateLimiter
	// Metrics records request metrics and serves /metrics; nil disables both.
	Metrics *middleware.Metrics
	Logger  *slog.Logger
	// SecureCookies marks the OAuth state cookie Secure.
	SecureCookies bool
}

// Handler holds the HTTP handlers.
type Handler struct {
	svc           Services
	secureCookies bool
}

// NewRouter builds the chi router with every route and middleware.
func NewRouter(svc Services, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &Handler{svc: svc, secureCookies: opts.SecureCookies}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/", h.Root)

	r.Route("/auth", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Handler)
		}
		r.Post("/signup", h.SignUp)
		r.Post("/login", h.Login)
		r.Get("/login/google", h.GoogleLogin)
		r.Get("/login/google/callback", h.GoogleCallback)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(opts.JWT))

		r.Get("/profile", h.GetProfile)
		r.Get("/profile/", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Put("/profile/", h.UpdateProfile)

		r.Route("/subscription", func(r chi.Router) {
			r.Get("/", h.ListGroups)
			r.Post("/create", h.CreateGroup)
			r.Get("/{id}", h.GetGroup)
			r.Post("/{id}/invite", h.InviteMembers)
			r.Put("/{id}/pay", h.MarkPaid)
			r.Get("/{id}/balances", h.GroupBalances)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/log", h.LogPayment)
			r.Get("/group/{id}", h.ListGroupPayments)
			r.Get("/user", h.ListUserPayments)
		})
	})

	return r
}

// Root is the unauthenticated liveness endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Subshare API is running",
		"status":  "ok",
	})
}
