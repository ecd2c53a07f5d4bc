package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"aihelper/internal/http/handlers"
	"aihelper/internal/infra"
	"aihelper/internal/metrics"
	"aihelper/internal/middleware"
)

// RouterOptions carries everything the route table needs beyond the handlers.
type RouterOptions struct {
	App      *handlers.App
	Config   *infra.Config
	Limiter  *middleware.RateLimiter
	Gatherer prometheus.Gatherer
}

func NewRouter(opts RouterOptions) http.Handler {
	app := opts.App
	cfg := opts.Config

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.I18N(cfg.DefaultLocale),
	)

	r.Get("/v1/healthz", app.Health)
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(opts.Gatherer))
	}

	// Payment gateway callbacks are authenticated by signature, not rate
	// limited with client traffic.
	r.Post("/v1/payments/webhook", app.PaymentWebhook)

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware())
		}

		r.Post("/v1/identity", app.IdentityResolve)
		r.Post("/v1/identity/profile", app.IdentityBind)

		r.Post("/v1/chat", app.Chat)
		r.Get("/v1/usage", app.UsageGet)

		r.Get("/v1/packages", app.PackagesList)
		r.Post("/v1/purchases", app.PurchasesCreate)
		r.Get("/v1/purchases", app.PurchasesList)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret, middleware.RoleAdmin))
		r.Get("/v1/admin/stats", app.AdminStats)
	})

	return r
}
