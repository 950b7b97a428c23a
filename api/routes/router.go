package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arduinodayph/adph-merch/api/controllers"
	"github.com/arduinodayph/adph-merch/api/middleware"
	"github.com/arduinodayph/adph-merch/internal/auth"
	"github.com/arduinodayph/adph-merch/internal/cart"
	"github.com/arduinodayph/adph-merch/internal/catalog"
	"github.com/arduinodayph/adph-merch/internal/checkout"
	"github.com/arduinodayph/adph-merch/internal/orders"
	"github.com/arduinodayph/adph-merch/pkg/config"
	"github.com/arduinodayph/adph-merch/pkg/logger"
	"github.com/arduinodayph/adph-merch/pkg/metrics"
	pkgredis "github.com/arduinodayph/adph-merch/pkg/redis"
)

// keyValueStore is the Redis surface the throttling and replay middleware share.
type keyValueStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	readiness map[string]controllers.Pinger,
	kv keyValueStore,
	authService auth.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkout.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewThrottlePolicy(
		"admin_login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	checkoutPolicy := middleware.NewThrottlePolicy(
		"checkout",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutIPLimit,
		cfg.RateLimit.CheckoutEmailLimit,
	)
	publicLimiter := middleware.NewVisitorLimiter(cfg.RateLimit.PublicRPS, cfg.RateLimit.PublicBurst)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Use(middleware.RateLimit(publicLimiter, logg))

		r.Get("/merch", controllers.PublicMerch(catalogService, logg))

		r.Route("/carts/{cartId}", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/lines", controllers.CartAddLine(cartService, logg))
			r.Patch("/lines/{index}", controllers.CartUpdateLine(cartService, logg))
			r.Delete("/lines/{index}", controllers.CartRemoveLine(cartService, logg))
		})

		r.With(
			chimw.RequestSize(controllers.CheckoutBodyLimit(cfg.Store.ReceiptMaxBytes)),
			middleware.Throttle(checkoutPolicy, kv, logg),
			middleware.Idempotency(kv, cfg.Store.IdempotencyTTL, logg),
		).Post("/orders", controllers.CheckoutSubmit(checkoutService, cfg.Store.ReceiptMaxBytes, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.Throttle(loginPolicy, kv, logg)).Post("/login", controllers.AdminLogin(authService, logg))
			r.Post("/logout", controllers.AdminLogout(authService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(authService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(ordersService, logg))
				r.Patch("/", controllers.AdminUpdateOrder(ordersService, logg))
				r.Get("/export", controllers.AdminExportOrders(ordersService, logg))
				r.Get("/stats", controllers.AdminOrderStats(ordersService, logg))
			})
		})
	})

	return r
}
