package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/servease/servease-backend/api/controllers"
	cartcontrollers "github.com/servease/servease-backend/api/controllers/cart"
	"github.com/servease/servease-backend/api/middleware"
	cartsvc "github.com/servease/servease-backend/internal/cart"
	catalogsvc "github.com/servease/servease-backend/internal/catalog"
	checkoutsvc "github.com/servease/servease-backend/internal/checkout"
	"github.com/servease/servease-backend/pkg/config"
	"github.com/servease/servease-backend/pkg/db"
	"github.com/servease/servease-backend/pkg/logger"
	"github.com/servease/servease-backend/pkg/metrics"
	"github.com/servease/servease-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions *cartsvc.SessionManager,
	catalogService catalogsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersRepo controllers.OrderReader,
	engineMetrics *metrics.EngineMetrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	apiPolicy := middleware.NewRateLimitPolicy("api", cfg.RateLimit.Window, cfg.RateLimit.Limit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(catalogService, logg))
			r.Get("/{itemId}", controllers.CatalogDetail(catalogService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(apiPolicy, redisClient, logg))
		r.Use(middleware.RequireSession(logg))

		r.Get("/ping", controllers.SessionPing())

		r.Post("/quotes", controllers.QuoteCreate(catalogService, engineMetrics, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(sessions, logg))
			r.Delete("/", cartcontrollers.Clear(sessions, engineMetrics, logg))
			r.Get("/total", cartcontrollers.Total(checkoutService, logg))
			r.Post("/promotion", cartcontrollers.ApplyPromotion(checkoutService, logg))
			r.Post("/items", cartcontrollers.AddItem(sessions, catalogService, engineMetrics, logg))
			r.Patch("/items/{itemId}", cartcontrollers.UpdateItem(sessions, catalogService, engineMetrics, logg))
			r.Delete("/items/{itemId}", cartcontrollers.RemoveItem(sessions, engineMetrics, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersRepo, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersRepo, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, engineMetrics, logg))
	})

	return r
}
