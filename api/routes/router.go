package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tetshop/banhtet-backend/api/controllers"
	"github.com/tetshop/banhtet-backend/api/middleware"
	"github.com/tetshop/banhtet-backend/internal/auth"
	"github.com/tetshop/banhtet-backend/internal/cart"
	"github.com/tetshop/banhtet-backend/internal/catalog"
	checkoutsvc "github.com/tetshop/banhtet-backend/internal/checkout"
	"github.com/tetshop/banhtet-backend/internal/orders"
	"github.com/tetshop/banhtet-backend/internal/pricing"
	"github.com/tetshop/banhtet-backend/internal/statuses"
	"github.com/tetshop/banhtet-backend/pkg/auth/session"
	"github.com/tetshop/banhtet-backend/pkg/config"
	"github.com/tetshop/banhtet-backend/pkg/logger"
	"github.com/tetshop/banhtet-backend/pkg/metrics"
	"github.com/tetshop/banhtet-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Database pinger
	Cache    *redis.Client
	Sessions *session.Manager

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	AuthService     auth.Service
	CatalogService  catalog.Service
	CatalogRepo     *catalog.Repository
	PricingService  pricing.Service
	CartStore       *cart.Store
	CheckoutService checkoutsvc.Service
	StatusesService statuses.Service
	OrdersService   orders.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Database, d.Cache))
	})

	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", controllers.StorefrontProducts(d.CatalogService, logg))
		r.Get("/products/{slug}", controllers.StorefrontProductBySlug(d.CatalogService, logg))

		r.Get("/tiers", controllers.PublicTiers(d.PricingService, logg))
		r.Get("/calendar", controllers.PublicCalendar(d.PricingService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.CartStore, cfg.Cart, logg))
			r.Delete("/", controllers.CartClear(d.CartStore, cfg.Cart, logg))
			r.Post("/items", controllers.CartAddItem(d.CartStore, d.CatalogRepo, cfg.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(d.CartStore, cfg.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(d.CartStore, cfg.Cart, logg))
			r.Put("/delivery-date", controllers.CartSetDeliveryDate(d.CartStore, d.CatalogRepo, d.PricingService, cfg.Cart, logg))
		})

		r.Post("/orders", controllers.SubmitOrder(d.CheckoutService, d.CartStore, cfg.Cart, logg))
		r.Get("/orders/track/{code}", controllers.TrackOrder(d.OrdersService, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Cache, logg)).
			Post("/auth/login", controllers.AdminLogin(d.AuthService, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

			r.Post("/auth/logout", controllers.AdminLogout(d.AuthService, cfg.JWT, logg))
			r.Get("/auth/me", controllers.AdminMe(logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(d.CatalogService, logg))
				r.Post("/", controllers.AdminCreateProduct(d.CatalogService, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(d.CatalogService, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(d.CatalogService, logg))
				r.Put("/{productId}/prices", controllers.AdminSetTierPrices(d.CatalogService, logg))
			})

			r.Route("/tiers", func(r chi.Router) {
				r.Get("/", controllers.PublicTiers(d.PricingService, logg))
				r.Post("/", controllers.AdminCreateTier(d.PricingService, logg))
				r.Patch("/{tierId}", controllers.AdminUpdateTier(d.PricingService, logg))
				r.Delete("/{tierId}", controllers.AdminDeleteTier(d.PricingService, logg))
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/", controllers.PublicCalendar(d.PricingService, logg))
				r.Post("/", controllers.AdminAssignDate(d.PricingService, logg))
				r.Delete("/", controllers.AdminUnassignDate(d.PricingService, logg))
			})

			r.Route("/statuses", func(r chi.Router) {
				r.Get("/", controllers.AdminListStatuses(d.StatusesService, logg))
				r.Post("/", controllers.AdminCreateStatus(d.StatusesService, logg))
				r.Patch("/{statusId}", controllers.AdminUpdateStatus(d.StatusesService, logg))
				r.Delete("/{statusId}", controllers.AdminDeleteStatus(d.StatusesService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(d.OrdersService, logg))
				r.Get("/daily-summaries", controllers.AdminDailySummaries(d.OrdersService, logg))
				r.Get("/{orderId}", controllers.AdminOrderDetail(d.OrdersService, logg))
				r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(d.OrdersService, logg))
				r.Patch("/{orderId}/customer", controllers.AdminUpdateOrderCustomer(d.OrdersService, logg))
				r.Put("/{orderId}/items", controllers.AdminUpdateOrderItems(d.OrdersService, logg))
				r.Delete("/{orderId}", controllers.AdminDeleteOrder(d.OrdersService, logg))
			})
		})
	})

	return r
}
