package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/isdl/storefront-gateway/api/controllers"
	"github.com/isdl/storefront-gateway/api/middleware"
	catalogsvc "github.com/isdl/storefront-gateway/internal/catalog"
	ordersvc "github.com/isdl/storefront-gateway/internal/orders"
	"github.com/isdl/storefront-gateway/internal/state"
	"github.com/isdl/storefront-gateway/internal/upstream"
	"github.com/isdl/storefront-gateway/pkg/config"
	"github.com/isdl/storefront-gateway/pkg/logger"
	"github.com/isdl/storefront-gateway/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *state.Registry,
	client *upstream.Client,
	catalog *catalogsvc.Service,
	orders *ordersvc.Service,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Health())
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.Login(registry, client, logg))
			r.Post("/register", controllers.Register(registry, client, logg))
			r.Get("/me", controllers.Me(registry, client, logg))
			r.Post("/signout", controllers.SignOut(registry, client, orders, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(registry, catalog, logg))
			r.Put("/preference", controllers.SetPreference(registry, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(registry, logg))
			r.Delete("/", controllers.CartEmpty(registry, logg))
			r.Post("/items", controllers.CartAdd(registry, logg))
			r.Post("/items/{id}/decrement", controllers.CartDecrement(registry, logg))
			r.Delete("/items/{id}", controllers.CartRemove(registry, logg))
		})

		r.Post("/checkout", controllers.Checkout(registry, orders, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(registry, orders, logg))
			r.Post("/{id}/cancel", controllers.OrderCancel(registry, orders, logg))
			r.Post("/{id}/confirm", controllers.OrderConfirm(registry, orders, logg))
		})

		r.Route("/admin/items", func(r chi.Router) {
			r.Post("/", controllers.ItemCreate(registry, catalog, logg))
			r.Patch("/{id}", controllers.ItemUpdate(registry, catalog, logg))
			r.Delete("/{id}", controllers.ItemDelete(registry, catalog, logg))
			r.Put("/{id}/stock", controllers.ItemStock(registry, catalog, logg))
		})
	})

	return r
}
