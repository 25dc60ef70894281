package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mahirlabs/bazarika-backend/api/controllers"
	"github.com/mahirlabs/bazarika-backend/api/middleware"
	checkoutsvc "github.com/mahirlabs/bazarika-backend/internal/checkout"
	financesvc "github.com/mahirlabs/bazarika-backend/internal/finance"
	ordersvc "github.com/mahirlabs/bazarika-backend/internal/orders"
	productsvc "github.com/mahirlabs/bazarika-backend/internal/products"
	vendorsvc "github.com/mahirlabs/bazarika-backend/internal/vendors"
	"github.com/mahirlabs/bazarika-backend/pkg/config"
	"github.com/mahirlabs/bazarika-backend/pkg/logger"
	pkgredis "github.com/mahirlabs/bazarika-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DBPinger controllers.Pinger
	Redis    *pkgredis.Client
	Registry *prometheus.Registry
	Vendors  vendorsvc.Service
	Products productsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Finance  financesvc.Service
}

// NewRouter wires middleware and controllers into the API route tree.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var idempotencyStore pkgredis.IdempotencyStore
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DBPinger,
			"redis":    redisPinger(deps.Redis),
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public storefront surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency, logg))

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
			r.Get("/delivery-zones", controllers.ListDeliveryZones(deps.Checkout, logg))
			r.Get("/orders/track", controllers.TrackOrders(deps.Orders, logg))
			r.Get("/orders/{orderID}", controllers.GetMasterOrder(deps.Checkout, logg))
			r.Get("/products", controllers.ListActiveProducts(deps.Products, logg))
			r.Get("/products/{productID}", controllers.GetProduct(deps.Products, logg))

			r.Route("/vendors", func(r chi.Router) {
				r.Post("/register", controllers.RegisterVendor(deps.Vendors, logg))
				r.Post("/login", controllers.LoginVendor(deps.Vendors, logg))
			})
		})

		// Authenticated vendor surface. Idempotency sits after Auth so the
		// replay scope is keyed by vendor.
		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireVendor(logg))
			r.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency, logg))

			r.Get("/profile", controllers.GetVendorProfile(deps.Vendors, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListVendorProducts(deps.Products, logg))
				r.Post("/", controllers.CreateProduct(deps.Products, logg))
				r.Put("/{productID}", controllers.UpdateProduct(deps.Products, logg))
				r.Delete("/{productID}", controllers.DeactivateProduct(deps.Products, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListVendorOrders(deps.Orders, logg))
				r.Get("/{orderID}", controllers.GetVendorOrder(deps.Orders, logg))
				r.Post("/{orderID}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
			})

			r.Route("/finance", func(r chi.Router) {
				r.Get("/summary", controllers.GetFinancialSummary(deps.Finance, logg))
				r.Get("/transactions", controllers.ListFinancialTransactions(deps.Finance, logg))
				r.Get("/transactions/export", controllers.ExportFinancialTransactions(deps.Finance, logg))
			})
		})

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireAdmin(logg))
			r.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency, logg))

			r.Route("/vendors", func(r chi.Router) {
				r.Get("/", controllers.ListVendors(deps.Vendors, logg))
				r.Post("/{vendorID}/approve", controllers.ApproveVendor(deps.Vendors, logg))
				r.Post("/{vendorID}/reject", controllers.RejectVendor(deps.Vendors, logg))
			})

			r.Post("/orders/{orderID}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
			r.Get("/finance/{vendorID}/consistency", controllers.CheckFinancialConsistency(deps.Finance, logg))
		})
	})

	return r
}

func redisPinger(client *pkgredis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
