package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhruvkatara/threadreel-backend/api/controllers"
	"github.com/dhruvkatara/threadreel-backend/api/middleware"
	"github.com/dhruvkatara/threadreel-backend/internal/categories"
	checkoutsvc "github.com/dhruvkatara/threadreel-backend/internal/checkout"
	"github.com/dhruvkatara/threadreel-backend/internal/home"
	"github.com/dhruvkatara/threadreel-backend/internal/inventory"
	"github.com/dhruvkatara/threadreel-backend/internal/orders"
	"github.com/dhruvkatara/threadreel-backend/internal/queries"
	"github.com/dhruvkatara/threadreel-backend/internal/settlement"
	"github.com/dhruvkatara/threadreel-backend/internal/users"
	"github.com/dhruvkatara/threadreel-backend/pkg/config"
	"github.com/dhruvkatara/threadreel-backend/pkg/db"
	"github.com/dhruvkatara/threadreel-backend/pkg/logger"
	pkgredis "github.com/dhruvkatara/threadreel-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *pkgredis.Client
	Registry prometheus.Gatherer

	Users      users.Service
	Inventory  inventory.Service
	Checkout   checkoutsvc.Service
	Settlement settlement.Service
	Orders     orders.Service
	Queries    queries.Service
	Home       home.Service
	Categories categories.Service
}

// NewRouter assembles the full HTTP surface of the storefront API.
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

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.Register(deps.Users, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.Login(deps.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/profile", controllers.Profile(deps.Users, logg))
			r.Put("/users/{userId}", controllers.UpdateUser(deps.Users, logg))
			r.Delete("/users/{userId}", controllers.DeleteUser(deps.Users, logg))
			r.With(middleware.RequireAdmin(logg)).
				Get("/verified-users", controllers.ListVerifiedUsers(deps.Users, logg))
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/orders", controllers.OwnOrders(deps.Orders, logg))
		r.With(middleware.RequireAdmin(logg)).Get("/", controllers.ListUsers(deps.Users, logg))
		r.With(middleware.RequireAdmin(logg)).Put("/{userId}/verify", controllers.VerifyUser(deps.Users, logg))
	})

	r.Route("/api/videos", func(r chi.Router) {
		r.Get("/data/{category}/{size}", controllers.StockByCategorySize(deps.Inventory, logg))
		r.Get("/all", controllers.AllStock(deps.Inventory, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireAdmin(logg))
			r.With(middleware.Idempotency(deps.Redis, logg)).
				Post("/upload", controllers.UploadStock(deps.Inventory, logg))
			r.Delete("/{videoId}", controllers.DeleteVariant(deps.Inventory, logg))
		})
	})

	r.Route("/api/payment", func(r chi.Router) {
		r.With(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/create-order", controllers.CreatePaymentOrder(deps.Checkout, logg))
		r.With(middleware.Idempotency(deps.Redis, logg)).
			Post("/confirm", controllers.ConfirmPayment(deps.Settlement, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
		r.With(middleware.RequireAdmin(logg)).
			Get("/user/{userId}", controllers.UserOrders(deps.Orders, logg))
	})

	r.Route("/api/queries", func(r chi.Router) {
		r.Post("/", controllers.SubmitQuery(deps.Queries, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/", controllers.ListQueries(deps.Queries, logg))
			r.Get("/{queryId}", controllers.GetQuery(deps.Queries, logg))
			r.Put("/{queryId}/respond", controllers.RespondQuery(deps.Queries, logg))
		})
	})

	r.Route("/api/home", func(r chi.Router) {
		r.Get("/data", controllers.HomeText(deps.Home, logg))
		r.With(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireAdmin(logg),
		).Post("/data", controllers.UpdateHomeText(deps.Home, logg))
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", controllers.ListCategories(deps.Categories, logg))
		r.With(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireAdmin(logg),
		).Post("/", controllers.CreateCategory(deps.Categories, logg))
	})

	return r
}
