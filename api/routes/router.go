package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockroomhq/stockroom-backend/api/controllers"
	"github.com/stockroomhq/stockroom-backend/api/middleware"
	authsvc "github.com/stockroomhq/stockroom-backend/internal/auth"
	"github.com/stockroomhq/stockroom-backend/internal/components"
	"github.com/stockroomhq/stockroom-backend/internal/products"
	"github.com/stockroomhq/stockroom-backend/internal/suppliers"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
	"github.com/stockroomhq/stockroom-backend/pkg/redis"
)

// Deps bundles everything the router needs. Redis and the metrics registry
// are optional; the related surfaces degrade to no-ops when absent.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    controllers.Pinger
	RedisClient *redis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	SupplierService  suppliers.Service
	ComponentService components.Service
	ProductService   products.Service
	AuthService      authsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	var redisPing controllers.Pinger
	if deps.RedisClient != nil {
		redisPing = deps.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DBPinger, redisPing, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	signinLimiter := passthrough
	signupLimiter := passthrough
	if deps.RedisClient != nil {
		signinPolicy := middleware.NewAuthRateLimitPolicy(
			"signin",
			cfg.AuthRateLimit.SigninWindow,
			cfg.AuthRateLimit.SigninIPLimit,
			cfg.AuthRateLimit.SigninEmailLimit,
		)
		signupPolicy := middleware.NewAuthRateLimitPolicy(
			"signup",
			cfg.AuthRateLimit.SignupWindow,
			cfg.AuthRateLimit.SignupIPLimit,
			cfg.AuthRateLimit.SignupEmailLimit,
		)
		signinLimiter = middleware.AuthRateLimit(signinPolicy, deps.RedisClient, logg)
		signupLimiter = middleware.AuthRateLimit(signupPolicy, deps.RedisClient, logg)
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(signupLimiter).Post("/signup", controllers.Signup(deps.AuthService, logg))
		r.With(signinLimiter).Post("/signin", controllers.Signin(deps.AuthService, logg))
	})

	requireAuth := middleware.Auth(cfg.JWT, logg)

	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", controllers.SupplierList(deps.SupplierService, logg))
		r.Get("/{id}", controllers.SupplierGet(deps.SupplierService, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", controllers.SupplierCreate(deps.SupplierService, logg))
			r.Put("/{id}", controllers.SupplierUpdate(deps.SupplierService, logg))
			r.Delete("/{id}", controllers.SupplierDelete(deps.SupplierService, logg))
		})
	})

	r.Route("/components", func(r chi.Router) {
		r.Get("/", controllers.ComponentList(deps.ComponentService, logg))
		r.Get("/{id}", controllers.ComponentGet(deps.ComponentService, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", controllers.ComponentCreate(deps.ComponentService, logg))
			r.Put("/{id}", controllers.ComponentUpdate(deps.ComponentService, logg))
			r.Delete("/{id}", controllers.ComponentDelete(deps.ComponentService, logg))
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.ProductService, logg))
		r.Get("/{id}", controllers.ProductGet(deps.ProductService, logg))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", controllers.ProductCreate(deps.ProductService, logg))
			r.Put("/{id}", controllers.ProductUpdate(deps.ProductService, logg))
			r.Delete("/{id}", controllers.ProductDelete(deps.ProductService, logg))
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler { return next }
