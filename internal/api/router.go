package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/lbsshop/storefront-api/docs"
	"github.com/lbsshop/storefront-api/internal/api/handler"
	"github.com/lbsshop/storefront-api/internal/api/metrics"
	"github.com/lbsshop/storefront-api/internal/api/middleware"
	"github.com/lbsshop/storefront-api/internal/core/domain"
	"github.com/lbsshop/storefront-api/internal/core/ports"
)

// Dependencies are the services and infrastructure the router mounts.
type Dependencies struct {
	Log    zerolog.Logger
	Tokens ports.TokenService

	Auth       ports.AuthService
	Users      ports.UserService
	Catalog    ports.CatalogService
	Categories ports.CategoryService
	Carts      ports.CartService
	Orders     ports.OrderService
	Stats      ports.StatsService

	// LoginLimiter throttles the auth endpoints. Nil disables throttling.
	LoginLimiter echomiddleware.RateLimiterStore
	// Pingers are checked by the readiness probe.
	Pingers map[string]handler.Pinger
	// RequestTimeout bounds every request context. Zero disables it.
	RequestTimeout time.Duration
}

// access is the authorization level a route requires.
type access int

const (
	public access = iota
	authenticated
	owner
	admin
)

// ownerParam is the path parameter owner routes are checked against.
const ownerParam = "userId"

type route struct {
	method  string
	path    string
	access  access
	handler echo.HandlerFunc
	// throttled routes share the login rate limiter.
	throttled bool
}

// NewRouter builds the Echo instance with every route registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORS())
	if deps.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeout(deps.RequestTimeout))
	}

	// --- Probes, metrics and docs (no auth required) ---
	health := handler.NewHealthHandler(deps.Pingers)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	chains := accessChains(deps.Tokens)
	var throttle echo.MiddlewareFunc
	if deps.LoginLimiter != nil {
		throttle = middleware.RateLimit(deps.LoginLimiter)
	}

	for _, r := range routes(deps) {
		mw := append([]echo.MiddlewareFunc{}, chains[r.access]...)
		if r.throttled && throttle != nil {
			mw = append([]echo.MiddlewareFunc{throttle}, mw...)
		}
		e.Add(r.method, r.path, r.handler, mw...)
	}

	return e
}

// accessChains maps each access level to the middleware that enforces it.
// Checks run before the handler, so a rejected request has no side effect.
func accessChains(tokens ports.TokenService) map[access][]echo.MiddlewareFunc {
	auth := middleware.Auth(tokens)
	return map[access][]echo.MiddlewareFunc{
		public:        nil,
		authenticated: {auth},
		owner:         {auth, middleware.OwnerOrAdmin(ownerParam)},
		admin:         {auth, middleware.RBAC(domain.RoleAdmin)},
	}
}

func routes(deps Dependencies) []route {
	auth := handler.NewAuthHandler(deps.Auth)
	users := handler.NewUserHandler(deps.Users)
	products := handler.NewProductHandler(deps.Catalog)
	categories := handler.NewCategoryHandler(deps.Categories)
	carts := handler.NewCartHandler(deps.Carts)
	orders := handler.NewOrderHandler(deps.Orders)
	stats := handler.NewStatsHandler(deps.Stats)

	return []route{
		{method: http.MethodPost, path: "/api/auth/register", access: public, handler: auth.Register, throttled: true},
		{method: http.MethodPost, path: "/api/auth/login", access: public, handler: auth.Login, throttled: true},
		{method: http.MethodPost, path: "/api/auth/admin-login", access: public, handler: auth.AdminLogin, throttled: true},

		{method: http.MethodGet, path: "/api/products", access: public, handler: products.List},
		{method: http.MethodGet, path: "/api/products/:id", access: public, handler: products.Get},
		{method: http.MethodPost, path: "/api/products", access: admin, handler: products.Create},
		{method: http.MethodPut, path: "/api/products/:id", access: admin, handler: products.Update},
		{method: http.MethodDelete, path: "/api/products/:id", access: admin, handler: products.Delete},

		{method: http.MethodGet, path: "/api/categories", access: public, handler: categories.List},
		{method: http.MethodGet, path: "/api/categories/:id", access: public, handler: categories.Get},
		{method: http.MethodPost, path: "/api/categories", access: admin, handler: categories.Create},
		{method: http.MethodPut, path: "/api/categories/:id", access: admin, handler: categories.Update},
		{method: http.MethodDelete, path: "/api/categories/:id", access: admin, handler: categories.Delete},

		{method: http.MethodGet, path: "/api/cart/:userId", access: owner, handler: carts.Get},
		{method: http.MethodPost, path: "/api/cart/:userId", access: owner, handler: carts.AddItem},
		{method: http.MethodDelete, path: "/api/cart/:userId/:productId", access: owner, handler: carts.RemoveItem},

		{method: http.MethodPost, path: "/api/orders", access: authenticated, handler: orders.Create},
		{method: http.MethodGet, path: "/api/orders", access: admin, handler: orders.ListAll},
		{method: http.MethodPost, path: "/api/orders/verify", access: admin, handler: orders.VerifyArtifact},
		{method: http.MethodGet, path: "/api/orders/user/:userId", access: owner, handler: orders.ListByUser},
		{method: http.MethodGet, path: "/api/orders/:id", access: authenticated, handler: orders.Get},
		{method: http.MethodPut, path: "/api/orders/:id/status", access: admin, handler: orders.SetStatus},
		{method: http.MethodPost, path: "/api/orders/:id/confirm", access: admin, handler: orders.ConfirmPayment},
		{method: http.MethodPost, path: "/api/qrcode/:id", access: admin, handler: orders.ConfirmPayment},

		{method: http.MethodGet, path: "/api/stats", access: admin, handler: stats.Summary},

		{method: http.MethodGet, path: "/api/users", access: admin, handler: users.List},
		{method: http.MethodGet, path: "/api/users/:userId", access: owner, handler: users.Get},
		{method: http.MethodPut, path: "/api/users/:userId", access: owner, handler: users.Update},
	}
}
