package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/crbuilding/server/internal/catalog"
	"github.com/crbuilding/server/internal/chatbot"
	"github.com/crbuilding/server/internal/config"
	"github.com/crbuilding/server/internal/identity"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/internal/metrics"
	"github.com/crbuilding/server/internal/orders"
	"github.com/crbuilding/server/internal/pricing"
	"github.com/crbuilding/server/internal/ratelimit"
	"github.com/crbuilding/server/internal/razorpay"
)

var serverStartTime = time.Now()

// Gateway is the payment gateway surface the handlers need. Satisfied by
// *razorpay.Client; fakes stand in for order creation in tests.
type Gateway interface {
	CreateOrder(ctx context.Context, totalMajor int64) (razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) error
	KeyID() string
	Currency() string
}

// Server wires handlers, middleware, and dependencies.
type Server struct {
	handlers
	httpServer *http.Server
}

type handlers struct {
	cfg       *config.Config
	catalog   catalog.Repository
	pricing   *pricing.Engine
	gateway   Gateway
	orders    orders.Repository
	identity  *identity.Service
	responder *chatbot.Responder
	analytics chatbot.Analytics
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// Deps bundles the collaborators the server needs.
type Deps struct {
	Catalog   catalog.Repository
	Pricing   *pricing.Engine
	Gateway   Gateway
	Orders    orders.Repository
	Identity  *identity.Service
	Responder *chatbot.Responder
	Analytics chatbot.Analytics
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// New builds the HTTP server with a configured router.
func New(cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	s := &Server{
		handlers: newHandlers(cfg, deps),
		httpServer: &http.Server{
			Addr:         cfg.Server.Address,
			ReadTimeout:  cfg.Server.ReadTimeout.Duration,
			WriteTimeout: cfg.Server.WriteTimeout.Duration,
			IdleTimeout:  cfg.Server.IdleTimeout.Duration,
			Handler:      router,
		},
	}

	ConfigureRouter(router, cfg, deps)

	return s
}

func newHandlers(cfg *config.Config, deps Deps) handlers {
	analytics := deps.Analytics
	if analytics == nil {
		analytics = chatbot.NoopAnalytics{}
	}
	return handlers{
		cfg:       cfg,
		catalog:   deps.Catalog,
		pricing:   deps.Pricing,
		gateway:   deps.Gateway,
		orders:    deps.Orders,
		identity:  deps.Identity,
		responder: deps.Responder,
		analytics: analytics,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

// ConfigureRouter attaches storefront routes to an existing router.
func ConfigureRouter(router chi.Router, cfg *config.Config, deps Deps) {
	if router == nil {
		return
	}

	handler := newHandlers(cfg, deps)

	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}).Handler)
	}

	// Security headers first so every response carries them
	router.Use(securityHeadersMiddleware)

	// Structured logging before RequestID for context propagation
	router.Use(logger.Middleware(deps.Logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	rateLimitCfg := ratelimit.FromAppConfig(cfg.RateLimit, deps.Metrics)
	router.Use(ratelimit.GlobalLimiter(rateLimitCfg))
	router.Use(ratelimit.AccountLimiter(rateLimitCfg))
	router.Use(ratelimit.IPLimiter(rateLimitCfg))

	router.Use(httpMetricsMiddleware(deps.Metrics))

	prefix := cfg.Server.RoutePrefix

	// Lightweight endpoints with a short timeout
	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(5 * time.Second))
		r.Get("/healthz", handler.health)
		// Protected by optional admin API key
		r.With(adminMetricsAuth(cfg.Server.AdminMetricsAPIKey)).Handle("/metrics", promhttp.Handler())
	})

	// Storefront endpoints; 30s covers gateway and SMTP round trips
	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get(prefix+"/products", handler.listProducts)
		r.Post(prefix+"/create-order", handler.createOrder)
		r.Post(prefix+"/verify-payment", handler.verifyPayment)
		r.Get(prefix+"/orders", handler.listOrders)

		r.Post(prefix+"/register", handler.register)
		r.Get(prefix+"/verify-email", handler.verifyEmail)
		r.Post(prefix+"/verify-otp", handler.verifyOTP)
		r.Post(prefix+"/verify-register-otp", handler.verifyRegisterOTP)
		r.Post(prefix+"/login", handler.login)
		r.Post(prefix+"/login-password", handler.loginPassword)

		r.Post(prefix+"/chatbot", handler.chatbotMessage)
	})
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
