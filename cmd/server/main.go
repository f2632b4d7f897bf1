package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/crbuilding/server/internal/catalog"
	"github.com/crbuilding/server/internal/chatbot"
	"github.com/crbuilding/server/internal/circuitbreaker"
	"github.com/crbuilding/server/internal/config"
	"github.com/crbuilding/server/internal/httpserver"
	"github.com/crbuilding/server/internal/identity"
	"github.com/crbuilding/server/internal/lifecycle"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/internal/mailer"
	"github.com/crbuilding/server/internal/metrics"
	"github.com/crbuilding/server/internal/orders"
	"github.com/crbuilding/server/internal/pricing"
	"github.com/crbuilding/server/internal/razorpay"
)

const shutdownGracePeriod = 15 * time.Second

func main() {
	// Local development loads credentials from .env; production sets real
	// environment variables and has no such file.
	_ = godotenv.Load()

	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New(logger.Config{Service: "crb-server"})
		bootLog.Fatal().Err(err).Str("path", *configPath).Msg("config.load_failed")
	}

	log := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Service:     "crb-server",
		Environment: cfg.Logging.Environment,
	})

	resources := lifecycle.NewManager()
	breakers := circuitbreaker.NewManagerFromConfig(cfg.CircuitBreaker)
	collector := metrics.New(nil)

	catalogRepo, err := catalog.NewRepository(cfg.Catalog, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("startup.catalog_repository_failed")
	}
	resources.Register("catalog-repository", catalogRepo)

	orderRepo, err := orders.NewRepository(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("startup.order_repository_failed")
	}
	resources.Register("order-repository", orderRepo)

	userRepo, err := identity.NewRepository(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("startup.user_repository_failed")
	}
	resources.Register("user-repository", userRepo)

	var analytics chatbot.Analytics
	if cfg.Storage.Backend == "mongodb" {
		mongoAnalytics, err := chatbot.NewMongoAnalytics(cfg.Storage.MongoDBURL, cfg.Storage.MongoDBDatabase)
		if err != nil {
			log.Fatal().Err(err).Msg("startup.chatbot_analytics_failed")
		}
		resources.Register("chatbot-analytics", mongoAnalytics)
		analytics = mongoAnalytics
	} else {
		// Conversation analytics are Mongo-only; other backends run without them
		analytics = chatbot.NoopAnalytics{}
	}

	var mail mailer.Mailer = mailer.NoopMailer{}
	if cfg.Mail.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.Mail, breakers, collector)
	} else {
		log.Warn().Msg("startup.mail_disabled")
	}

	server := httpserver.New(cfg, httpserver.Deps{
		Catalog:   catalogRepo,
		Pricing:   pricing.NewEngine(catalogRepo),
		Gateway:   razorpay.NewClient(cfg.Razorpay, breakers, collector),
		Orders:    orderRepo,
		Identity:  identity.NewService(userRepo, mail, cfg.Identity),
		Responder: chatbot.NewResponder(),
		Analytics: analytics,
		Metrics:   collector,
		Logger:    log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("address", cfg.Server.Address).
			Str("backend", cfg.Storage.Backend).
			Msg("server.starting")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server.failed")
		}
	case <-ctx.Done():
		log.Info().Msg("server.shutdown_requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server.shutdown_failed")
	}

	if err := resources.Close(); err != nil {
		log.Error().Err(err).Msg("server.resource_cleanup_failed")
	}

	log.Info().Msg("server.stopped")
}

func defaultConfigPath() string {
	if path := os.Getenv("CRB_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}
