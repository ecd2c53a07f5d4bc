package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"aihelper/internal/adapter/repo"
	"aihelper/internal/billing"
	"aihelper/internal/db"
	"aihelper/internal/http/handlers"
	httpapi "aihelper/internal/http/httpapi"
	"aihelper/internal/identity"
	"aihelper/internal/infra"
	"aihelper/internal/infra/geoip"
	"aihelper/internal/ledger"
	"aihelper/internal/metrics"
	"aihelper/internal/middleware"
	"aihelper/internal/providers/chat"
	"aihelper/internal/providers/payment"
	"aihelper/internal/reporting"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)

	users := repo.NewUserRepository(runner)
	accounts := repo.NewQuotaAccountRepository(runner)
	purchases := repo.NewPurchaseRepository(runner)
	messages := repo.NewMessageRepository(runner)
	stats := repo.NewStatsRepository(runner)

	generator, err := chat.NewOpenAIGenerator(chat.OpenAIOptions{
		APIKey:       cfg.OpenAIAPIKey,
		Model:        cfg.OpenAIModel,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure chat generator")
	}

	gateway, err := payment.NewYooKassaGateway(payment.YooKassaOptions{
		ShopID:        cfg.YooKassaShopID,
		SecretKey:     cfg.YooKassaSecretKey,
		BaseURL:       cfg.YooKassaBaseURL,
		WebhookSecret: cfg.WebhookSecret,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure payment gateway")
	}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	ledgerSvc := ledger.NewService(accounts, logger)
	billingSvc := billing.NewService(billing.ServiceOptions{
		Purchases: purchases,
		Users:     users,
		Gateway:   gateway,
		Ledger:    ledgerSvc,
		Geo:       geo,
		Recorder:  collector,
		Logger:    logger,
		ReturnURL: cfg.PaymentReturnURL,
	})

	app := &handlers.App{
		Ledger:    ledgerSvc,
		Billing:   billingSvc,
		Identity:  identity.NewResolver(users, logger),
		Reporting: reporting.NewService(stats, logger),
		Generator: generator,
		Messages:  messages,
		Metrics:   collector,
		Logger:    logger,
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin)
	defer limiter.Stop()

	router := httpapi.NewRouter(httpapi.RouterOptions{
		App:      app,
		Config:   cfg,
		Limiter:  limiter,
		Gatherer: registry,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
