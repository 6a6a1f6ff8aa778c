package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"salesdesk-be/internal/auth"
	"salesdesk-be/internal/cache"
	"salesdesk-be/internal/config"
	"salesdesk-be/internal/dashboard"
	"salesdesk-be/internal/db"
	"salesdesk-be/internal/events"
	"salesdesk-be/internal/handler"
	"salesdesk-be/internal/lead"
	"salesdesk-be/internal/logger"
	"salesdesk-be/internal/metrics"
	"salesdesk-be/internal/middleware"
	"salesdesk-be/internal/order"
	"salesdesk-be/internal/product"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	eventBuffer     = 256
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	pub, closePub := newPublisher(cfg)
	defer closePub()

	dashCache, closeCache := newDashboardCache(cfg)
	defer closeCache()

	limiter := middleware.NewLoginLimiter()
	limiter.StartCleanup()
	defer limiter.Stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           setupRouter(cfg, database, pub, dashCache, limiter, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func setupRouter(
	cfg *config.Config,
	database *sql.DB,
	pub events.Publisher,
	dashCache dashboard.Cache,
	limiter *middleware.IPLimiter,
	reg *prometheus.Registry,
) http.Handler {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	m := metrics.New(reg)

	productRepo := product.NewRepository(database)
	orderRepo := order.NewRepository(database)
	leadRepo := lead.NewRepository(database)
	dashRepo := dashboard.NewRepository(database)

	return handler.NewRouter(handler.Deps{
		Orders:    order.NewService(order.NewUnitOfWork(database), orderRepo, pub, m),
		Products:  product.NewService(productRepo),
		Leads:     lead.NewService(leadRepo),
		Dashboard: dashboard.NewService(dashRepo, dashCache, cfg.DashboardCacheTTL),
		Sessions: auth.NewManager(auth.Options{
			Secret:       cfg.SessionSecret,
			Password:     cfg.AdminPassword,
			PasswordHash: cfg.AdminPasswordHash,
			Secure:       cfg.IsProduction(),
		}),
		LoginLimiter: limiter,
		Metrics:      m,
		Gatherer:     reg,
		CORSOrigins:  cfg.CORSOrigins,
		Ping:         database.PingContext,
	})
}

// newPublisher returns the Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func newPublisher(cfg *config.Config) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.L().Info("KAFKA_BROKERS not set, order events disabled")
		return events.NopPublisher{}, func() {}
	}

	p := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, eventBuffer)
	p.Start()
	logger.L().Info("publishing order events",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
	)
	return p, p.Close
}

func newDashboardCache(cfg *config.Config) (dashboard.Cache, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}

	client := cache.NewClient(cfg.RedisAddr)
	return cache.NewRedisCache(client, cfg.ServiceName), func() { _ = client.Close() }
}
