package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	pkgkafka "github.com/bibbank/credit-simulator/pkg/kafka"
	"github.com/bibbank/credit-simulator/pkg/observability"
	pkgpostgres "github.com/bibbank/credit-simulator/pkg/postgres"

	"github.com/bibbank/credit-simulator/internal/application/usecase"
	"github.com/bibbank/credit-simulator/internal/domain/port"
	"github.com/bibbank/credit-simulator/internal/domain/service"
	"github.com/bibbank/credit-simulator/internal/infrastructure/config"
	"github.com/bibbank/credit-simulator/internal/infrastructure/messaging"
	"github.com/bibbank/credit-simulator/internal/infrastructure/metrics"
	"github.com/bibbank/credit-simulator/internal/infrastructure/persistence/memory"
	pgRepo "github.com/bibbank/credit-simulator/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/bibbank/credit-simulator/internal/infrastructure/persistence/redis"
	"github.com/bibbank/credit-simulator/internal/infrastructure/workerpool"
	grpcPresentation "github.com/bibbank/credit-simulator/internal/presentation/grpc"
	"github.com/bibbank/credit-simulator/internal/presentation/rest"
)

const purgeInterval = 10 * time.Minute

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting credit-simulator",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"workers", cfg.WorkerPoolSize,
		"status_store", cfg.StatusStore,
	)

	// Tracing is optional.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	// Metrics: OTel instruments and the business collector share one registry.
	registry := prometheus.NewRegistry()
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		Registry:    registry,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	otel.SetMeterProvider(meterProvider)
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort
	collector := metrics.NewCollector(registry)

	// Domain services.
	pool := workerpool.New(cfg.WorkerPoolSize)
	defer pool.Close()

	engine := service.NewSimulationEngine(service.NewAgePolicy(), service.NewInterestRatePolicy(), time.Now)
	dispatcher := service.NewBatchDispatcher(engine, pool, time.Now)

	// Status store.
	checks := map[string]rest.ReadinessCheck{}
	statuses, closeStore, err := newStatusStore(ctx, cfg, checks, logger)
	if err != nil {
		logger.Error("failed to initialize batch status store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Out-of-band hand-off.
	var queue port.BatchQueue
	if cfg.Kafka.Enabled() {
		producer, perr := pkgkafka.NewProducer(pkgkafka.Config{
			ClientID:      cfg.ServiceName,
			Brokers:       cfg.Kafka.Brokers,
			SASLMechanism: cfg.Kafka.SASLMechanism,
			SASLUsername:  cfg.Kafka.SASLUsername,
			SASLPassword:  cfg.Kafka.SASLPassword,
			TLS:           cfg.Kafka.TLS,
			WriteTimeout:  10 * time.Second,
		})
		if perr != nil {
			logger.Error("failed to create kafka producer", "error", perr)
			os.Exit(1)
		}
		defer func() { _ = producer.Close() }() //nolint:errcheck // flushed on shutdown
		queue = messaging.NewKafkaBatchQueue(producer, cfg.Kafka.Topic, logger)
		logger.Info("deferred batches published to kafka", "topic", cfg.Kafka.Topic)
	} else {
		queue = messaging.NewLoggingBatchQueue(logger)
		logger.Warn("no kafka brokers configured, deferred batches are only logged")
	}

	// Use cases.
	simulateUC := usecase.NewSimulateUseCase(engine, collector, logger, time.Now)
	batchUC := usecase.NewSimulateBatchUseCase(dispatcher, queue, statuses, collector, logger, time.Now)
	statusUC := usecase.NewGetBatchStatusUseCase(statuses)

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewSimulationHandler(simulateUC, batchUC, statusUC, logger),
		grpcPresentation.ServerConfig{
			Reflection:  cfg.GRPC.Reflection,
			TLSCertFile: cfg.GRPC.TLSCertFile,
			TLSKeyFile:  cfg.GRPC.TLSKeyFile,
		},
		logger,
	)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server.
	var limiter *rest.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = rest.NewRateLimiter(cfg.RateLimitRPS, time.Now)
	}
	router := rest.NewRouter(rest.RouterConfig{
		Simulations: rest.NewSimulationHandler(simulateUC, batchUC, statusUC, logger, time.Now),
		Health:      rest.NewHealthHandler(cfg.ServiceName, checks, logger),
		Metrics:     metricsHandler,
		RateLimiter: limiter,
		Logger:      logger,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr())
		if serveErr := grpcServer.Serve(cfg.GRPCAddr()); serveErr != nil {
			errCh <- serveErr
		}
	}()
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr())
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case serveErr := <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-simulator stopped")
}

// newStatusStore builds the configured batch status repository, registers its
// readiness check and returns a release function.
func newStatusStore(
	ctx context.Context,
	cfg config.Config,
	checks map[string]rest.ReadinessCheck,
	logger *slog.Logger,
) (port.BatchStatusRepository, func(), error) {
	switch cfg.StatusStore {
	case config.StoreRedis:
		client := redisRepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		logger.Info("batch statuses stored in redis", "addr", cfg.Redis.Addr)
		return redisRepo.NewBatchStatusRepo(client, cfg.StatusTTL), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		pgCfg := pkgpostgres.Config{
			Host:            cfg.DB.Host,
			Port:            cfg.DB.Port,
			User:            cfg.DB.User,
			Password:        cfg.DB.Password,
			Database:        cfg.DB.Name,
			SSLMode:         cfg.DB.SSLMode,
			ApplicationName: cfg.ServiceName,
		}

		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		defer dbCancel()
		pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
		if err != nil {
			return nil, nil, err
		}

		version, err := pkgpostgres.RunMigrations(pgCfg.DSN(), cfg.DB.MigrationsPath)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("batch statuses stored in postgres", "schema_version", version)

		checks["postgres"] = pkgpostgres.HealthCheck(pool)
		repo := pgRepo.NewBatchStatusRepo(pool, cfg.StatusTTL, time.Now)
		go purgeExpired(ctx, repo, logger)
		return repo, pool.Close, nil

	default:
		logger.Info("batch statuses stored in memory", "ttl", cfg.StatusTTL)
		return memory.NewBatchStatusRepo(cfg.StatusTTL, time.Now), func() {}, nil
	}
}

func purgeExpired(ctx context.Context, repo *pgRepo.BatchStatusRepo, logger *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purge expired batch statuses failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired batch statuses", "count", n)
			}
		}
	}
}
