package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	settlementapp "github.com/lendingdesk/backend/internal/application/settlement"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/infrastructure/auth"
	"github.com/lendingdesk/backend/internal/infrastructure/cache"
	"github.com/lendingdesk/backend/internal/infrastructure/config"
	"github.com/lendingdesk/backend/internal/infrastructure/event"
	"github.com/lendingdesk/backend/internal/infrastructure/logger"
	"github.com/lendingdesk/backend/internal/infrastructure/persistence"
	"github.com/lendingdesk/backend/internal/infrastructure/telemetry"
	"github.com/lendingdesk/backend/internal/interfaces/http/handler"
	"github.com/lendingdesk/backend/internal/interfaces/http/middleware"
	"github.com/lendingdesk/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting settlement engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.Settlement.Timezone),
	)

	ctx := context.Background()

	// Telemetry providers go first so otelgin and otelgorm pick up the globals
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		_ = meterProvider.Shutdown(context.Background())
	}()
	meter := meterProvider.Meter("lendingdesk/settlement")

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry), log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if _, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		}
	}

	// Redis is optional outside production
	idempotencyStore, err := cache.NewIdempotencyStore(ctx, cfg.Redis, cfg.App.Env != "production", log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	eventBus := event.NewInMemoryEventBus(log)
	if err := subscribeHandlers(eventBus, db, idempotencyStore, meter, cfg.Settlement, log); err != nil {
		log.Fatal("Failed to register event handlers", zap.Error(err))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	uow := persistence.NewGormUnitOfWork(db.DB)
	repos := persistence.NewRepositories(db.DB)
	poster := settlementapp.NewLedgerPoster(log)
	commissionService := settlementapp.NewCommissionService(uow, repos, poster, eventBus, log)
	loanService := settlementapp.NewLoanService(uow, repos, commissionService, poster, eventBus, log,
		settlementapp.LoanServiceConfig{DefaultCommissionPercent: cfg.Settlement.DefaultCommissionPercent})
	pendingView := settlementapp.NewPendingCommissionView(repos.Loans, repos.Commissions, log, cfg.Settlement.Location())
	ledgerQueries := settlementapp.NewLedgerQueryService(repos.Transactions)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := newEngine(cfg, log)

	health := handler.NewHealthHandler(cfg.App.Name, map[string]handler.HealthCheck{
		"database":    db.Ping,
		"idempotency": storeCheck(idempotencyStore),
	})
	engine.GET("/health", health.Health)

	requesterCfg := middleware.RequesterConfig{Logger: log}
	if cfg.JWT.Enabled {
		requesterCfg.Verifier = auth.NewVerifier(cfg.JWT)
	}
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(middleware.Requester(requesterCfg)).
		RegisterSettlement(router.SettlementHandlers{
			Loans:       handler.NewLoanHandler(loanService),
			Commissions: handler.NewCommissionHandler(commissionService, pendingView),
			Ledger:      handler.NewLedgerHandler(ledgerQueries),
		}).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// newEngine builds the gin engine with the shared middleware chain:
// request id, panic recovery, access log, tracing, security headers, CORS
// and the body size limit.
func newEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   []string{"/health"},
	}))
	engine.Use(middleware.SpanFinalizer())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	return engine
}

// subscribeHandlers wires the audit trail and the business metrics to the
// settlement events. The audit handler is deduplicated by event id.
func subscribeHandlers(
	bus *event.InMemoryEventBus,
	db *persistence.Database,
	store shared.IdempotencyStore,
	meter metric.Meter,
	settlementCfg config.SettlementConfig,
	log *zap.Logger,
) error {
	recorder := settlementapp.NewAuditRecorder(persistence.NewGormAuditLogRepository(db.DB), log)
	idempotency := shared.DefaultIdempotencyConfig()
	idempotency.TTL = settlementCfg.AuditDedupTTL
	auditHandler := event.NewIdempotentHandler(
		"audit",
		settlementapp.NewAuditEventHandler(recorder, log),
		store,
		log,
		event.WithIdempotencyConfig(idempotency),
	)
	bus.Subscribe(auditHandler)

	metrics, err := telemetry.NewSettlementMetrics(meter)
	if err != nil {
		return err
	}
	bus.Subscribe(metrics)

	log.Info("Event handlers registered",
		zap.Strings("audit_events", auditHandler.EventTypes()),
		zap.Strings("metric_events", metrics.EventTypes()),
	)
	return nil
}

// storeCheck reports the idempotency store as healthy when a lookup succeeds
func storeCheck(store shared.IdempotencyStore) handler.HealthCheck {
	return func(ctx context.Context) error {
		_, err := store.IsProcessed(ctx, "health")
		return err
	}
}
