package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appPayment "github.com/Zhima-Mochi/jewelshop/internal/application/payment"
	appShipping "github.com/Zhima-Mochi/jewelshop/internal/application/shipping"
	appShop "github.com/Zhima-Mochi/jewelshop/internal/application/shop"
	"github.com/Zhima-Mochi/jewelshop/internal/config"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/cart"
	domainOrder "github.com/Zhima-Mochi/jewelshop/internal/domain/order"
	"github.com/Zhima-Mochi/jewelshop/internal/domain/payment"
	domainProduct "github.com/Zhima-Mochi/jewelshop/internal/domain/product"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/id"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/jewelshop/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/observability/otelsetup"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/postgres"
	redisstore "github.com/Zhima-Mochi/jewelshop/internal/infrastructure/redis"
	"github.com/Zhima-Mochi/jewelshop/internal/infrastructure/shipping"
	"github.com/Zhima-Mochi/jewelshop/internal/observability"
	"github.com/Zhima-Mochi/jewelshop/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/jewelshop/internal/presentation/http"
	workerpresentation "github.com/Zhima-Mochi/jewelshop/internal/presentation/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

const tracerName = "jewelshop"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	baseLogger, err := logging.NewLogger(logging.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := otelsetup.Init(ctx, otelsetup.Config{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}

	counters, histograms := prometrics.Instruments(
		prometrics.New(prometheus.DefaultRegisterer, "", ""),
		observability.CounterSpecs,
		observability.HistogramSpecs,
	)
	tel := infraobs.New(
		oteltrace.NewWithProvider(tp, tracerName),
		zaplogger.New(baseLogger),
		counters,
		histograms,
	)

	catalog, closeCatalog, err := newCatalog(ctx, cfg, systemLogger)
	if err != nil {
		return err
	}
	defer closeCatalog()

	orders, closeOrders, err := newOrderRepository(ctx, cfg, systemLogger)
	if err != nil {
		return err
	}
	defer closeOrders()

	processor, err := appPayment.NewProcessor(payment.Method(cfg.PaymentMethod), tel,
		appPayment.WithSuccessRate(cfg.PaymentSuccessRate),
	)
	if err != nil {
		return err
	}

	// In-memory event bus carries ship requests to the shipping worker.
	bus := outbox.NewBus(tel, outbox.Options{})
	bus.Start(ctx)

	idGenerator := id.NewUUIDGenerator()
	shipWorker := appShipping.NewWorker(orders, memory.NewShipmentRepository(), bus, idGenerator, tel)
	workerpresentation.Register(bus, tel, "shipping", shipWorker.Handlers())

	shop := appShop.New(catalog, cart.Calculator{}, processor, shipping.NewDispatcher(bus),
		appShop.WithOrderRepository(orders),
		appShop.WithIDGenerator(idGenerator),
		appShop.WithObservability(tel),
	)

	handler := httppresentation.NewHandler(shop, catalog, orders, tel,
		httppresentation.WithTracerProvider(tp),
	)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
			zap.String("payment_method", cfg.PaymentMethod),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				zap.Error(err),
			)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			zap.Error(err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		systemLogger.Warn("event_bus_stop_error", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		systemLogger.Warn("tracer_shutdown_error", zap.Error(err))
	}
	return nil
}

type closer func()

func newCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domainProduct.Catalog, closer, error) {
	if cfg.RedisAddr == "" {
		logger.Info("catalog_store", zap.String("backend", "memory"))
		return memory.NewProductRepository(), func() {}, nil
	}

	client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("catalog_store", zap.String("backend", "redis"), zap.String("addr", cfg.RedisAddr))
	return redisstore.NewProductRepository(client, ""), func() { _ = client.Close() }, nil
}

func newOrderRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domainOrder.Repository, closer, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("order_store", zap.String("backend", "memory"))
		return memory.NewOrderRepository(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("postgres ping: %w", err)
	}
	repo := postgres.NewOrderRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Info("order_store", zap.String("backend", "postgres"))
	return repo, func() { _ = db.Close() }, nil
}
