package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/arduinodayph/adph-merch/api/controllers"
	"github.com/arduinodayph/adph-merch/api/routes"
	"github.com/arduinodayph/adph-merch/internal/auth"
	"github.com/arduinodayph/adph-merch/internal/cart"
	"github.com/arduinodayph/adph-merch/internal/catalog"
	"github.com/arduinodayph/adph-merch/internal/checkout"
	"github.com/arduinodayph/adph-merch/internal/notifications"
	"github.com/arduinodayph/adph-merch/internal/orders"
	"github.com/arduinodayph/adph-merch/internal/users"
	"github.com/arduinodayph/adph-merch/pkg/auth/session"
	"github.com/arduinodayph/adph-merch/pkg/config"
	"github.com/arduinodayph/adph-merch/pkg/db"
	"github.com/arduinodayph/adph-merch/pkg/enums"
	"github.com/arduinodayph/adph-merch/pkg/logger"
	"github.com/arduinodayph/adph-merch/pkg/metrics"
	"github.com/arduinodayph/adph-merch/pkg/migrate"
	"github.com/arduinodayph/adph-merch/pkg/redis"
	"github.com/arduinodayph/adph-merch/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, gcsClient.Close()) }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:     catalog.NewRepository(dbClient.DB()),
		Cache:    redisClient,
		CacheTTL: cfg.Store.CatalogCacheTTL,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	cartStore, err := cart.NewStore(redisClient, cfg.Store.CartTTL, logg)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Store:   cartStore,
		Catalog: catalogService,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	notifier, err := notifications.NewService(notifications.ServiceParams{
		Sender:  notifications.NewSMTPSender(cfg.SMTP),
		Logger:  logg,
		Metrics: orderMetrics,
	})
	if err != nil {
		return err
	}
	if !cfg.SMTP.HasCredentials() {
		logg.Warn(ctx, "smtp credentials missing, status emails will fail")
	}

	deliveryFee, err := decimal.NewFromString(cfg.Store.DeliveryFee)
	if err != nil {
		return err
	}
	ordersRepo := orders.NewRepository(dbClient.DB())
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:           cartStore,
		Receipts:        gcsClient.BucketHandle(cfg.GCS.BucketName),
		Orders:          ordersRepo,
		Notifier:        notifier,
		Metrics:         orderMetrics,
		Logger:          logg,
		DeliveryFee:     deliveryFee,
		MaxReceiptBytes: cfg.Store.ReceiptMaxBytes,
	})
	if err != nil {
		return err
	}

	statusSet, err := enums.ParseOrderStatusSet(cfg.Store.StatusSet)
	if err != nil {
		return err
	}
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:              ordersRepo,
		Tx:                dbClient,
		Notifier:          notifier,
		Metrics:           orderMetrics,
		Logger:            logg,
		StatusSet:         statusSet,
		StrictTransitions: cfg.Store.StrictTransitions,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"status_set": statusSet.Name(),
		"bucket":     gcsClient.DefaultBucket(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			httpMetrics,
			map[string]controllers.Pinger{
				"db":    dbClient,
				"redis": redisClient,
				"gcs":   gcsClient,
			},
			redisClient,
			authService,
			catalogService,
			cartService,
			checkoutService,
			ordersService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
