package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"flowershop/internal/artifact"
	"flowershop/internal/capability"
	"flowershop/internal/config"
	"flowershop/internal/events"
	"flowershop/internal/httpserver"
	"flowershop/internal/lock"
	"flowershop/internal/notify"
	"flowershop/internal/receipt"
	authsvc "flowershop/internal/service/auth"
	"flowershop/internal/service/catalog"
	ordersvc "flowershop/internal/service/order"
	"flowershop/internal/service/populate"
	receiptsvc "flowershop/internal/service/receipt"
	"flowershop/internal/store"
	"flowershop/internal/worker"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close()

	caps := capability.Resolve(cfg)
	logger.Printf("store=%s capabilities: %s", st.Driver, caps)

	files := artifact.NewFSWriter(cfg.UploadsDir, "receipts", cfg.FileURLHost)
	renderer := receipt.NewRenderer(receipt.DefaultStore, caps.PDF)
	resolver := populate.New(st.Products, st.AddOns, st.Users)
	receipts := receiptsvc.New(st.Orders, resolver, renderer, files, logger)
	mailer := notify.New(cfg.SMTP, caps.Email, files, logger)

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Printf("publishing order events to kafka topic=%s", cfg.KafkaTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Printf("close event publisher: %v", err)
		}
	}()

	var inflight lock.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		inflight = lock.Multi{lock.NewLocal(), lock.NewRedis(rdb, "flowershop:lock:")}
		logger.Printf("receipt locks shared through redis addr=%s", cfg.RedisAddr)
	}

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize, cfg.BackgroundTaskTimeout, logger)

	orderService := ordersvc.New(ordersvc.Deps{
		Orders:   st.Orders,
		AddOns:   st.AddOns,
		Resolver: resolver,
		Receipts: receipts,
		Notifier: mailer,
		Events:   publisher,
		Tasks:    pool,
		Inflight: inflight,
		LockTTL:  cfg.BackgroundTaskTimeout,
		Logger:   logger,
	})
	authService := authsvc.New(st.Users, cfg.JWTSecret, cfg.JWTTTL)
	catalogService := catalog.New(st.Products, st.Categories, st.AddOns)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, st.Ping, httpserver.Deps{
		AuthSvc:    authService,
		OrderSvc:   orderService,
		CatalogSvc: catalogService,
		UploadsDir: cfg.UploadsDir,
		Uploads:    files,
		CORSOrigin: cfg.CORSOrigin,
		Production: cfg.Production(),
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
	if err := pool.Shutdown(ctx); err != nil {
		logger.Printf("background tasks did not drain: %v", err)
	}
}
