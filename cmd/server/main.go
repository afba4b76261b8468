package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"userdir/internal/directory/handler"
	"userdir/internal/directory/service"
	"userdir/internal/docstore"
	"userdir/internal/events"
	"userdir/internal/faultlog"
	"userdir/internal/mailer"
	"userdir/internal/platform/config"
	"userdir/internal/platform/httpserver"
	"userdir/internal/platform/logger"
	"userdir/internal/platform/metrics"
	"userdir/internal/platform/middleware"
	platformredis "userdir/internal/platform/redis"
	"userdir/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, health, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		log.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	m := metrics.New()
	broker := events.NewBroker(log)
	faults := faultlog.NewStoreSink(store, log)

	welcomeMailer := mailer.New(broker, faults, log,
		mailer.WithDelay(cfg.EmailSendDelay),
		mailer.WithOutcome(func() bool { return rand.Float64() < cfg.EmailSuccessRate }),
		mailer.WithMetrics(m),
	)

	directory := service.New(store, broker, welcomeMailer, faults, log, service.WithMetrics(m))

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.CORS(cfg.FrontendOrigin))

	handler.New(directory, log).Register(r)
	events.NewSSEHandler(broker, log).Register(r)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := health(r.Context()); err != nil {
			log.ErrorContext(r.Context(), "health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting userdir", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newStore selects the document store backend from configuration. Postgres
// wins when both are configured; with neither, records live in memory. The
// returned health func reports the backend's reachability for /healthz.
func newStore(ctx context.Context, cfg config.Server) (docstore.Store, func(context.Context) error, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		store := docstore.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return store, pool.Ping, pool.Close, nil

	case cfg.RedisURL != "":
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return docstore.NewRedisStore(client.Client), client.Health, func() { _ = client.Close() }, nil

	default:
		healthy := func(context.Context) error { return nil }
		return docstore.NewMemoryStore(), healthy, func() {}, nil
	}
}
