package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"vouch/internal/platform/config"
	"vouch/internal/platform/httpserver"
	"vouch/internal/platform/logger"
	"vouch/internal/platform/middleware"
	"vouch/internal/platform/postgres"
	"vouch/internal/platform/redis"
	"vouch/internal/trust/events"
	"vouch/internal/trust/handler"
	"vouch/internal/trust/metrics"
	"vouch/internal/trust/scorer"
	"vouch/internal/trust/service"
	"vouch/internal/trust/signals"
	"vouch/internal/trust/store"
	"vouch/internal/trust/worker"
	"vouch/pkg/platform/httputil"
)

// main wires dependencies and owns process lifecycle. Domain logic lives in
// the internal/trust packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	strategy, err := scorer.ForName(cfg.Trust.Strategy)
	if err != nil {
		return err
	}

	var (
		userSource     signals.UserSource
		businessSource signals.BusinessSource
		ratings        service.RatingStore
		db             *sql.DB
	)
	if cfg.Postgres.DSN != "" {
		db, err = postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()

		signalSource := signals.NewPostgres(db)
		userSource = signalSource
		businessSource = signalSource
		ratings = store.NewPostgres(db)
	} else {
		// No database configured: run against in-memory stores. Useful for
		// local development and demos only.
		log.Warn("VOUCH_POSTGRES_DSN not set, using in-memory stores")
		memorySignals := signals.NewMemory()
		userSource = memorySignals
		businessSource = memorySignals
		ratings = store.NewMemory()
	}

	m := metrics.New()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithStrategy(strategy),
	}

	cacheClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if cacheClient != nil {
		defer cacheClient.Close()
		opts = append(opts, service.WithCache(store.NewRatingCache(cacheClient.Client, cfg.Redis.RatingTTL)))
		log.Info("rating cache enabled", "ttl", cfg.Redis.RatingTTL.String())
	}

	svc, err := service.New(userSource, businessSource, ratings, opts...)
	if err != nil {
		return err
	}

	pool, err := worker.New(svc, cfg.Trust.WorkerCount, cfg.Trust.QueueSize,
		worker.WithLogger(log),
		worker.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	var consumer *events.Consumer
	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err = events.New(cfg.Kafka, pool, log)
		if err != nil {
			return err
		}
		log.Info("signal-event consumer enabled",
			"topic", cfg.Kafka.Topic,
			"group", cfg.Kafka.Group,
		)
	}

	router := newRouter(cfg, log, svc, db, cacheClient)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := pool.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if consumer != nil {
		g.Go(func() error {
			err := consumer.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		log.Info("starting trust engine", "addr", cfg.Addr, "strategy", strategy.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return httpserver.Drain(srv)
	})

	return g.Wait()
}

func newRouter(cfg config.Config, log *slog.Logger, svc *service.Service, db *sql.DB, cache *redis.Client) http.Handler {
	trustHandler := handler.New(svc, log)
	validator := middleware.NewHMACValidator(cfg.JWTSigningKey)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/healthz", healthz(db, cache))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireServiceAuth(validator, log))
		trustHandler.Register(r)
	})

	return r
}

// healthz reports readiness of the configured backing stores. Optional
// dependencies that are not configured do not fail the check.
func healthz(db *sql.DB, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "postgres": err.Error()})
				return
			}
		}
		if cache != nil {
			if err := cache.Health(ctx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": err.Error()})
				return
			}
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
