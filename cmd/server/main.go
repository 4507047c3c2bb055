package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"userbase/internal/admin"
	httpapi "userbase/internal/http"
	"userbase/internal/notify"
	"userbase/internal/platform/config"
	"userbase/internal/platform/httpserver"
	"userbase/internal/platform/logger"
	platmetrics "userbase/internal/platform/metrics"
	platredis "userbase/internal/platform/redis"
	"userbase/internal/session"
	"userbase/internal/user/handler"
	"userbase/internal/user/metrics"
	"userbase/internal/user/service"
	"userbase/internal/user/store"
	"userbase/pkg/platform/audit"
	"userbase/pkg/platform/audit/kafka"
	"userbase/pkg/platform/audit/publisher"
	auditmem "userbase/pkg/platform/audit/store/memory"
	"userbase/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userStore, closeStore, err := buildUserStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, closeSessions, err := buildSessions(cfg, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	auditSink, closeSink, err := buildAuditSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()

	auditPublisher := publisher.NewPublisher(auditSink,
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log),
		publisher.WithBreaker(circuit.New("audit-sink")),
	)
	defer auditPublisher.Close()

	svc := service.New(userStore,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(metrics.New()),
		service.WithMailer(notify.NewLogMailer(log)),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Users:       handler.New(svc, log),
		Admin:       admin.New(svc, log),
		AdminToken:  cfg.AdminToken,
		Logger:      log,
		Sessions:    sessions,
		HTTPMetrics: platmetrics.NewHTTP(),
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting userbase", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildUserStore(cfg config.Server, log *slog.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, user records stay in memory")
		return store.NewMemory(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	return store.NewPostgres(db), func() { db.Close() }, nil
}

func buildSessions(cfg config.Server, log *slog.Logger) (session.Checker, func(), error) {
	client, err := platredis.New(cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		// No shared session store; the user routes run unguarded.
		log.Warn("REDIS_URL not set, session guard disabled")
		return nil, func() {}, nil
	}
	return session.NewRedisStore(client.Client), func() { client.Close() }, nil
}

func buildAuditSink(ctx context.Context, cfg config.Server, log *slog.Logger) (audit.Sink, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn("KAFKA_BROKERS not set, audit events stay in memory")
		return auditmem.NewInMemoryStore(), func() {}, nil
	}

	sink, err := kafka.NewSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, fmt.Errorf("connect kafka: %w", err)
	}
	return sink, sink.Close, nil
}
