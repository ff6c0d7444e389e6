package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"medledger/internal/audit"
	"medledger/internal/domain"
	identityhandler "medledger/internal/identity/handler"
	"medledger/internal/identity/password"
	identityservice "medledger/internal/identity/service"
	"medledger/internal/identity/store"
	"medledger/internal/ledger"
	"medledger/internal/platform/config"
	"medledger/internal/platform/httpserver"
	"medledger/internal/platform/logger"
	"medledger/internal/platform/metrics"
	"medledger/internal/platform/postgres"
	platformredis "medledger/internal/platform/redis"
	recordshandler "medledger/internal/records/handler"
	recordsservice "medledger/internal/records/service"
	"medledger/internal/session"
	"medledger/internal/tokens"
	httptransport "medledger/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := map[string]httptransport.HealthCheck{}

	var users identityservice.UserStore
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		users = store.NewPostgresStore(db)
		health["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
	} else {
		log.Warn("no postgres DSN configured, using in-memory credential store")
		users = store.NewMemoryStore()
	}

	var sessions identityservice.SessionStore
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessions = session.NewRedisStore(redisClient.Client)
		health["redis"] = redisClient.Health
	} else {
		log.Warn("no redis URL configured, using in-memory session store")
		sessions = session.NewMemoryStore()
	}

	auditStore := audit.NewMemoryStore()
	publisher := audit.NewPublisher(auditStore, audit.WithLogger(log))
	var sink audit.Sink = audit.NopSink{}
	if len(cfg.AuditBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.AuditBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka audit sink unavailable", "error", err)
			os.Exit(1)
		}
		sink = kafkaSink
	}
	defer sink.Close()
	worker := audit.NewWorker(publisher.Inbox(), sink, log)

	operator := domain.Operator{Address: cfg.OperatorAddress, Key: cfg.OperatorKey}
	ledgerClient := ledger.NewHTTPClient(cfg.LedgerURL, operator, cfg.LedgerTimeout,
		ledger.WithLogger(log),
		ledger.WithMetrics(m),
	)

	tokenService := tokens.NewService(cfg.JWTSigningKey, "medledger")
	identitySvc := identityservice.New(
		users,
		password.NewBcrypt(cfg.BcryptCost),
		ledgerClient,
		sessions,
		tokenService,
		identityservice.WithLogger(log),
		identityservice.WithMetrics(m),
		identityservice.WithAuditPublisher(publisher),
		identityservice.WithSessionTTL(cfg.SessionTTL),
	)
	recordsSvc := recordsservice.New(ledgerClient,
		recordsservice.WithLogger(log),
		recordsservice.WithMetrics(m),
		recordsservice.WithAuditPublisher(publisher),
	)

	router := httptransport.NewRouter(log, m,
		httptransport.NewHealthHandler(health),
		identityhandler.New(identitySvc, log),
		recordshandler.New(recordsSvc, identitySvc, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting medledger", "addr", cfg.Addr, "ledger", cfg.LedgerURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return worker.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
