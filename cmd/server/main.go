// Command server runs the discount eligibility gateway: the authoritative
// policy evaluator plus the advisory signal-detection and planning surface
// consumed by storefront embed scripts.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"discountgate/internal/advisory"
	advisoryhandler "discountgate/internal/advisory/handler"
	advisorymetrics "discountgate/internal/advisory/metrics"
	advisoryservice "discountgate/internal/advisory/service"
	"discountgate/internal/audit"
	"discountgate/internal/bridge"
	httpapi "discountgate/internal/http"
	"discountgate/internal/platform/config"
	"discountgate/internal/platform/httpserver"
	"discountgate/internal/platform/logger"
	redisplatform "discountgate/internal/platform/redis"
	policyhandler "discountgate/internal/policy/handler"
	policymetrics "discountgate/internal/policy/metrics"
	policyservice "discountgate/internal/policy/service"
	policystore "discountgate/internal/policy/store"
	"discountgate/internal/signal"
	signalhandler "discountgate/internal/signal/handler"
	signalmetrics "discountgate/internal/signal/metrics"
	signalservice "discountgate/internal/signal/service"
	"discountgate/internal/token"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := make(map[string]httpapi.HealthChecker)

	// Storage bridge: redis when configured, in-memory otherwise.
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	var durable, ephemeral bridge.KV
	if redisClient != nil {
		defer redisClient.Close()
		durable = bridge.NewRedisKV(redisClient.Client)
		ephemeral = durable
		health["redis"] = redisClient
	} else {
		kv := bridge.NewInMemoryKV()
		durable = kv
		ephemeral = kv
	}
	storageBridge := bridge.New(
		bridge.Keys{Prefix: cfg.BridgeKeyPrefix},
		durable, ephemeral,
		bridge.WithLogger(log),
	)

	// Policy store: postgres when configured.
	var policies policystore.Store = policystore.NewInMemory()
	if cfg.Postgres.URL != "" {
		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		policies = policystore.NewPostgres(db)
		health["postgres"] = pingChecker{db}
	}

	// Audit pipeline: always the in-process store, plus kafka when brokers
	// are configured, drained by a background worker.
	auditStore := audit.NewInMemoryStore()
	sinks := audit.Fanout{audit.NewStorePublisher(auditStore)}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err := audit.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPub.Close()
		sinks = append(sinks, kafkaPub)
	}
	inbox := audit.NewInboxPublisher(256, log)
	worker := audit.NewWorker(sinks, inbox.Inbox()).WithLogger(log)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	strategyCfg, err := signal.LoadStrategyConfig(cfg.StrategyConfigPath)
	if err != nil {
		log.Error("strategy config load failed", "error", err)
		os.Exit(1)
	}

	tokens := token.NewService(cfg.SessionTokenSecret, "discountgate", "storefront")

	policySvc, err := policyservice.New(policies,
		policyservice.WithLogger(log),
		policyservice.WithMetrics(policymetrics.New()),
		policyservice.WithAuditPublisher(inbox),
	)
	if err != nil {
		log.Error("policy service init failed", "error", err)
		os.Exit(1)
	}

	signalSvc := signalservice.New(
		signal.NewTotalDetector(strategyCfg, log),
		signal.NewSubscriptionDetector(storageBridge, log),
		storageBridge,
		policies,
		signalservice.WithLogger(log),
		signalservice.WithMetrics(signalmetrics.New()),
	)

	advisorySvc := advisoryservice.New(
		signalSvc,
		policies,
		advisory.NewPlanner(strategyCfg),
		advisoryservice.WithLogger(log),
		advisoryservice.WithMetrics(advisorymetrics.New()),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:          log,
		Tokens:          tokens,
		AdminSecretHash: cfg.AdminSecretHash,
		Policy:          policyhandler.New(policySvc, log),
		Signals:         signalhandler.New(signalSvc, log),
		Advisory:        advisoryhandler.New(advisorySvc, log),
		Health:          health,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting discountgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

type pingChecker struct {
	db *sql.DB
}

func (p pingChecker) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
