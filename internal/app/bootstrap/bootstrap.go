package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	electionengine "hoa/contexts/governance/election-engine"
	"hoa/contexts/governance/election-engine/adapters/memory"
	postgresadapter "hoa/contexts/governance/election-engine/adapters/postgres"
	"hoa/contexts/governance/election-engine/adapters/redislock"
	"hoa/contexts/governance/election-engine/ports"
	contractsv1 "hoa/contracts/events/v1"
	"hoa/internal/platform/config"
	"hoa/internal/platform/db"
	"hoa/internal/platform/logging"
	"hoa/internal/platform/messaging"
	"hoa/internal/platform/metrics"
	platformredis "hoa/internal/platform/redis"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type WorkerApp struct {
	module       electionengine.Module
	postgres     *db.Postgres
	kafka        *messaging.Kafka
	redis        *platformredis.Client
	registry     *prometheus.Registry
	metricsAddr  string
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout).
		With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(ctx, cfg.PostgresDSN, db.Options{MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute})
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, cfg.ServiceName, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	if err := kafka.EnsureTopics(ctx, cfg.KafkaPartitions, cfg.KafkaReplicationFactor, contractsv1.Topics()...); err != nil {
		logger.Warn("kafka topic provisioning failed; relying on broker auto-creation",
			"event", "bootstrap_kafka_topics_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
	}

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		kafka.Close()
		_ = pg.Close()
		return nil, err
	}
	var locker ports.ElectionLocker = memory.NewStore(nil)
	if redisClient != nil {
		locker = redislock.NewLocker(redisClient.Client,
			redislock.WithTTL(cfg.ElectionLockTTL),
			redislock.WithLogger(logger),
		)
	} else {
		logger.Warn("REDIS_URL not set; election locks are process local",
			"event", "bootstrap_redis_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := electionengine.NewModule(electionengine.Dependencies{
		Registry:                  repo,
		Locker:                    locker,
		Memberships:               repo,
		Outbox:                    repo,
		Dedup:                     repo,
		Publisher:                 kafka,
		Subscriber:                kafka,
		Clock:                     postgresadapter.SystemClock{},
		IDGen:                     postgresadapter.UUIDGenerator{},
		Metrics:                   metrics.New(registry),
		Tracer:                    otel.Tracer("hoa/election-engine"),
		BatchSize:                 cfg.OutboxBatchSize,
		DedupTTL:                  7 * 24 * time.Hour,
		DisableOpener:             !cfg.EnableElectionOpener,
		DisableMembershipConsumer: !cfg.EnableMembershipConsumer,
		Logger:                    logger,
	})

	return &WorkerApp{
		module:       module,
		postgres:     pg,
		kafka:        kafka,
		redis:        redisClient,
		registry:     registry,
		metricsAddr:  cfg.MetricsAddr,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

// Run starts the membership consumer, the metrics endpoint and the
// opener/relay loop, and returns when ctx is done or any of them fails.
func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.module.MembershipConsumer.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return metrics.Serve(ctx, w.metricsAddr, w.registry, w.logger)
	})
	g.Go(func() error {
		return w.pollLoop(ctx)
	})
	return g.Wait()
}

func (w *WorkerApp) pollLoop(ctx context.Context) error {
	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", interval.String(),
	)

	for {
		w.runCycle(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// runCycle runs the opener and then the relay. A failed step is logged and
// retried on the next tick.
func (w *WorkerApp) runCycle(ctx context.Context) {
	if err := w.module.Opener.RunOnce(ctx); err != nil && ctx.Err() == nil {
		w.logger.Warn("election opener cycle failed; retrying next tick",
			"event", "bootstrap_election_opener_retry",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
	}
	if err := w.module.OutboxRelay.RunOnce(ctx); err != nil && ctx.Err() == nil {
		w.logger.Warn("outbox relay cycle failed; retrying next tick",
			"event", "bootstrap_outbox_relay_retry",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
	}
}

func (w *WorkerApp) Close() error {
	if w.kafka != nil {
		w.kafka.Close()
	}
	var errs []error
	if w.redis != nil {
		errs = append(errs, w.redis.Close())
	}
	if w.postgres != nil {
		errs = append(errs, w.postgres.Close())
	}
	return errors.Join(errs...)
}

// Migrate creates or updates the election engine schema.
func Migrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(ctx, cfg.PostgresDSN, db.Options{})
	if err != nil {
		return err
	}
	defer pg.Close()
	return postgresadapter.Migrate(pg.DB.WithContext(ctx))
}
