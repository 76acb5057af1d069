package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/vendorhub/internal/domain"
	"github.com/vladislavdragonenkov/vendorhub/internal/gateway/memory"
	"github.com/vladislavdragonenkov/vendorhub/internal/gateway/postgres"
	"github.com/vladislavdragonenkov/vendorhub/internal/gateway/resthttp"
	"github.com/vladislavdragonenkov/vendorhub/internal/health"
	"github.com/vladislavdragonenkov/vendorhub/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/vendorhub/internal/metrics"
)

// Dependencies содержит собранные зависимости приложения.
type Dependencies struct {
	Gateway   domain.Gateway
	Publisher domain.EventPublisher
	Metrics   *metrics.OrderMetrics
	Health    *health.Handler
	Logger    *log.Entry

	store          *postgres.Store
	kafkaPublisher *kafka.Publisher
}

// NewDependencies выбирает драйвер гейтвея и опциональный Kafka publisher
// согласно конфигурации.
func NewDependencies(ctx context.Context, cfg Config, healthHandler *health.Handler, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Metrics: metrics.NewOrderMetrics(),
		Health:  healthHandler,
		Logger:  logger,
	}

	switch cfg.GatewayDriver {
	case DriverMemory, "":
		deps.Gateway = memory.NewGateway()
		logger.Info("using in-memory backend gateway")

	case DriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres gateway: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		deps.store = store
		deps.Gateway = postgres.NewGateway(store)
		if healthHandler != nil {
			healthHandler.Register("postgres", func() error {
				return store.Ping(context.Background())
			})
		}
		logger.Info("using postgres backend gateway")

	case DriverRemote:
		if cfg.RemoteBaseURL == "" {
			return nil, fmt.Errorf("remote gateway requires base URL")
		}
		client := resthttp.NewClient(cfg.RemoteBaseURL, resthttp.StaticToken(cfg.RemoteToken), deps.Metrics, logger)
		deps.Gateway = client
		if healthHandler != nil {
			healthHandler.Register("backend", func() error {
				return client.Ping(context.Background())
			})
		}
		logger.WithField("base_url", cfg.RemoteBaseURL).Info("using remote backend gateway")

	default:
		return nil, fmt.Errorf("unsupported gateway driver: %s", cfg.GatewayDriver)
	}

	// Kafka опционален: без брокеров события просто не публикуются.
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka publisher, continuing without kafka")
		} else {
			deps.kafkaPublisher = publisher
			deps.Publisher = publisher
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka publisher initialized")
		}
	}

	return deps, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d.kafkaPublisher != nil {
		if err := d.kafkaPublisher.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close kafka publisher")
		} else {
			d.Logger.Info("kafka publisher closed")
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
