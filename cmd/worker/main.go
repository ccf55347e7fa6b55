package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/adapters/event"
	"github.com/khoahotran/spotme/adapters/persistence"
	portfolioUC "github.com/khoahotran/spotme/internal/application/usecase/portfolio"
	"github.com/khoahotran/spotme/internal/config"
	"github.com/khoahotran/spotme/pkg/logger"
	"github.com/khoahotran/spotme/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting SpotMe Worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "spotme-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracer", err)
	}
	defer tp.Shutdown(context.Background())

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Repositories
	portfolioRepo := persistence.NewPostgresPortfolioRepo(dbPool, appLogger)
	publicCache := persistence.NewRedisPortfolioCache(redisClient, cfg.Redis.PublicTTL)

	// Worker Use Case
	processPublishUC := portfolioUC.NewProcessPublishEventUseCase(portfolioRepo, publicCache, appLogger)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicPortfolioEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicPortfolioEvents))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		l := appLogger.With(zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)))

		payload, err := event.DecodePortfolioEvent(msg)
		if err != nil {
			l.Error("Failed to decode event, skipping", err)
			commitMessage(ctx, consumer, msg, l)
			continue
		}

		if err := processPublishUC.Execute(ctx, payload); err != nil {
			l.Error("Failed to process event", err, zap.String("portfolio_id", payload.PortfolioID.String()))
			continue
		}

		commitMessage(ctx, consumer, msg, l)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, l logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		l.Error("Failed to commit message", err)
	}
}
