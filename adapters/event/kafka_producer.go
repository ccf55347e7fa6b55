package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/spotme/internal/application/service"
	"github.com/khoahotran/spotme/internal/config"
	"github.com/khoahotran/spotme/pkg/logger"
)

const TopicPortfolioEvents = "portfolio.events"

// messageWriter is the slice of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	PortfolioEventsWriter messageWriter
	logger                logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'portfolio.events'
	portfolioWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        TopicPortfolioEvents,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{PortfolioEventsWriter: portfolioWriter, logger: log}, nil
}

// PublishPortfolioEvent keys messages by portfolio so one portfolio's
// events stay ordered within a partition.
func (c *KafkaProducerClient) PublishPortfolioEvent(ctx context.Context, e service.PortfolioEvent) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio event: %w", err)
	}
	err = c.PortfolioEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.PortfolioID.String()),
		Value: value,
		Time:  e.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to write '%s' event: %w", e.Type, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PortfolioEventsWriter != nil {
		if err := c.PortfolioEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close Kafka producer", err)
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

// DecodePortfolioEvent parses a message read from TopicPortfolioEvents.
func DecodePortfolioEvent(msg kafka.Message) (service.PortfolioEvent, error) {
	var e service.PortfolioEvent
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return e, fmt.Errorf("failed to unmarshal portfolio event: %w", err)
	}
	return e, nil
}
