package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"studyhall/internal/shared/config"
	"studyhall/pkg/logger"
)

// Publisher delivers domain events to the configured broker
type Publisher interface {
	Publish(ctx context.Context, event *DomainEvent) error
	Close() error
}

// NewPublisher builds the publisher selected by EVENT_BROKER
func NewPublisher(cfg *config.Config) (Publisher, error) {
	switch cfg.Messaging.Broker {
	case "kafka":
		producerCfg := DefaultKafkaProducerConfig()
		producerCfg.Brokers = cfg.Messaging.KafkaBrokers
		producerCfg.Topic = cfg.Messaging.KafkaTopic
		return NewKafkaPublisher(producerCfg)
	case "rabbitmq", "amqp":
		return NewRabbitPublisher(cfg.Messaging.AMQPURL, cfg.Messaging.AMQPExchange)
	case "", "none", "log":
		return NewLogPublisher(), nil
	default:
		return nil, fmt.Errorf("unknown event broker %q", cfg.Messaging.Broker)
	}
}

// Emit publishes event and only logs a failure
func Emit(ctx context.Context, publisher Publisher, event *DomainEvent) {
	if publisher == nil || event == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.GetDefault().WithError(err).WarnContext(ctx, "domain event not published",
			slog.String("type", string(event.Type)),
			slog.String("user_id", event.UserID.String()),
		)
	}
}

// LogPublisher writes events to the application log only
type LogPublisher struct {
	logger *logger.Logger
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{logger: logger.GetDefault()}
}

func (p *LogPublisher) Publish(ctx context.Context, event *DomainEvent) error {
	p.logger.DebugContext(ctx, "domain event",
		slog.String("id", event.ID.String()),
		slog.String("type", string(event.Type)),
		slog.String("user_id", event.UserID.String()),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
