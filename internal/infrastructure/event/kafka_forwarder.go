package event

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of kafka.Writer the forwarder uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter creates a writer for the configured topic. Messages with the same key
// (entity id) land on the same partition, so changes to one record stay ordered.
func NewKafkaWriter(cfg config.EventsConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.KafkaBatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// KafkaForwarder is an event handler that writes every change notification to Kafka
type KafkaForwarder struct {
	writer MessageWriter
	logger *zap.Logger
}

// NewKafkaForwarder creates a forwarder writing through writer
func NewKafkaForwarder(writer MessageWriter, logger *zap.Logger) *KafkaForwarder {
	return &KafkaForwarder{
		writer: writer,
		logger: logger.Named("kafka"),
	}
}

// EventTypes implements shared.EventHandler
func (f *KafkaForwarder) EventTypes() []string {
	return []string{shared.EntityChangedEventType}
}

// Handle implements shared.EventHandler
func (f *KafkaForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	value, err := Serialize(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.AggregateID().String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
			{Key: "entity", Value: []byte(event.AggregateType())},
		},
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to forward event %s: %w", event.EventID(), err)
	}

	f.logger.Debug("Forwarded change event",
		zap.String("event_id", event.EventID().String()),
		zap.String("entity", event.AggregateType()),
	)
	return nil
}

// Close flushes and closes the writer
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
