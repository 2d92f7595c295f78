// Package worker runs background jobs that live alongside the HTTP server.
package worker

import (
	"context"
	"errors"
	"time"

	"barbershop-booking/internal/data/entity"
	"barbershop-booking/internal/data/repository"
	"barbershop-booking/pkg/utils"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutboxPublisher relays committed booking events to Kafka, one topic per event type.
type OutboxPublisher struct {
	outbox    repository.OutboxRepository
	writer    MessageWriter
	pollEvery time.Duration
	batchSize int
	log       *zap.Logger
}

// NewOutboxPublisher returns nil when no brokers are configured.
func NewOutboxPublisher(outbox repository.OutboxRepository, cfg utils.KafkaConfig, log *zap.Logger) *OutboxPublisher {
	if len(cfg.Brokers) == 0 {
		log.Warn("Outbox publisher disabled, no kafka brokers configured")
		return nil
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newOutboxPublisher(outbox, writer, cfg, log)
}

func newOutboxPublisher(outbox repository.OutboxRepository, writer MessageWriter, cfg utils.KafkaConfig, log *zap.Logger) *OutboxPublisher {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &OutboxPublisher{
		outbox:    outbox,
		writer:    writer,
		pollEvery: cfg.PollEvery,
		batchSize: cfg.BatchSize,
		log:       log.With(zap.String("worker", "outbox")),
	}
}

// Run polls until ctx is done, then closes the writer.
func (p *OutboxPublisher) Run(ctx context.Context) {
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.log.Warn("Failed to close kafka writer", zap.Error(err))
		}
	}()

	p.log.Info("Outbox publisher started",
		zap.Duration("poll_every", p.pollEvery),
		zap.Int("batch_size", p.batchSize),
	)

	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Outbox publisher stopped")
			return
		case <-ticker.C:
			if _, err := p.PublishOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				p.log.Error("Outbox publish failed", zap.Error(err))
			}
		}
	}
}

// PublishOnce drains one batch. Events stay pending when the write fails.
func (p *OutboxPublisher) PublishOnce(ctx context.Context) (int, error) {
	n, err := p.outbox.PublishPending(ctx, p.batchSize, p.write)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.log.Debug("Outbox events published", zap.Int("count", n))
	}
	return n, nil
}

func (p *OutboxPublisher) write(ctx context.Context, events []*entity.OutboxEvent) error {
	msgs := make([]kafka.Message, len(events))
	for i, evt := range events {
		msgs[i] = kafka.Message{
			Topic: evt.EventType,
			Key:   []byte(evt.AggregateID.String()),
			Value: evt.Payload,
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(evt.EventID.String())},
				{Key: "event_type", Value: []byte(evt.EventType)},
			},
			Time: evt.CreatedAt,
		}
	}
	return p.writer.WriteMessages(ctx, msgs...)
}
