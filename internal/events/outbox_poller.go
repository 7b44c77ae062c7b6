package events

import (
	"context"
	"log"
	"time"

	"github.com/ScriptsHub07/venda3/internal/notification"
	"github.com/ScriptsHub07/venda3/internal/order/repository"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type OutboxRepository interface {
	GetUnpublishedEvents(ctx context.Context, limit int) ([]*repository.OutboxEvent, error)
	MarkEventPublished(ctx context.Context, id uuid.UUID) error
}

// OutboxPoller drains pending order events into kafka. Publishing is at
// least once; consumers must tolerate replays.
type OutboxPoller struct {
	tick   time.Duration
	repo   OutboxRepository
	writer *kafka.Writer
}

func NewOutboxPoller(repo OutboxRepository, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  notification.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{tick: time.Second, repo: repo, writer: w}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("error closing kafka writer: %v", err)
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnpublishedEvents(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch outbox events %v", err)
		return
	}

	for _, event := range events {
		errPublish := p.publish(ctx, event)
		if errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		errMark := p.repo.MarkEventPublished(ctx, event.ID)
		if errMark != nil {
			log.Printf("failed to mark event as published id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *repository.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()), // order_id for ordering
		Value: event.Payload,                  // Already JSON from database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
