package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"
)

const Topic = "order-events"

// Consumer reads order.paid events and dispatches the confirmation email.
type Consumer struct {
	mailer Mailer
	reader *kafka.Reader
}

func NewConsumer(mailer Mailer, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  "notifications",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{mailer: mailer, reader: reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	var confirmation OrderConfirmation
	if err := json.Unmarshal(m.Value, &confirmation); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}
	if confirmation.CustomerEmail == "" {
		log.Printf("order %s has no customer email, skipping confirmation", confirmation.OrderID)
		return
	}

	subject, body := ComposeOrderConfirmation(confirmation)
	if err := c.mailer.Send(confirmation.CustomerEmail, subject, body); err != nil {
		log.Printf("failed to send confirmation for order %s: %v", confirmation.OrderID, err)
		return
	}

	log.Printf("confirmation sent for order %s", confirmation.OrderID)
}
