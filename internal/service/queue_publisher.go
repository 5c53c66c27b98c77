// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore failures without interrupting
// the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/model"
	q "github.com/iliyamo/cinema-pos/internal/queue"
)

// Publisher sends sale events to the broker at URL.  An empty URL turns
// every publish into a no-op, which is how the server runs without a
// broker.
type Publisher struct {
	url string
	log *zap.Logger
}

func New(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, log: log}
}

// Enabled reports whether a broker URL is configured.
func (p *Publisher) Enabled() bool { return p.url != "" }

// PublishSaleCompleted publishes a SaleCompletedEvent to the
// "sales.completed" queue.  A connection is opened per call; checkouts
// are rare enough that pooling is not worth it.  Messages are persistent.
func (p *Publisher) PublishSaleCompleted(ctx context.Context, sale model.Sale) error {
	if !p.Enabled() {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(q.SalesQueueName, true, false, false, false, nil); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(q.NewSaleCompletedEvent(sale))
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    sale.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.SalesQueueName, false, false, pub); err != nil {
		p.log.Warn("rabbitmq: publish failed", zap.String("sale_id", sale.ID), zap.Error(err))
		return err
	}
	return nil
}
