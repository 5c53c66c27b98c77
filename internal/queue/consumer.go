// Package queue contains the background consumer that listens to the
// sales.completed queue and appends one line per sale to sales.log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// SalesConsumer appends sale events to <Dir>/sales.log.
type SalesConsumer struct {
	URL string
	Dir string
	Log *zap.Logger
}

// Run connects to the broker, declares the durable sales queue and
// consumes until ctx is cancelled.  Connection failures are retried with
// exponential backoff capped at 30s; a message that cannot be handled is
// rejected without requeue so it cannot loop.
func (sc SalesConsumer) Run(ctx context.Context) error {
	log := sc.Log
	if log == nil {
		log = zap.NewNop()
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(sc.URL)
		if err != nil {
			log.Warn("sales consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = sc.consumeLoop(ctx, conn, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("sales consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (sc SalesConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("sales consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(SalesQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(SalesQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(sc.Dir, d.Body); err != nil {
				log.Error("sales consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event and appends it to dir/sales.log.
func HandleMessage(dir string, body []byte) error {
	var ev SaleCompletedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.SaleID == "" {
		return errors.New("event without sale_id")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "sales.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders the single log line for ev, newline included.
func FormatLine(ev SaleCompletedEvent) string {
	return fmt.Sprintf("[%s] Sale completed | sale_id=%s | identity=%s | tickets=%d | products=%d | total=%d cents | seats=[%s]\n",
		ev.CompletedAt, ev.SaleID, ev.Identity, ev.Tickets, ev.ProductUnits, ev.TotalCents, strings.Join(ev.Seats, ","))
}
