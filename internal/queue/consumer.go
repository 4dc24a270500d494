package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer drains the event queues and appends one line per event to an
// activity log file.
type Consumer struct {
	url  string
	path string
	log  *zap.Logger

	mu sync.Mutex
}

// NewConsumer writes to path, creating its directory when needed.
func NewConsumer(url, path string, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{url: url, path: path, log: log}
}

// Run connects, consumes and reconnects with exponential backoff capped at
// 30s until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("activity consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("activity consumer loop ended, reconnecting", zap.Error(err))
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

type delivery struct {
	queue string
	msg   amqp.Delivery
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("activity consumer set QoS failed", zap.Error(err))
	}

	out := make(chan delivery)
	var wg sync.WaitGroup
	for _, q := range []string{TransferCompletedQueue, TicketStatusChangedQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		wg.Add(1)
		go func(q string, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for m := range msgs {
				select {
				case out <- delivery{queue: q, msg: m}:
				case <-ctx.Done():
					return
				}
			}
		}(q, msgs)
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-out:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(d.queue, d.msg.Body); err != nil {
				c.log.Warn("activity consumer handle failed", zap.String("queue", d.queue), zap.Error(err))
				_ = d.msg.Nack(false, false) // no requeue, avoids a poison loop
				continue
			}
			_ = d.msg.Ack(false)
		}
	}
}

// Decode parses body as the event type owned by queue.
func Decode(queue string, body []byte) (Event, error) {
	var ev Event
	switch queue {
	case TransferCompletedQueue:
		var e TransferCompletedEvent
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		ev = e
	case TicketStatusChangedQueue:
		var e TicketStatusChangedEvent
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		ev = e
	default:
		return nil, fmt.Errorf("unknown queue %q", queue)
	}
	return ev, nil
}

// Handle decodes one message and appends its line to the activity log.
func (c *Consumer) Handle(queue string, body []byte) error {
	ev, err := Decode(queue, body)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return writeLine(f, ev)
}

func writeLine(w io.Writer, ev Event) error {
	if _, err := io.WriteString(w, ev.LogLine()+"\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
