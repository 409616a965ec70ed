package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the part of *amqp.Channel the queue uses after setup.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// AMQPQueue uses one durable queue on the default exchange. Retries are
// republished with the attempt count and a RetryAt the consumer waits for.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   channel
	name string
	opts Options
	log  *slog.Logger
	now  func() time.Time

	mu     sync.Mutex
	closed bool
}

func sanitizeURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}
	parsed, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
		return "", fmt.Errorf("invalid AMQP scheme: %s", parsed.Scheme)
	}
	return clean, nil
}

func DialAMQP(rawURL, name string, opts Options, log *slog.Logger) (*AMQPQueue, error) {
	cleanURL, err := sanitizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp.Dial(cleanURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	opts = opts.withDefaults()
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.Qos(opts.Concurrency, 0, false); err != nil {
		conn.Close()
		return nil, err
	}
	return &AMQPQueue{
		conn: conn,
		ch:   ch,
		name: name,
		opts: opts,
		log:  log.With("queue", name, "driver", "amqp"),
		now:  time.Now,
	}, nil
}

func (q *AMQPQueue) Enqueue(ctx context.Context, name string, payload any) (string, error) {
	j, err := NewJob(name, payload, q.opts.MaxAttempts, q.now())
	if err != nil {
		return "", fmt.Errorf("encode job: %w", err)
	}
	if err := q.publish(ctx, j); err != nil {
		return "", fmt.Errorf("enqueue %s: %w", name, err)
	}
	return j.ID, nil
}

func (q *AMQPQueue) publish(ctx context.Context, j Job) error {
	body, err := json.Marshal(j)
	if err != nil {
		return err
	}
	// amqp channels are not safe for concurrent publishing.
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	return q.ch.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    j.ID,
		Type:         j.Name,
		Timestamp:    q.now().UTC(),
		Body:         body,
	})
}

func (q *AMQPQueue) Consume(ctx context.Context, h Handler) error {
	msgs, err := q.ch.Consume(q.name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	var wg sync.WaitGroup
	for i := 0; i < q.opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-msgs:
					if !ok {
						return
					}
					q.deliver(ctx, d, h)
				}
			}
		}()
	}
	wg.Wait()
	return nil
}

func (q *AMQPQueue) deliver(ctx context.Context, d amqp.Delivery, h Handler) {
	var j Job
	if err := json.Unmarshal(d.Body, &j); err != nil {
		q.log.Error("dropping undecodable job", "error", err)
		_ = d.Ack(false)
		return
	}
	if j.RetryAt != nil {
		if wait := j.RetryAt.Sub(q.now()); wait > 0 {
			sleepCtx(ctx, wait)
			if ctx.Err() != nil {
				_ = d.Nack(false, true)
				return
			}
		}
	}
	if err := h(ctx, j); err != nil {
		q.retry(context.WithoutCancel(ctx), d, j, err)
		return
	}
	_ = d.Ack(false)
}

func (q *AMQPQueue) retry(ctx context.Context, d amqp.Delivery, j Job, cause error) {
	j.Attempts++
	log := q.log.With("job_id", j.ID, "job", j.Name, "attempts", j.Attempts, "max_attempts", j.MaxAttempts)
	if j.Exhausted() {
		log.Error("job exhausted retries; dropping", "error", cause)
		_ = d.Ack(false)
		return
	}
	at := q.now().Add(Backoff(q.opts.Backoff, j.Attempts))
	j.RetryAt = &at
	if err := q.publish(ctx, j); err != nil {
		log.Error("republish failed; requeueing original", "error", err)
		_ = d.Nack(false, true)
		return
	}
	log.Warn("job failed; retry scheduled", "retry_at", at.UTC().Format(time.RFC3339Nano), "error", cause)
	_ = d.Ack(false)
}

func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	var errs []error
	if q.ch != nil {
		errs = append(errs, q.ch.Close())
	}
	if q.conn != nil {
		errs = append(errs, q.conn.Close())
	}
	return errors.Join(errs...)
}
