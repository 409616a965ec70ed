package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrClosed = errors.New("queue: closed")

// Job is the envelope stored on the wire by every queue implementation.
type Job struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Payload     json.RawMessage `json:"payload"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`
	// RetryAt is set on redelivery; consumers hold the job until then.
	RetryAt *time.Time `json:"retry_at,omitempty"`
}

// Handler processes one job. A non-nil error schedules a retry until
// MaxAttempts is reached.
type Handler func(ctx context.Context, j Job) error

type Producer interface {
	Enqueue(ctx context.Context, name string, payload any) (string, error)
	Close() error
}

type Consumer interface {
	// Consume blocks until ctx is cancelled.
	Consume(ctx context.Context, h Handler) error
}

type Options struct {
	MaxAttempts int
	Backoff     time.Duration
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Backoff < 0 {
		o.Backoff = 0
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	return o
}

func NewJob(name string, payload any, maxAttempts int, now time.Time) (Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, err
	}
	return Job{
		ID:          uuid.NewString(),
		Name:        name,
		Payload:     raw,
		MaxAttempts: maxAttempts,
		EnqueuedAt:  now.UTC(),
	}, nil
}

// Exhausted reports whether a job that has just failed may not run again.
func (j Job) Exhausted() bool { return j.Attempts >= j.MaxAttempts }

// Backoff is base * 2^(attempts-1), attempts counted after the failure.
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts <= 1 || base <= 0 {
		return base
	}
	if attempts > 16 {
		attempts = 16
	}
	return base << (attempts - 1)
}
