package notification

import (
	"context"
	"log/slog"
	"sync/atomic"

	domain "eduloan-backend/internal/domain/notification"
	"eduloan-backend/internal/infrastructure/queue"
)

// JobName tags notification jobs on the shared queue.
const JobName = "notification"

var _ domain.Notifier = (*Dispatcher)(nil)

// Dispatcher puts intents on the notification queue. Dispatch never blocks
// the caller on delivery and never returns an error the caller must handle.
type Dispatcher struct {
	q      queue.Producer
	log    *slog.Logger
	closed atomic.Bool
}

func NewDispatcher(q queue.Producer, log *slog.Logger) *Dispatcher {
	return &Dispatcher{q: q, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, in domain.Intent) domain.Result {
	if d.closed.Load() {
		d.log.Warn("notification dropped: dispatcher closed", "type", in.Type, "recipient_id", in.RecipientID)
		return domain.Result{Err: queue.ErrClosed}
	}
	jobID, err := d.q.Enqueue(ctx, JobName, in)
	if err != nil {
		d.log.Error("notification enqueue failed",
			"type", in.Type,
			"recipient_id", in.RecipientID,
			"recipient_model", in.RecipientModel,
			"error", err,
		)
		return domain.Result{Err: err}
	}
	d.log.Debug("notification enqueued", "job_id", jobID, "type", in.Type, "recipient_id", in.RecipientID)
	return domain.Result{JobID: jobID}
}

// Close stops accepting intents and closes the producer.
func (d *Dispatcher) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	return d.q.Close()
}
