package notification

import "context"

// Result is the outcome of a best-effort enqueue. A failed dispatch never
// fails the operation that produced it.
type Result struct {
	JobID string
	Err   error
}

func (r Result) OK() bool { return r.Err == nil }

// Notifier accepts intents for asynchronous delivery.
type Notifier interface {
	Dispatch(ctx context.Context, in Intent) Result
}
