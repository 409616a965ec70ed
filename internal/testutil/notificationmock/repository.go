package notificationmock

import (
	"context"
	"sync"
	"time"

	domain "eduloan-backend/internal/domain/notification"
	"eduloan-backend/internal/infrastructure/queue"
)

var (
	_ domain.Repository = (*Repo)(nil)
	_ domain.Notifier   = (*Notifier)(nil)
	_ queue.Producer    = (*Producer)(nil)
)

type Repo struct {
	CreateFn   func(ctx context.Context, n *domain.Notification) error
	ListFn     func(ctx context.Context, f domain.ListFilter) ([]domain.Notification, int64, error)
	MarkReadFn func(ctx context.Context, notificationID, recipientID string, kind domain.RecipientKind, at time.Time) error
}

func (m *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Notification, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, context.Canceled
}

func (m *Repo) MarkRead(ctx context.Context, notificationID, recipientID string, kind domain.RecipientKind, at time.Time) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, notificationID, recipientID, kind, at)
	}
	return context.Canceled
}

// Notifier records every intent. DispatchFn, when set, decides the result.
type Notifier struct {
	DispatchFn func(ctx context.Context, in domain.Intent) domain.Result

	mu      sync.Mutex
	intents []domain.Intent
}

func (m *Notifier) Dispatch(ctx context.Context, in domain.Intent) domain.Result {
	m.mu.Lock()
	m.intents = append(m.intents, in)
	m.mu.Unlock()
	if m.DispatchFn != nil {
		return m.DispatchFn(ctx, in)
	}
	return domain.Result{JobID: "job"}
}

func (m *Notifier) Intents() []domain.Intent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Intent(nil), m.intents...)
}

type Producer struct {
	EnqueueFn func(ctx context.Context, name string, payload any) (string, error)
	CloseFn   func() error
}

func (m *Producer) Enqueue(ctx context.Context, name string, payload any) (string, error) {
	if m.EnqueueFn != nil {
		return m.EnqueueFn(ctx, name, payload)
	}
	return "", context.Canceled
}

func (m *Producer) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}
