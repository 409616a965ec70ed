package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	domain "eduloan-backend/internal/domain/notification"
	"eduloan-backend/internal/infrastructure/logging"
	"eduloan-backend/internal/infrastructure/queue"
	"eduloan-backend/internal/testutil/notificationmock"
	"eduloan-backend/pkg/id"
)

func TestWorker_StoresNotification(t *testing.T) {
	var stored *domain.Notification
	repo := &notificationmock.Repo{
		CreateFn: func(_ context.Context, n *domain.Notification) error {
			stored = n
			return nil
		},
	}
	w := NewWorker(repo, logging.Discard())
	fixed := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	if err := w.Handle(context.Background(), jobFor(t, intent())); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if stored == nil {
		t.Fatal("nothing stored")
	}
	if !id.Valid(stored.NotificationID) {
		t.Fatalf("notification id = %q", stored.NotificationID)
	}
	if stored.RecipientModel != domain.RecipientNBFC || stored.Type != domain.TypeLoanRequestReceived || stored.IsRead {
		t.Fatalf("stored = %+v", stored)
	}
	if !stored.CreatedAt.Equal(fixed) {
		t.Fatalf("created_at = %v", stored.CreatedAt)
	}
	var data map[string]any
	if err := json.Unmarshal(stored.Data, &data); err != nil || data["request_id"] != "rq1" {
		t.Fatalf("data = %s, %v", stored.Data, err)
	}
}

func TestWorker_RejectsInvalidIntents(t *testing.T) {
	repo := &notificationmock.Repo{
		CreateFn: func(context.Context, *domain.Notification) error {
			t.Fatal("invalid intent must not be stored")
			return nil
		},
	}
	w := NewWorker(repo, logging.Discard())

	noTitle := intent()
	noTitle.Title = ""
	badKind := intent()
	badKind.RecipientModel = "Robot"

	cases := []struct {
		name string
		job  queue.Job
		want error
	}{
		{"missing title", jobFor(t, noTitle), domain.ErrMissingField},
		{"unknown kind", jobFor(t, badKind), domain.ErrUnknownKind},
		{"garbage payload", queue.Job{Name: JobName, Payload: json.RawMessage(`"x"`)}, domain.ErrMalformedIntent},
		{"foreign job", queue.Job{Name: "email", Payload: json.RawMessage(`{}`)}, domain.ErrMalformedIntent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := w.Handle(context.Background(), tc.job); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestWorker_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	w := NewWorker(&notificationmock.Repo{
		CreateFn: func(context.Context, *domain.Notification) error { return boom },
	}, logging.Discard())
	if err := w.Handle(context.Background(), jobFor(t, intent())); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}

// Full path through a Redis queue: one good intent stored once, one bad
// intent retried to exhaustion and never stored.
func TestDispatchToWorker_ThroughRedisQueue(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q := queue.NewRedisQueue(rdb, "notification-test", queue.Options{MaxAttempts: 3, Backoff: 0}, logging.Discard())
	d := NewDispatcher(q, logging.Discard())

	stored := make(chan domain.Notification, 4)
	w := NewWorker(&notificationmock.Repo{
		CreateFn: func(_ context.Context, n *domain.Notification) error {
			stored <- *n
			return nil
		},
	}, logging.Discard())

	calls := make(chan string, 8)
	handler := func(ctx context.Context, j queue.Job) error {
		err := w.Handle(ctx, j)
		calls <- j.ID
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if r := d.Dispatch(ctx, intent()); !r.OK() {
		t.Fatalf("dispatch good: %v", r.Err)
	}
	bad := intent()
	bad.Message = ""
	badRes := d.Dispatch(ctx, bad)
	if !badRes.OK() {
		t.Fatalf("dispatch bad: %v", badRes.Err)
	}

	m := queue.NewMaintainer(q, logging.Discard(), "@every 1s")
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() { <-m.Stop().Done() }()
	go func() { _ = q.Consume(ctx, handler) }()

	badRuns := 0
	deadline := time.After(8 * time.Second)
	for badRuns < 3 {
		select {
		case jid := <-calls:
			if jid == badRes.JobID {
				badRuns++
			}
		case <-deadline:
			t.Fatalf("bad job ran %d times, want 3", badRuns)
		}
	}

	if len(stored) != 1 {
		t.Fatalf("stored %d notifications, want 1", len(stored))
	}
	n := <-stored
	if n.Message == "" || n.RecipientID != "nbfc1" {
		t.Fatalf("stored = %+v", n)
	}

	// exhausted: nothing left anywhere
	time.Sleep(1200 * time.Millisecond)
	w8, a, dl, err := q.Len(context.Background())
	if err != nil || w8 != 0 || a != 0 || dl != 0 {
		t.Fatalf("queue not drained: waiting=%d active=%d delayed=%d err=%v", w8, a, dl, err)
	}
}
