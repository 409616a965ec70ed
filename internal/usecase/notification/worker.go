package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	domain "eduloan-backend/internal/domain/notification"
	"eduloan-backend/internal/infrastructure/queue"
	"eduloan-backend/pkg/id"

	"gorm.io/datatypes"
)

// Worker turns queued intents into stored notifications.
type Worker struct {
	repo domain.Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewWorker(repo domain.Repository, log *slog.Logger) *Worker {
	return &Worker{repo: repo, log: log, now: time.Now}
}

// Handle is a queue.Handler. Returning an error makes the queue retry.
func (w *Worker) Handle(ctx context.Context, j queue.Job) error {
	if j.Name != JobName {
		return fmt.Errorf("%w: unexpected job %q", domain.ErrMalformedIntent, j.Name)
	}
	var in domain.Intent
	if err := json.Unmarshal(j.Payload, &in); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedIntent, err)
	}
	if err := in.Validate(); err != nil {
		w.log.Warn("invalid notification job", "job_id", j.ID, "attempt", j.Attempts+1, "error", err)
		return err
	}

	var data datatypes.JSON
	if len(in.Data) > 0 {
		raw, err := json.Marshal(in.Data)
		if err != nil {
			return fmt.Errorf("%w: data: %v", domain.ErrMalformedIntent, err)
		}
		data = datatypes.JSON(raw)
	}

	n := &domain.Notification{
		NotificationID: id.NewID32(),
		RecipientID:    in.RecipientID,
		RecipientModel: in.RecipientModel,
		Type:           in.Type,
		Title:          in.Title,
		Message:        in.Message,
		Data:           data,
		CreatedAt:      w.now().UTC(),
	}
	if err := w.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	w.log.Info("notification stored",
		"job_id", j.ID,
		"notification_id", n.NotificationID,
		"type", n.Type,
		"recipient_id", n.RecipientID,
	)
	return nil
}
