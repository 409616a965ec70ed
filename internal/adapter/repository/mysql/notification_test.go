package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "eduloan-backend/internal/domain/notification"
	"eduloan-backend/pkg/id"

	"gorm.io/datatypes"
)

func makeNotification(recipient string, kind domain.RecipientKind) *domain.Notification {
	return &domain.Notification{
		NotificationID: id.NewID32(),
		RecipientID:    recipient,
		RecipientModel: kind,
		Type:           domain.TypeLoanRequestReceived,
		Title:          "New loan request",
		Message:        "A student sent you a loan request",
		Data:           datatypes.JSON(`{"request_id":"r1"}`),
	}
}

func TestNotification_CreateListMarkRead(t *testing.T) {
	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	first := makeNotification(nbfcX, domain.RecipientNBFC)
	second := makeNotification(nbfcX, domain.RecipientNBFC)
	foreign := makeNotification(nbfcX, domain.RecipientStudent) // same id, other kind
	for _, n := range []*domain.Notification{first, second, foreign} {
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rows, total, err := repo.List(ctx, domain.ListFilter{RecipientID: nbfcX, RecipientModel: domain.RecipientNBFC, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("List total=%d len=%d, want 2", total, len(rows))
	}
	if string(rows[0].Data) == "" {
		t.Fatalf("data payload lost: %+v", rows[0])
	}

	if err := repo.MarkRead(ctx, first.NotificationID, nbfcX, domain.RecipientNBFC, time.Now()); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	rows, total, err = repo.List(ctx, domain.ListFilter{RecipientID: nbfcX, RecipientModel: domain.RecipientNBFC, UnreadOnly: true, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || rows[0].NotificationID != second.NotificationID {
		t.Fatalf("unread list = %d %+v", total, rows)
	}

	err = repo.MarkRead(ctx, foreign.NotificationID, nbfcX, domain.RecipientNBFC, time.Now())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("MarkRead of another recipient kind: want ErrNotFound, got %v", err)
	}
}
