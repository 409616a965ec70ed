package notification

import (
	"context"
	"time"
)

type ListFilter struct {
	RecipientID    string
	RecipientModel RecipientKind
	UnreadOnly     bool
	Offset         int
	Limit          int
}

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, f ListFilter) ([]Notification, int64, error)
	// MarkRead flags the notification read only when it belongs to the recipient.
	MarkRead(ctx context.Context, notificationID, recipientID string, kind RecipientKind, at time.Time) error
}
