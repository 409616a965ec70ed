package mysql

import (
	"context"
	"time"

	notifDomain "eduloan-backend/internal/domain/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notifDomain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) List(ctx context.Context, f notifDomain.ListFilter) ([]notifDomain.Notification, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&notifDomain.Notification{}).
		Where("recipient_id = ? AND recipient_model = ?", f.RecipientID, f.RecipientModel)
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []notifDomain.Notification
	err := q.Order("created_at DESC, id DESC").Offset(f.Offset).Limit(f.Limit).Find(&out).Error
	return out, total, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string, kind notifDomain.RecipientKind, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&notifDomain.Notification{}).
		Where("notification_id = ? AND recipient_id = ? AND recipient_model = ?", notificationID, recipientID, kind).
		Updates(map[string]any{"is_read": true, "read_at": at.UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notifDomain.ErrNotFound
	}
	return nil
}
