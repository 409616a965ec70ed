package notification

import (
	"context"
	"time"

	domain "eduloan-backend/internal/domain/notification"
	"eduloan-backend/pkg/page"
)

// Usecase serves a recipient's own notifications.
type Usecase struct {
	repo domain.Repository
	now  func() time.Time
}

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r, now: time.Now} }

type ListInput struct {
	RecipientID string
	Kind        domain.RecipientKind
	UnreadOnly  bool
	Page        int
	Limit       int
}

type ListOutput struct {
	Notifications []domain.Notification `json:"notifications"`
	Pagination    page.Info             `json:"pagination"`
}

func (u *Usecase) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	p, limit := page.Normalize(in.Page, in.Limit)
	rows, total, err := u.repo.List(ctx, domain.ListFilter{
		RecipientID:    in.RecipientID,
		RecipientModel: in.Kind,
		UnreadOnly:     in.UnreadOnly,
		Offset:         page.Offset(p, limit),
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Notification{}
	}
	return &ListOutput{Notifications: rows, Pagination: page.New(p, limit, total)}, nil
}

func (u *Usecase) MarkRead(ctx context.Context, notificationID, recipientID string, kind domain.RecipientKind) error {
	return u.repo.MarkRead(ctx, notificationID, recipientID, kind, u.now())
}
