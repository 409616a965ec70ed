package adminmock

import (
	"context"

	domain "eduloan-backend/internal/domain/admin"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	ListActiveIDsFn func(ctx context.Context) ([]string, error)
}

func (m *Repo) ListActiveIDs(ctx context.Context) ([]string, error) {
	if m.ListActiveIDsFn != nil {
		return m.ListActiveIDsFn(ctx)
	}
	return nil, context.Canceled
}
