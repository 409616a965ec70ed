package studentmock

import (
	"context"

	domain "eduloan-backend/internal/domain/student"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	GetByStudentIDFn func(ctx context.Context, studentID string) (*domain.Student, error)
}

func (m *Repo) GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error) {
	if m.GetByStudentIDFn != nil {
		return m.GetByStudentIDFn(ctx, studentID)
	}
	return nil, context.Canceled
}
