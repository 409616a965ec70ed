package analysismock

import (
	"context"

	domain "eduloan-backend/internal/domain/analysis"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	GetForStudentFn       func(ctx context.Context, analysisID, studentID string) (*domain.History, error)
	GetLatestForStudentFn func(ctx context.Context, studentID string) (*domain.History, error)
}

func (m *Repo) GetForStudent(ctx context.Context, analysisID, studentID string) (*domain.History, error) {
	if m.GetForStudentFn != nil {
		return m.GetForStudentFn(ctx, analysisID, studentID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetLatestForStudent(ctx context.Context, studentID string) (*domain.History, error) {
	if m.GetLatestForStudentFn != nil {
		return m.GetLatestForStudentFn(ctx, studentID)
	}
	return nil, context.Canceled
}
