package loanrequestmock

import (
	"context"

	domain "eduloan-backend/internal/domain/loanrequest"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error, reads to context.Canceled.
type Repo struct {
	CreateFn                     func(ctx context.Context, l *domain.LoanRequest) error
	GetByRequestIDFn             func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	GetByRequestIDForUpdateFn    func(ctx context.Context, requestID string) (*domain.LoanRequest, error)
	GetPendingByStudentAndNBFCFn func(ctx context.Context, studentID, nbfcID string) (*domain.LoanRequest, error)
	GetAcceptedByStudentFn       func(ctx context.Context, studentID string) (*domain.LoanRequest, error)
	SaveTransitionFn             func(ctx context.Context, l *domain.LoanRequest) error
	CancelOtherPendingFn         func(ctx context.Context, studentID, keepRequestID string) (int64, error)
	ListFn                       func(ctx context.Context, f domain.ListFilter) ([]domain.LoanRequest, int64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.LoanRequest, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingByStudentAndNBFC(ctx context.Context, studentID, nbfcID string) (*domain.LoanRequest, error) {
	if m.GetPendingByStudentAndNBFCFn != nil {
		return m.GetPendingByStudentAndNBFCFn(ctx, studentID, nbfcID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetAcceptedByStudent(ctx context.Context, studentID string) (*domain.LoanRequest, error) {
	if m.GetAcceptedByStudentFn != nil {
		return m.GetAcceptedByStudentFn(ctx, studentID)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveTransition(ctx context.Context, l *domain.LoanRequest) error {
	if m.SaveTransitionFn != nil {
		return m.SaveTransitionFn(ctx, l)
	}
	return nil
}

func (m *Repo) CancelOtherPending(ctx context.Context, studentID, keepRequestID string) (int64, error) {
	if m.CancelOtherPendingFn != nil {
		return m.CancelOtherPendingFn(ctx, studentID, keepRequestID)
	}
	return 0, nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.LoanRequest, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, context.Canceled
}
