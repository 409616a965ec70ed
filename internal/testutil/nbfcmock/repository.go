package nbfcmock

import (
	"context"

	domain "eduloan-backend/internal/domain/nbfc"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	GetByNBFCIDFn            func(ctx context.Context, nbfcID string) (*domain.NBFC, error)
	IncrementDecisionStatsFn func(ctx context.Context, nbfcID string, o domain.Outcome) error
}

func (m *Repo) GetByNBFCID(ctx context.Context, nbfcID string) (*domain.NBFC, error) {
	if m.GetByNBFCIDFn != nil {
		return m.GetByNBFCIDFn(ctx, nbfcID)
	}
	return nil, context.Canceled
}

func (m *Repo) IncrementDecisionStats(ctx context.Context, nbfcID string, o domain.Outcome) error {
	if m.IncrementDecisionStatsFn != nil {
		return m.IncrementDecisionStatsFn(ctx, nbfcID, o)
	}
	return nil
}
