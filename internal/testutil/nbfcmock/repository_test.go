package nbfcmock

import (
	"context"
	"errors"
	"testing"

	domain "eduloan-backend/internal/domain/nbfc"
)

func TestRepo_Defaults(t *testing.T) {
	m := &Repo{}
	if _, err := m.GetByNBFCID(context.Background(), "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByNBFCID default: %v", err)
	}
	if err := m.IncrementDecisionStats(context.Background(), "x", domain.OutcomeApproved); err != nil {
		t.Fatalf("IncrementDecisionStats default: %v", err)
	}
}

func TestRepo_Forwards(t *testing.T) {
	var gotOutcome domain.Outcome
	m := &Repo{
		GetByNBFCIDFn: func(_ context.Context, id string) (*domain.NBFC, error) {
			return &domain.NBFC{NBFCID: id}, nil
		},
		IncrementDecisionStatsFn: func(_ context.Context, _ string, o domain.Outcome) error {
			gotOutcome = o
			return nil
		},
	}
	n, err := m.GetByNBFCID(context.Background(), "nb1")
	if err != nil || n.NBFCID != "nb1" {
		t.Fatalf("GetByNBFCID = %+v, %v", n, err)
	}
	_ = m.IncrementDecisionStats(context.Background(), "nb1", domain.OutcomeRejected)
	if gotOutcome != domain.OutcomeRejected {
		t.Fatalf("outcome = %s", gotOutcome)
	}
}
