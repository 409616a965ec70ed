package uow

import (
	"context"

	"eduloan-backend/internal/domain/loanrequest"
	"eduloan-backend/internal/domain/nbfc"
)

// Repos are bound to the surrounding transaction.
type Repos struct {
	LoanRequests loanrequest.Repository
	NBFCs        nbfc.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the request row first, then pass it in
	WithinLoanRequestTx(ctx context.Context, requestID string, fn func(r Repos, l *loanrequest.LoanRequest) error) error
}
