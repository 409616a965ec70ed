package loanrequest

import "context"

type ListFilter struct {
	StudentID string
	NBFCID    string
	Status    Status // empty: any
	Offset    int
	Limit     int
}

type Repository interface {
	// Create inserts a new request; a second pending row for the same pair
	// fails with ErrDuplicatePending.
	Create(ctx context.Context, l *LoanRequest) error

	GetByRequestID(ctx context.Context, requestID string) (*LoanRequest, error)
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*LoanRequest, error)
	GetPendingByStudentAndNBFC(ctx context.Context, studentID, nbfcID string) (*LoanRequest, error)
	GetAcceptedByStudent(ctx context.Context, studentID string) (*LoanRequest, error)

	// SaveTransition writes only the lifecycle columns (status, decision,
	// acceptance, pending key). Identity and snapshot columns are never updated.
	SaveTransition(ctx context.Context, l *LoanRequest) error

	// CancelOtherPending cancels every pending request of the student except
	// keepRequestID and returns how many rows changed.
	CancelOtherPending(ctx context.Context, studentID, keepRequestID string) (int64, error)

	List(ctx context.Context, f ListFilter) ([]LoanRequest, int64, error)
}
