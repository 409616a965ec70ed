package nbfc

import "context"

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

type Repository interface {
	GetByNBFCID(ctx context.Context, nbfcID string) (*NBFC, error)
	// IncrementDecisionStats bumps total_applications and the outcome counter
	// in a single UPDATE.
	IncrementDecisionStats(ctx context.Context, nbfcID string, o Outcome) error
}
