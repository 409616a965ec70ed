package mysql

import (
	"context"
	"fmt"

	nbfcDomain "eduloan-backend/internal/domain/nbfc"

	"gorm.io/gorm"
)

type NBFCRepository struct{ db *gorm.DB }

func NewNBFCRepository(db *gorm.DB) *NBFCRepository { return &NBFCRepository{db: db} }

func (r *NBFCRepository) GetByNBFCID(ctx context.Context, nbfcID string) (*nbfcDomain.NBFC, error) {
	var out nbfcDomain.NBFC
	res := r.db.WithContext(ctx).Where("nbfc_id = ?", nbfcID).First(&out)
	return &out, res.Error
}

func (r *NBFCRepository) IncrementDecisionStats(ctx context.Context, nbfcID string, o nbfcDomain.Outcome) error {
	var col string
	switch o {
	case nbfcDomain.OutcomeApproved:
		col = "stats_approved"
	case nbfcDomain.OutcomeRejected:
		col = "stats_rejected"
	default:
		return fmt.Errorf("unknown outcome %q", o)
	}
	res := r.db.WithContext(ctx).
		Model(&nbfcDomain.NBFC{}).
		Where("nbfc_id = ?", nbfcID).
		UpdateColumns(map[string]any{
			"stats_total_applications": gorm.Expr("stats_total_applications + 1"),
			col:                        gorm.Expr(col + " + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
