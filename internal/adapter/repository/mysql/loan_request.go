package mysql

import (
	"context"
	"errors"
	"fmt"

	lrDomain "eduloan-backend/internal/domain/loanrequest"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// transitionColumns are the only columns a lifecycle change may touch.
var transitionColumns = []string{
	"status",
	"pending_key",
	"accepted_key",
	"decision_decided_at",
	"decision_decided_by",
	"decision_reason",
	"decision_offered_amount",
	"decision_offered_roi",
	"acceptance_accepted",
	"acceptance_accepted_at",
	"updated_at",
}

type LoanRequestRepository struct{ db *gorm.DB }

func NewLoanRequestRepository(db *gorm.DB) *LoanRequestRepository {
	return &LoanRequestRepository{db: db}
}

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *LoanRequestRepository) Tx(ctx context.Context, fn func(repo lrDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LoanRequestRepository{db: tx})
	})
}

func (r *LoanRequestRepository) Create(ctx context.Context, l *lrDomain.LoanRequest) error {
	if l.Status == lrDomain.StatusPending && l.PendingKey == nil {
		l.PendingKey = lrDomain.PendingKeyFor(l.StudentID, l.NBFCID)
	}
	err := r.db.WithContext(ctx).Create(l).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && l.PendingKey != nil {
		return lrDomain.ErrDuplicatePending
	}
	return err
}

func (r *LoanRequestRepository) GetByRequestID(ctx context.Context, requestID string) (*lrDomain.LoanRequest, error) {
	var out lrDomain.LoanRequest
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*lrDomain.LoanRequest, error) {
	var out lrDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) GetPendingByStudentAndNBFC(ctx context.Context, studentID, nbfcID string) (*lrDomain.LoanRequest, error) {
	var out lrDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("student_id = ? AND nbfc_id = ? AND status = ?", studentID, nbfcID, lrDomain.StatusPending).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) GetAcceptedByStudent(ctx context.Context, studentID string) (*lrDomain.LoanRequest, error) {
	var out lrDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("student_id = ? AND acceptance_accepted = ?", studentID, true).
		First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) SaveTransition(ctx context.Context, l *lrDomain.LoanRequest) error {
	if l.ID == 0 {
		return fmt.Errorf("save transition: %w", gorm.ErrMissingWhereClause)
	}
	err := r.db.WithContext(ctx).Model(l).Select(transitionColumns).Updates(l).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) && l.AcceptedKey != nil {
		return lrDomain.ErrOtherAccepted
	}
	return err
}

func (r *LoanRequestRepository) CancelOtherPending(ctx context.Context, studentID, keepRequestID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&lrDomain.LoanRequest{}).
		Where("student_id = ? AND status = ? AND request_id <> ?", studentID, lrDomain.StatusPending, keepRequestID).
		Updates(map[string]any{
			"status":      lrDomain.StatusCancelled,
			"pending_key": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *LoanRequestRepository) List(ctx context.Context, f lrDomain.ListFilter) ([]lrDomain.LoanRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&lrDomain.LoanRequest{})
	if f.StudentID != "" {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.NBFCID != "" {
		q = q.Where("nbfc_id = ?", f.NBFCID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []lrDomain.LoanRequest
	err := q.Order("created_at DESC, id DESC").Offset(f.Offset).Limit(f.Limit).Find(&out).Error
	return out, total, err
}
