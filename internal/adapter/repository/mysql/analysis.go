package mysql

import (
	"context"

	analysisDomain "eduloan-backend/internal/domain/analysis"

	"gorm.io/gorm"
)

type AnalysisRepository struct{ db *gorm.DB }

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

func (r *AnalysisRepository) GetForStudent(ctx context.Context, analysisID, studentID string) (*analysisDomain.History, error) {
	var out analysisDomain.History
	res := r.db.WithContext(ctx).
		Where("analysis_id = ? AND student_id = ?", analysisID, studentID).
		First(&out)
	return &out, res.Error
}

func (r *AnalysisRepository) GetLatestForStudent(ctx context.Context, studentID string) (*analysisDomain.History, error) {
	var out analysisDomain.History
	res := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}
