package mysql

import (
	"context"

	adminDomain "eduloan-backend/internal/domain/admin"

	"gorm.io/gorm"
)

type AdminRepository struct{ db *gorm.DB }

func NewAdminRepository(db *gorm.DB) *AdminRepository { return &AdminRepository{db: db} }

func (r *AdminRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&adminDomain.Admin{}).
		Where("is_active = ?", true).
		Order("id ASC").
		Pluck("admin_id", &ids).Error
	return ids, err
}
