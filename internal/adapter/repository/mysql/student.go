package mysql

import (
	"context"

	studentDomain "eduloan-backend/internal/domain/student"

	"gorm.io/gorm"
)

type StudentRepository struct{ db *gorm.DB }

func NewStudentRepository(db *gorm.DB) *StudentRepository { return &StudentRepository{db: db} }

func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*studentDomain.Student, error) {
	var out studentDomain.Student
	res := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&out)
	return &out, res.Error
}
