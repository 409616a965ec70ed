package student

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("student not found")

// Table: students
type Student struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	StudentID string    `gorm:"column:student_id;size:32;not null;uniqueIndex:ux_students_student_id" json:"student_id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Email     string    `gorm:"column:email;size:255" json:"email"`
	Phone     string    `gorm:"column:phone;size:32" json:"phone"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Student) TableName() string { return "students" }

type Repository interface {
	GetByStudentID(ctx context.Context, studentID string) (*Student, error)
}
