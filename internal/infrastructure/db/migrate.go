package db

import (
	"eduloan-backend/internal/domain/admin"
	"eduloan-backend/internal/domain/analysis"
	"eduloan-backend/internal/domain/loanrequest"
	"eduloan-backend/internal/domain/nbfc"
	"eduloan-backend/internal/domain/notification"
	"eduloan-backend/internal/domain/student"

	"gorm.io/gorm"
)

// Models lists every table owned by this service, in creation order.
func Models() []any {
	return []any{
		&student.Student{},
		&admin.Admin{},
		&nbfc.NBFC{},
		&analysis.History{},
		&loanrequest.LoanRequest{},
		&notification.Notification{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
