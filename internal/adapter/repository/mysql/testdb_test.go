package mysql

import (
	"testing"

	"eduloan-backend/internal/domain/admin"
	"eduloan-backend/internal/domain/analysis"
	"eduloan-backend/internal/domain/loanrequest"
	"eduloan-backend/internal/domain/nbfc"
	"eduloan-backend/internal/domain/notification"
	"eduloan-backend/internal/domain/student"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with every table migrated.
// TranslateError must match production so unique violations surface as
// gorm.ErrDuplicatedKey.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection, otherwise each pooled conn gets its own :memory: db
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&loanrequest.LoanRequest{},
		&nbfc.NBFC{},
		&analysis.History{},
		&student.Student{},
		&admin.Admin{},
		&notification.Notification{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
