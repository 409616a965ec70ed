package mysql

import (
	"context"
	"errors"
	"testing"

	"eduloan-backend/internal/domain/admin"
	"eduloan-backend/internal/domain/student"

	"gorm.io/gorm"
)

func TestAdmin_ListActiveIDs(t *testing.T) {
	db := openTestDB(t)
	repo := NewAdminRepository(db)

	seed := []admin.Admin{
		{AdminID: "ad000000000000000000000000000001", Name: "one", IsActive: true},
		{AdminID: "ad000000000000000000000000000002", Name: "two", IsActive: true},
		{AdminID: "ad000000000000000000000000000003", Name: "gone", IsActive: true},
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	// default:true on the column means false must be written explicitly
	if err := db.Model(&admin.Admin{}).Where("admin_id = ?", seed[2].AdminID).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}

	ids, err := repo.ListActiveIDs(context.Background())
	if err != nil {
		t.Fatalf("ListActiveIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != seed[0].AdminID || ids[1] != seed[1].AdminID {
		t.Fatalf("ids = %v", ids)
	}
}

func TestStudent_GetByStudentID(t *testing.T) {
	db := openTestDB(t)
	repo := NewStudentRepository(db)
	s := &student.Student{StudentID: stuA, Name: "Asha Rao", Email: "asha@example.com"}
	if err := db.Create(s).Error; err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByStudentID(context.Background(), stuA)
	if err != nil || got.Name != "Asha Rao" {
		t.Fatalf("GetByStudentID = %+v, %v", got, err)
	}
	if _, err := repo.GetByStudentID(context.Background(), stuB); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}
