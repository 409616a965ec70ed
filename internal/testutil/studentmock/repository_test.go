package studentmock

import (
	"context"
	"errors"
	"testing"

	domain "eduloan-backend/internal/domain/student"
)

func TestRepo(t *testing.T) {
	m := &Repo{}
	if _, err := m.GetByStudentID(context.Background(), "s"); !errors.Is(err, context.Canceled) {
		t.Fatalf("default: %v", err)
	}
	m.GetByStudentIDFn = func(_ context.Context, id string) (*domain.Student, error) {
		return &domain.Student{StudentID: id, Name: "A"}, nil
	}
	s, err := m.GetByStudentID(context.Background(), "s1")
	if err != nil || s.StudentID != "s1" {
		t.Fatalf("got %+v, %v", s, err)
	}
}
