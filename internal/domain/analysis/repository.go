package analysis

import "context"

type Repository interface {
	// GetForStudent returns the analysis only when it belongs to studentID.
	GetForStudent(ctx context.Context, analysisID, studentID string) (*History, error)
	GetLatestForStudent(ctx context.Context, studentID string) (*History, error)
}
