package admin

import (
	"context"
	"time"
)

// Table: admins
type Admin struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	AdminID   string    `gorm:"column:admin_id;size:32;not null;uniqueIndex:ux_admins_admin_id"`
	Name      string    `gorm:"column:name;size:255"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Admin) TableName() string { return "admins" }

type Repository interface {
	ListActiveIDs(ctx context.Context) ([]string, error)
}
