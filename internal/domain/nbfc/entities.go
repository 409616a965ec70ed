package nbfc

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("nbfc not found")

// Stats are informational aggregates maintained by decision flows.
type Stats struct {
	TotalApplications int64 `gorm:"column:total_applications;not null;default:0" json:"total_applications"`
	Approved          int64 `gorm:"column:approved;not null;default:0" json:"approved"`
	Rejected          int64 `gorm:"column:rejected;not null;default:0" json:"rejected"`
}

// Table: nbfcs
type NBFC struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	NBFCID         string    `gorm:"column:nbfc_id;size:32;not null;uniqueIndex:ux_nbfcs_nbfc_id" json:"nbfc_id"`
	Name           string    `gorm:"column:name;size:255;not null" json:"name"`
	Email          string    `gorm:"column:email;size:255" json:"email"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsApproved     bool      `gorm:"column:is_approved;not null;default:false" json:"is_approved"`
	LendingEnabled bool      `gorm:"column:lending_enabled;not null;default:false" json:"lending_enabled"`
	Stats          Stats     `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (NBFC) TableName() string { return "nbfcs" }

// AcceptsRequests: active, approved by an admin, and lending switched on.
func (n *NBFC) AcceptsRequests() bool { return n.IsActive && n.IsApproved && n.LendingEnabled }
