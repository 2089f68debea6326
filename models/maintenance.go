package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MaintenanceStatusScheduled  = "scheduled"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusCancelled  = "cancelled"
)

// Maintenance is a per-vehicle cost entry. Once completed, only the
// description may change and the record cannot be deleted. IsPaid is set
// only by payment commit.
type Maintenance struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	VehicleID uuid.UUID `gorm:"type:uuid;index;not null"`

	Type        string          `gorm:"type:varchar(50);not null"` // "oil_change", "tire_rotation", "repair", "inspection", ...
	Description string          `gorm:"type:text"`
	Cost        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	ServiceDate time.Time       `gorm:"type:date;not null;index"`
	Status      string          `gorm:"type:varchar(20);default:'scheduled'"`
	IsPaid      bool            `gorm:"default:false;index"`

	gorm.Model
}

func (m *Maintenance) BeforeCreate(tx *gorm.DB) (err error) {
	m.ID = uuid.New()
	return
}

func ValidMaintenanceStatus(status string) bool {
	switch status {
	case MaintenanceStatusScheduled, MaintenanceStatusInProgress, MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return true
	}
	return false
}
