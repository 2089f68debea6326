package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	AssignmentStatusActive    = "active"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusCancelled = "cancelled"
)

// Assignment is a vehicle's lease at a monthly rate, usually to a project.
// A nil ProjectID means the vehicle is leased into the general pool. A
// vehicle may hold at most one active assignment at a time.
type Assignment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	VehicleID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index"`

	MonthlyRate decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	StartDate   time.Time       `gorm:"type:date;not null"`
	EndDate     *time.Time      `gorm:"type:date"`
	Status      string          `gorm:"type:varchar(20);default:'active'"`
	Notes       string

	Payments []Payment `gorm:"foreignKey:AssignmentID"`

	gorm.Model
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) (err error) {
	a.ID = uuid.New()
	return
}
