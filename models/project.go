package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

type Project struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name      string    `gorm:"not null"`
	Location  string
	StartDate time.Time  `gorm:"type:date;not null"`
	EndDate   *time.Time `gorm:"type:date"`
	Status    string     `gorm:"type:varchar(20);default:'active'"`
	Notes     string

	Assignments  []Assignment         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	VehicleRates []ProjectVehicleRate `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Invoices     []CustomerInvoice    `gorm:"foreignKey:ProjectID"`

	gorm.Model
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	return
}

// ProjectVehicleRate is the customer-side monthly rate for a vehicle on a
// project, consumed by the invoice calculator. One rate per vehicle per
// project.
type ProjectVehicleRate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_vehicle_rate,priority:1"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_vehicle_rate,priority:2"`

	MonthlyRate decimal.Decimal `gorm:"type:decimal(20,2);not null"`

	gorm.Model
}

func (r *ProjectVehicleRate) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
