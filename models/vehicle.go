package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null"`

	PlateNumber  string `gorm:"uniqueIndex;not null"`
	Make         string
	VehicleModel string `json:"model" gorm:"column:model"`
	Year         int
	Status       string `gorm:"type:varchar(20);default:'active'"` // 'active' or 'inactive'
	Notes        string

	Attendances  []Attendance  `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
	Maintenances []Maintenance `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
	Assignments  []Assignment  `gorm:"foreignKey:VehicleID"`

	gorm.Model
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	v.ID = uuid.New()
	return
}
