package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Owner struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`

	Name        string `gorm:"not null"`
	Phone       string `gorm:"not null;uniqueIndex"`
	Email       string
	Address     string
	BankAccount string
	Notes       string
	IsActive    bool `gorm:"default:true"`

	Vehicles []Vehicle `gorm:"foreignKey:OwnerID"`
	Payments []Payment `gorm:"foreignKey:OwnerID"`

	gorm.Model
}

func (o *Owner) BeforeCreate(tx *gorm.DB) (err error) {
	o.ID = uuid.New()
	return
}
