package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`

	Name     string `gorm:"not null"`
	Phone    string `gorm:"not null;uniqueIndex"`
	Email    string
	Address  string
	Notes    string
	IsActive bool `gorm:"default:true"`

	Projects []Project         `gorm:"foreignKey:CustomerID"`
	Invoices []CustomerInvoice `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	c.ID = uuid.New()
	return
}
