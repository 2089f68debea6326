package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerInvoice bills a customer for vehicle usage on their project over a
// period. Periods for the same project may not overlap. Customer billing is
// independent of the owner-side paid locks.
type CustomerInvoice struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProjectID  uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	PeriodStart   time.Time `gorm:"type:date;not null"`
	PeriodEnd     time.Time `gorm:"type:date;not null"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Adjustment     decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	SalesTaxRate   decimal.Decimal `gorm:"type:decimal(10,4);default:0"`
	SalesTaxAmount decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(20,2);not null"` // whole currency units

	DueDate *time.Time `gorm:"type:date"`
	Status  string     `gorm:"type:varchar(20);default:'pending'"`
	Notes   string

	Items    []CustomerInvoiceItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments []CustomerInvoicePayment `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	gorm.Model
}

func (i *CustomerInvoice) BeforeCreate(tx *gorm.DB) (err error) {
	i.ID = uuid.New()
	return
}

// CustomerInvoiceItem is one vehicle-month bucket on an invoice. Items carry
// exact (unrounded) fractions; only the invoice total is rounded.
type CustomerInvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`
	VehicleID uuid.UUID `gorm:"type:uuid;index;not null"`

	Month       int             `gorm:"not null"`
	Year        int             `gorm:"not null"`
	PresentDays int             `gorm:"not null"`
	ProjectRate decimal.Decimal `gorm:"type:decimal(20,2);not null"` // monthly rate
	VehicleMob  decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	VehicleDimob decimal.Decimal `gorm:"type:decimal(20,2);default:0"`

	DailyRate      decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	SalesTaxRate   decimal.Decimal `gorm:"type:decimal(10,4);default:0"`
	SalesTaxAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null"`

	gorm.Model
}

func (i *CustomerInvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	i.ID = uuid.New()
	return
}

type CustomerInvoicePayment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Method      string          `gorm:"type:varchar(30)"`
	PaymentDate time.Time       `gorm:"type:date;not null"`
	Notes       string

	gorm.Model
}

func (p *CustomerInvoicePayment) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	return
}
