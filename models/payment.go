package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
	PaymentStatusOverdue = "overdue"
)

// Payment is money owed to a vehicle owner for a period, net of maintenance
// deductions. Payments are immutable once created; only transactions
// accumulate against them.
type Payment struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	AssignmentID uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount           decimal.Decimal `gorm:"type:decimal(20,2);not null"` // whole currency units
	PeriodStart      time.Time       `gorm:"type:date;not null"`
	PeriodEnd        time.Time       `gorm:"type:date;not null"`
	AttendanceTotal  decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	DeductionTotal   decimal.Decimal `gorm:"type:decimal(20,2);default:0"`
	TotalDays        int             `gorm:"not null;default:0"`
	MaintenanceCount int             `gorm:"not null;default:0"`
	DueDate          *time.Time      `gorm:"type:date"`
	PaidDate         *time.Time      `gorm:"type:date"`
	Status           string          `gorm:"type:varchar(20);default:'pending'"`
	Notes            string

	Transactions []PaymentTransaction `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	p.ID = uuid.New()
	return
}

type PaymentTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	PaymentID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Method          string          `gorm:"type:varchar(30)"` // "cash", "bank_transfer", ...
	TransactionDate time.Time       `gorm:"type:date;not null"`
	Notes           string

	gorm.Model
}

func (t *PaymentTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	t.ID = uuid.New()
	return
}
