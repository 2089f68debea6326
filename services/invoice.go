// services/invoice.go
package services

import (
	"errors"
	"sort"
	"time"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const invoiceNumberPrefix = "INV-"
const invoiceNumberAttempts = 10

// VehicleMonthOverride carries the manual mob/dimob surcharges for one
// vehicle-month bucket.
type VehicleMonthOverride struct {
	VehicleID uuid.UUID       `json:"vehicleId" binding:"required"`
	Year      int             `json:"year" binding:"required"`
	Month     int             `json:"month" binding:"required"`
	Mob       decimal.Decimal `json:"mob"`
	Dimob     decimal.Decimal `json:"dimob"`
}

type InvoiceCalculateInput struct {
	CustomerID   uuid.UUID              `json:"customerId" binding:"required"`
	ProjectID    uuid.UUID              `json:"projectId" binding:"required"`
	PeriodStart  time.Time              `json:"periodStart" binding:"required"`
	PeriodEnd    time.Time              `json:"periodEnd" binding:"required"`
	Adjustment   decimal.Decimal        `json:"adjustment"`
	SalesTaxRate decimal.Decimal        `json:"salesTaxRate"`
	Overrides    []VehicleMonthOverride `json:"overrides"`
}

// InvoiceDraft is a calculated but unpersisted invoice.
type InvoiceDraft struct {
	CustomerID  uuid.UUID `json:"customerId"`
	ProjectID   uuid.UUID `json:"projectId"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	Adjustment     decimal.Decimal `json:"adjustment"`
	SalesTaxRate   decimal.Decimal `json:"salesTaxRate"`
	SalesTaxAmount decimal.Decimal `json:"salesTaxAmount"`
	Total          decimal.Decimal `json:"total"` // whole currency units

	Items []models.CustomerInvoiceItem `json:"items"`
}

// invoiceBucket is one (vehicle, year, month) attendance bucket with its
// configured monthly rate and surcharges.
type invoiceBucket struct {
	VehicleID   uuid.UUID
	Year        int
	Month       int
	PresentDays int
	MonthlyRate decimal.Decimal
	Mob         decimal.Decimal
	Dimob       decimal.Decimal
}

var decimalHundred = decimal.NewFromInt(100)

// buildInvoiceDraft turns buckets into line items and invoice totals. Each
// item's adjustment share is proportional to its amount's fraction of the
// subtotal, so items sum back to (approximately) the invoice total. Items
// hold exact fractions; the top-level total is the only rounded figure.
func buildInvoiceDraft(buckets []invoiceBucket, adjustment, taxRate decimal.Decimal) ([]models.CustomerInvoiceItem, decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	subtotal := decimal.Zero
	amounts := make([]decimal.Decimal, len(buckets))
	for i, b := range buckets {
		daysInMonth := decimal.NewFromInt(int64(utils.DaysInMonth(b.Year, time.Month(b.Month))))
		base := b.MonthlyRate.Mul(decimal.NewFromInt(int64(b.PresentDays))).Div(daysInMonth)
		amounts[i] = base.Add(b.Mob).Add(b.Dimob)
		subtotal = subtotal.Add(amounts[i])
	}

	taxableBase := subtotal.Add(adjustment)
	taxAmount := taxableBase.Mul(taxRate).Div(decimalHundred)
	total := taxableBase.Add(taxAmount).Round(0)

	items := make([]models.CustomerInvoiceItem, len(buckets))
	for i, b := range buckets {
		adjustmentShare := decimal.Zero
		if !subtotal.IsZero() {
			adjustmentShare = amounts[i].Div(subtotal).Mul(adjustment)
		}
		taxable := amounts[i].Add(adjustmentShare)
		itemTax := taxable.Mul(taxRate).Div(decimalHundred)

		daysInMonth := decimal.NewFromInt(int64(utils.DaysInMonth(b.Year, time.Month(b.Month))))
		items[i] = models.CustomerInvoiceItem{
			VehicleID:      b.VehicleID,
			Month:          b.Month,
			Year:           b.Year,
			PresentDays:    b.PresentDays,
			ProjectRate:    b.MonthlyRate,
			VehicleMob:     b.Mob,
			VehicleDimob:   b.Dimob,
			DailyRate:      b.MonthlyRate.DivRound(daysInMonth, 6),
			Amount:         amounts[i],
			SalesTaxRate:   taxRate,
			SalesTaxAmount: itemTax,
			TotalAmount:    taxable.Add(itemTax),
		}
	}
	return items, subtotal, taxAmount, total
}

// periodsOverlap reports whether [aStart, aEnd] and [bStart, bEnd] share at
// least one day.
func periodsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// CalculateCustomerInvoice buckets present attendance by vehicle and month
// and applies the per-vehicle customer rates plus manual surcharges.
// Customer billing is independent of owner-payment locks: no paid/unpaid
// distinction here.
func CalculateCustomerInvoice(input InvoiceCalculateInput) (*InvoiceDraft, error) {
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, utils.InvalidInputf("period end must not be before period start")
	}
	start := utils.BeginningOfDay(input.PeriodStart)
	end := utils.BeginningOfDay(input.PeriodEnd)

	db := config.DB

	var project models.Project
	if err := db.First(&project, "id = ?", input.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("project %s", input.ProjectID)
		}
		return nil, err
	}
	if project.CustomerID != input.CustomerID {
		return nil, utils.InvalidInputf("project does not belong to this customer")
	}

	var rates []models.ProjectVehicleRate
	if err := db.Where("project_id = ?", input.ProjectID).Find(&rates).Error; err != nil {
		return nil, err
	}
	rateByVehicle := map[uuid.UUID]decimal.Decimal{}
	for _, r := range rates {
		rateByVehicle[r.VehicleID] = r.MonthlyRate
	}

	var attendance []models.Attendance
	if err := db.Where("project_id = ? AND status = ? AND date BETWEEN ? AND ?",
		input.ProjectID, models.AttendanceStatusPresent, start, end).
		Order("date").Find(&attendance).Error; err != nil {
		return nil, err
	}
	if len(attendance) == 0 {
		return nil, utils.InvalidInputf("no present attendance found for this project in the period")
	}

	type bucketKey struct {
		VehicleID uuid.UUID
		Year      int
		Month     int
	}
	dayCount := map[bucketKey]int{}
	for _, a := range attendance {
		day := utils.BeginningOfDay(a.Date)
		dayCount[bucketKey{a.VehicleID, day.Year(), int(day.Month())}]++
	}

	overrideFor := map[bucketKey]VehicleMonthOverride{}
	for _, o := range input.Overrides {
		overrideFor[bucketKey{o.VehicleID, o.Year, o.Month}] = o
	}

	var buckets []invoiceBucket
	for key, days := range dayCount {
		rate, ok := rateByVehicle[key.VehicleID]
		if !ok {
			return nil, utils.InvalidInputf("missing customer rate for one or more vehicles")
		}
		b := invoiceBucket{
			VehicleID:   key.VehicleID,
			Year:        key.Year,
			Month:       key.Month,
			PresentDays: days,
			MonthlyRate: rate,
		}
		if o, ok := overrideFor[bucketKey{key.VehicleID, key.Year, key.Month}]; ok {
			b.Mob = o.Mob
			b.Dimob = o.Dimob
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		if buckets[i].Month != buckets[j].Month {
			return buckets[i].Month < buckets[j].Month
		}
		return buckets[i].VehicleID.String() < buckets[j].VehicleID.String()
	})

	items, subtotal, taxAmount, total := buildInvoiceDraft(buckets, input.Adjustment, input.SalesTaxRate)

	return &InvoiceDraft{
		CustomerID:     input.CustomerID,
		ProjectID:      input.ProjectID,
		PeriodStart:    start,
		PeriodEnd:      end,
		Subtotal:       subtotal,
		Adjustment:     input.Adjustment,
		SalesTaxRate:   input.SalesTaxRate,
		SalesTaxAmount: taxAmount,
		Total:          total,
		Items:          items,
	}, nil
}

type InvoiceCreateInput struct {
	InvoiceCalculateInput
	InvoiceNumber string     `json:"invoiceNumber"`
	DueDate       *time.Time `json:"dueDate"`
	Notes         string     `json:"notes"`
}

// resolveInvoiceNumber uses the caller's number if free, otherwise draws
// random codes until one is unused.
func resolveInvoiceNumber(tx *gorm.DB, requested string) (string, error) {
	candidate := requested
	for attempt := 0; attempt < invoiceNumberAttempts; attempt++ {
		if candidate != "" {
			var count int64
			if err := tx.Model(&models.CustomerInvoice{}).
				Where("invoice_number = ?", candidate).Count(&count).Error; err != nil {
				return "", err
			}
			if count == 0 {
				return candidate, nil
			}
		}
		candidate = invoiceNumberPrefix + utils.GenerateRandomString(6)
	}
	return "", utils.Conflictf("could not allocate a unique invoice number")
}

// CreateCustomerInvoice calculates and persists an invoice. Overlapping
// periods for the same project are rejected inside the transaction.
func CreateCustomerInvoice(input InvoiceCreateInput) (*models.CustomerInvoice, error) {
	draft, err := CalculateCustomerInvoice(input.InvoiceCalculateInput)
	if err != nil {
		return nil, err
	}

	db := config.DB
	var invoice models.CustomerInvoice
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing []models.CustomerInvoice
		if err := tx.Where("project_id = ?", draft.ProjectID).Find(&existing).Error; err != nil {
			return err
		}
		for _, inv := range existing {
			if periodsOverlap(draft.PeriodStart, draft.PeriodEnd, inv.PeriodStart, inv.PeriodEnd) {
				return utils.Conflictf("an invoice already exists for an overlapping period on this project")
			}
		}

		number, err := resolveInvoiceNumber(tx, input.InvoiceNumber)
		if err != nil {
			return err
		}

		invoice = models.CustomerInvoice{
			CustomerID:     draft.CustomerID,
			ProjectID:      draft.ProjectID,
			InvoiceNumber:  number,
			PeriodStart:    draft.PeriodStart,
			PeriodEnd:      draft.PeriodEnd,
			Subtotal:       draft.Subtotal,
			Adjustment:     draft.Adjustment,
			SalesTaxRate:   draft.SalesTaxRate,
			SalesTaxAmount: draft.SalesTaxAmount,
			Total:          draft.Total,
			DueDate:        input.DueDate,
			Status:         models.PaymentStatusPending,
			Notes:          input.Notes,
			Items:          draft.Items,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

type InvoicePaymentInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	PaymentDate time.Time       `json:"paymentDate" binding:"required"`
	Notes       string          `json:"notes"`
}

func deriveInvoiceStatus(total, paidSum decimal.Decimal) string {
	switch {
	case paidSum.GreaterThanOrEqual(total):
		return models.PaymentStatusPaid
	case paidSum.GreaterThan(decimal.Zero):
		return models.PaymentStatusPartial
	default:
		return models.PaymentStatusPending
	}
}

// RecordInvoicePayment tracks a partial payment against an invoice and
// derives its settlement status. Overpaying the outstanding balance is
// rejected.
func RecordInvoicePayment(invoiceID uuid.UUID, input InvoicePaymentInput) (*models.CustomerInvoice, error) {
	if !input.Amount.GreaterThan(decimal.Zero) {
		return nil, utils.InvalidInputf("payment amount must be positive")
	}

	db := config.DB
	var invoice models.CustomerInvoice
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("invoice %s", invoiceID)
			}
			return err
		}
		if invoice.Status == models.PaymentStatusPaid {
			return utils.Conflictf("invoice is already fully paid")
		}

		var payments []models.CustomerInvoicePayment
		if err := tx.Where("invoice_id = ?", invoice.ID).Find(&payments).Error; err != nil {
			return err
		}
		paidSum := decimal.Zero
		for _, p := range payments {
			paidSum = paidSum.Add(p.Amount)
		}
		outstanding := invoice.Total.Sub(paidSum)
		if input.Amount.GreaterThan(outstanding) {
			return utils.Conflictf("payment exceeds outstanding balance of %s", outstanding.StringFixed(2))
		}

		payment := models.CustomerInvoicePayment{
			InvoiceID:   invoice.ID,
			Amount:      input.Amount,
			Method:      input.Method,
			PaymentDate: utils.BeginningOfDay(input.PaymentDate),
			Notes:       input.Notes,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		invoice.Status = deriveInvoiceStatus(invoice.Total, paidSum.Add(input.Amount))
		if err := tx.Model(&models.CustomerInvoice{}).
			Where("id = ?", invoice.ID).Update("status", invoice.Status).Error; err != nil {
			return err
		}
		invoice.Payments = append(payments, payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
