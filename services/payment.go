// services/payment.go
package services

import (
	"errors"
	"time"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlyBreakdown is one calendar month of attendance valuation. Amount is
// rounded to 2 decimals for display; totals carry the unrounded values.
type MonthlyBreakdown struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	DaysInMonth int             `json:"daysInMonth"`
	PresentDays int             `json:"presentDays"`
	DailyRate   decimal.Decimal `json:"dailyRate"`
	Amount      decimal.Decimal `json:"amount"`
}

type MaintenanceBreakdown struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	ServiceDate time.Time       `json:"serviceDate"`
}

// OwnerPaymentCalculation is a proposed payment: the valuation breakdown
// plus the exact ledger rows a commit must lock. Commit re-validates that
// those rows are still unpaid.
type OwnerPaymentCalculation struct {
	AssignmentID uuid.UUID  `json:"assignmentId"`
	VehicleID    uuid.UUID  `json:"vehicleId"`
	ProjectID    *uuid.UUID `json:"projectId"`
	PeriodStart  time.Time  `json:"periodStart"`
	PeriodEnd    time.Time  `json:"periodEnd"`

	MonthlyBreakdown     []MonthlyBreakdown     `json:"monthlyBreakdown"`
	MaintenanceBreakdown []MaintenanceBreakdown `json:"maintenanceBreakdown"`

	AttendanceTotal decimal.Decimal `json:"attendanceTotal"`
	MaintenanceCost decimal.Decimal `json:"maintenanceCost"`
	NetAmount       decimal.Decimal `json:"netAmount"` // whole currency units

	AttendanceDates      []time.Time `json:"attendanceDates"`
	MaintenanceRecordIDs []uuid.UUID `json:"maintenanceRecordIds"`
	TotalDays            int         `json:"totalDays"`
	MaintenanceCount     int         `json:"maintenanceCount"`

	// Informational: in-window rows already consumed by earlier payments.
	AlreadyPaidDates       []time.Time            `json:"alreadyPaidDates"`
	AlreadyPaidMaintenance []MaintenanceBreakdown `json:"alreadyPaidMaintenance"`
}

// monthlyAttendanceValuation walks each calendar month overlapped by
// [start, end] and values the present days at monthlyRate / daysInMonth.
// The same day count is worth more in February than in a 31-day month. The
// returned total carries full precision; per-month amounts are display
// rounded.
func monthlyAttendanceValuation(monthlyRate decimal.Decimal, start, end time.Time, presentDates []time.Time) ([]MonthlyBreakdown, decimal.Decimal) {
	daysByMonth := map[string]int{}
	for _, d := range presentDates {
		m := utils.MonthStart(d)
		daysByMonth[utils.DateKey(m)]++
	}

	var breakdown []MonthlyBreakdown
	total := decimal.Zero
	for _, m := range utils.MonthsInRange(start, end) {
		daysInMonth := utils.DaysInMonth(m.Year(), m.Month())
		presentDays := daysByMonth[utils.DateKey(m)]

		daysDec := decimal.NewFromInt(int64(daysInMonth))
		exact := monthlyRate.Mul(decimal.NewFromInt(int64(presentDays))).Div(daysDec)
		total = total.Add(exact)

		breakdown = append(breakdown, MonthlyBreakdown{
			Year:        m.Year(),
			Month:       int(m.Month()),
			DaysInMonth: daysInMonth,
			PresentDays: presentDays,
			DailyRate:   monthlyRate.DivRound(daysDec, 6),
			Amount:      exact.Round(2),
		})
	}
	return breakdown, total
}

// netPaymentAmount rounds the attendance value net of maintenance to whole
// currency units. The result may be zero or negative.
func netPaymentAmount(attendanceTotal, maintenanceCost decimal.Decimal) decimal.Decimal {
	return attendanceTotal.Sub(maintenanceCost).Round(0)
}

// CalculateOwnerPayment values unpaid present attendance for the assignment
// over [startDate, endDate], nets out unpaid maintenance cost in the same
// window, and returns the rows a commit would lock. The calculation itself
// writes nothing.
func CalculateOwnerPayment(assignmentID uuid.UUID, startDate, endDate time.Time) (*OwnerPaymentCalculation, error) {
	if endDate.Before(startDate) {
		return nil, utils.InvalidInputf("end date must not be before start date")
	}
	start := utils.BeginningOfDay(startDate)
	end := utils.BeginningOfDay(endDate)

	db := config.DB

	var assignment models.Assignment
	if err := db.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("assignment %s", assignmentID)
		}
		return nil, err
	}

	var attendance []models.Attendance
	q := projectScope(
		db.Where("vehicle_id = ? AND status = ? AND date BETWEEN ? AND ?",
			assignment.VehicleID, models.AttendanceStatusPresent, start, end),
		assignment.ProjectID,
	)
	if err := q.Order("date").Find(&attendance).Error; err != nil {
		return nil, err
	}

	// Partition by calendar day. A date present only as paid is excluded
	// from billing but reported separately.
	var unpaidDates, paidDates []time.Time
	for _, a := range attendance {
		day := utils.BeginningOfDay(a.Date)
		if a.IsPaid {
			paidDates = append(paidDates, day)
		} else {
			unpaidDates = append(unpaidDates, day)
		}
	}

	var maintenance []models.Maintenance
	if err := db.Where("vehicle_id = ? AND service_date BETWEEN ? AND ?",
		assignment.VehicleID, start, end).
		Order("service_date").Find(&maintenance).Error; err != nil {
		return nil, err
	}

	calc := &OwnerPaymentCalculation{
		AssignmentID: assignment.ID,
		VehicleID:    assignment.VehicleID,
		ProjectID:    assignment.ProjectID,
		PeriodStart:  start,
		PeriodEnd:    end,
	}

	calc.MonthlyBreakdown, calc.AttendanceTotal = monthlyAttendanceValuation(assignment.MonthlyRate, start, end, unpaidDates)

	// Maintenance is summed over the whole window, not per month. The
	// asymmetry with month-bucketed attendance is deliberate.
	maintenanceCost := decimal.Zero
	for _, m := range maintenance {
		entry := MaintenanceBreakdown{
			ID:          m.ID,
			Type:        m.Type,
			Description: m.Description,
			Cost:        m.Cost,
			ServiceDate: m.ServiceDate,
		}
		if m.IsPaid {
			calc.AlreadyPaidMaintenance = append(calc.AlreadyPaidMaintenance, entry)
			continue
		}
		calc.MaintenanceBreakdown = append(calc.MaintenanceBreakdown, entry)
		calc.MaintenanceRecordIDs = append(calc.MaintenanceRecordIDs, m.ID)
		maintenanceCost = maintenanceCost.Add(m.Cost)
	}

	calc.MaintenanceCost = maintenanceCost
	calc.NetAmount = netPaymentAmount(calc.AttendanceTotal, maintenanceCost)
	calc.AttendanceDates = unpaidDates
	calc.AlreadyPaidDates = paidDates
	calc.TotalDays = len(unpaidDates)
	calc.MaintenanceCount = len(calc.MaintenanceRecordIDs)
	return calc, nil
}

type PaymentCreateInput struct {
	AssignmentID     uuid.UUID       `json:"assignmentId" binding:"required"`
	Amount           decimal.Decimal `json:"amount"`
	PeriodStart      time.Time       `json:"periodStart" binding:"required"`
	PeriodEnd        time.Time       `json:"periodEnd" binding:"required"`
	AttendanceTotal  decimal.Decimal `json:"attendanceTotal"`
	DeductionTotal   decimal.Decimal `json:"deductionTotal"`
	TotalDays        int             `json:"totalDays"`
	MaintenanceCount int             `json:"maintenanceCount"`
	DueDate          *time.Time      `json:"dueDate"`
	Notes            string          `json:"notes"`

	AttendanceDates      []time.Time `json:"attendanceDates"`
	MaintenanceRecordIDs []uuid.UUID `json:"maintenanceRecordIds"`
}

func distinctDates(dates []time.Time) []time.Time {
	seen := map[string]bool{}
	var out []time.Time
	for _, d := range dates {
		day := utils.BeginningOfDay(d)
		key := utils.DateKey(day)
		if !seen[key] {
			seen[key] = true
			out = append(out, day)
		}
	}
	return out
}

func distinctIDs(ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// CreatePayment persists a proposed payment and locks the attendance days
// and maintenance records it consumes, all inside one transaction. If any
// requested row was locked by a concurrent payment in the meantime, the
// whole transaction aborts: each attendance day and maintenance entry is
// paid for at most once.
func CreatePayment(input PaymentCreateInput) (*models.Payment, error) {
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, utils.InvalidInputf("period start and end are required")
	}
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, utils.InvalidInputf("period end must not be before period start")
	}

	dates := distinctDates(input.AttendanceDates)
	maintenanceIDs := distinctIDs(input.MaintenanceRecordIDs)

	if len(dates) == 0 && len(maintenanceIDs) == 0 {
		return nil, utils.InvalidInputf("payment must cover at least one attendance day or maintenance record")
	}
	// Declared counts must agree with the distinct sets; a stale client
	// calculation is rejected before any writes.
	if input.TotalDays != len(dates) {
		return nil, utils.InvalidInputf("totalDays %d does not match %d distinct attendance dates", input.TotalDays, len(dates))
	}
	if input.MaintenanceCount != len(maintenanceIDs) {
		return nil, utils.InvalidInputf("maintenanceCount %d does not match %d distinct maintenance records", input.MaintenanceCount, len(maintenanceIDs))
	}

	db := config.DB

	var assignment models.Assignment
	if err := db.First(&assignment, "id = ?", input.AssignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("assignment %s", input.AssignmentID)
		}
		return nil, err
	}

	// The payee is the vehicle's current owner, not the owner at the time
	// the assignment was created. Ownership may have transferred since.
	var vehicle models.Vehicle
	if err := db.First(&vehicle, "id = ?", assignment.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("vehicle %s", assignment.VehicleID)
		}
		return nil, err
	}

	payment := models.Payment{
		AssignmentID:     assignment.ID,
		OwnerID:          vehicle.OwnerID,
		Amount:           input.Amount.Round(0),
		PeriodStart:      utils.BeginningOfDay(input.PeriodStart),
		PeriodEnd:        utils.BeginningOfDay(input.PeriodEnd),
		AttendanceTotal:  input.AttendanceTotal,
		DeductionTotal:   input.DeductionTotal,
		TotalDays:        len(dates),
		MaintenanceCount: len(maintenanceIDs),
		DueDate:          input.DueDate,
		Status:           models.PaymentStatusPending,
		Notes:            input.Notes,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		locked, err := lockAttendanceDates(tx, assignment.VehicleID, assignment.ProjectID, dates)
		if err != nil {
			return err
		}
		if locked != int64(len(dates)) {
			return utils.Conflictf("some attendance days have already been marked as paid; recalculate before creating it")
		}

		// Every remaining present day in the period is locked too, so a
		// later payment cannot bill dates this one skipped.
		if err := lockAttendancePeriod(tx, assignment.VehicleID, assignment.ProjectID, payment.PeriodStart, payment.PeriodEnd); err != nil {
			return err
		}

		lockedMaintenance, err := lockMaintenanceRecords(tx, maintenanceIDs)
		if err != nil {
			return err
		}
		if lockedMaintenance != int64(len(maintenanceIDs)) {
			return utils.Conflictf("some maintenance records have already been marked as paid; recalculate before creating it")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

type PaymentTransactionInput struct {
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	TransactionDate time.Time       `json:"transactionDate" binding:"required"`
	Notes           string          `json:"notes"`
}

// derivePaymentStatus maps the accumulated transaction sum against the
// payment amount: fully covered -> paid, anything -> partial, zero ->
// pending.
func derivePaymentStatus(amount, paidSum decimal.Decimal) string {
	switch {
	case paidSum.GreaterThanOrEqual(amount):
		return models.PaymentStatusPaid
	case paidSum.GreaterThan(decimal.Zero):
		return models.PaymentStatusPartial
	default:
		return models.PaymentStatusPending
	}
}

// CreatePaymentTransaction records a settlement against a payment and
// recomputes its status. Payments themselves are never updated or deleted;
// only transactions accumulate.
func CreatePaymentTransaction(paymentID uuid.UUID, input PaymentTransactionInput) (*models.Payment, error) {
	if !input.Amount.GreaterThan(decimal.Zero) {
		return nil, utils.InvalidInputf("transaction amount must be positive")
	}

	db := config.DB
	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("payment %s", paymentID)
			}
			return err
		}

		txnDate := utils.BeginningOfDay(input.TransactionDate)
		txn := models.PaymentTransaction{
			PaymentID:       payment.ID,
			Amount:          input.Amount,
			Method:          input.Method,
			TransactionDate: txnDate,
			Notes:           input.Notes,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		var transactions []models.PaymentTransaction
		if err := tx.Where("payment_id = ?", payment.ID).Find(&transactions).Error; err != nil {
			return err
		}
		paidSum := decimal.Zero
		for _, t := range transactions {
			paidSum = paidSum.Add(t.Amount)
		}

		payment.Status = derivePaymentStatus(payment.Amount, paidSum)
		updates := map[string]interface{}{"status": payment.Status}
		if payment.Status == models.PaymentStatusPaid {
			payment.PaidDate = &txnDate
			updates["paid_date"] = txnDate
		}
		if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(updates).Error; err != nil {
			return err
		}
		payment.Transactions = transactions
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
