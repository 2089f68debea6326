package services_test

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/services"
	"fleetlease-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func connectTestDB(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires postgres)")
	}
	dsn := strings.TrimSpace(os.Getenv("TEST_DB_URL"))
	if dsn == "" {
		t.Skip("set TEST_DB_URL to a postgres DSN to run integration tests")
	}

	t.Setenv("DB_URL", dsn)
	t.Setenv("DB_CONNECT_MAX_ATTEMPTS", "1")
	config.ConnectDB()

	if err := config.DB.AutoMigrate(
		&models.Owner{},
		&models.Vehicle{},
		&models.Customer{},
		&models.Project{},
		&models.Assignment{},
		&models.Attendance{},
		&models.Maintenance{},
		&models.Payment{},
		&models.PaymentTransaction{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

type billingFixture struct {
	Owner      models.Owner
	Vehicle    models.Vehicle
	Assignment models.Assignment
	Start      time.Time
	End        time.Time
}

// seedBillableAssignment creates an owner, vehicle and pool assignment with
// five unpaid present days in January 2023.
func seedBillableAssignment(t *testing.T) billingFixture {
	db := config.DB
	suffix := uuid.New().String()[:8]

	owner := models.Owner{
		Name:  "Integration Owner " + suffix,
		Phone: fmt.Sprintf("+1%010d", time.Now().UnixNano()%10000000000),
	}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}

	vehicle := models.Vehicle{
		OwnerID:      owner.ID,
		PlateNumber:  "IT" + strings.ToUpper(suffix),
		Make:         "Tata",
		VehicleModel: "Prima",
		Status:       "active",
	}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}

	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC)
	assignment := models.Assignment{
		VehicleID:   vehicle.ID,
		MonthlyRate: decimal.NewFromInt(3100),
		StartDate:   start,
		Status:      models.AssignmentStatusActive,
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	for day := 2; day <= 6; day++ {
		_, err := services.UpsertAttendance(services.AttendanceUpsertInput{
			VehicleID: vehicle.ID,
			Date:      time.Date(2023, time.January, day, 0, 0, 0, 0, time.UTC),
			Status:    models.AttendanceStatusPresent,
		})
		if err != nil {
			t.Fatalf("seed attendance day %d: %v", day, err)
		}
	}

	return billingFixture{Owner: owner, Vehicle: vehicle, Assignment: assignment, Start: start, End: end}
}

func paymentInputFromCalc(calc *services.OwnerPaymentCalculation) services.PaymentCreateInput {
	return services.PaymentCreateInput{
		AssignmentID:         calc.AssignmentID,
		Amount:               calc.NetAmount,
		PeriodStart:          calc.PeriodStart,
		PeriodEnd:            calc.PeriodEnd,
		AttendanceTotal:      calc.AttendanceTotal,
		DeductionTotal:       calc.MaintenanceCost,
		TotalDays:            calc.TotalDays,
		MaintenanceCount:     calc.MaintenanceCount,
		AttendanceDates:      calc.AttendanceDates,
		MaintenanceRecordIDs: calc.MaintenanceRecordIDs,
	}
}

// Two calculate-then-commit flows over the same period: the first commit
// locks the attendance days, the second aborts with Conflict and writes no
// payment row.
func TestCreatePayment_StaleCommitFailsWithConflict(t *testing.T) {
	connectTestDB(t)
	fx := seedBillableAssignment(t)

	calc, err := services.CalculateOwnerPayment(fx.Assignment.ID, fx.Start, fx.End)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if calc.TotalDays != 5 {
		t.Fatalf("expected 5 billable days, got %d", calc.TotalDays)
	}
	// 3100/31 * 5 = 500
	if !calc.NetAmount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected net 500, got %s", calc.NetAmount)
	}

	stale := paymentInputFromCalc(calc)

	first, err := services.CreatePayment(paymentInputFromCalc(calc))
	if err != nil {
		t.Fatalf("first commit: %v", err)
	}

	// The snapshot is now stale: every date it references is locked.
	_, err = services.CreatePayment(stale)
	if err == nil {
		t.Fatalf("expected second commit to fail")
	}
	if !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected Conflict from stale commit, got %v", err)
	}

	var paymentCount int64
	if err := config.DB.Model(&models.Payment{}).
		Where("assignment_id = ?", fx.Assignment.ID).
		Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if paymentCount != 1 {
		t.Fatalf("expected exactly 1 committed payment, got %d", paymentCount)
	}

	var lockedDays int64
	if err := config.DB.Model(&models.Attendance{}).
		Where("vehicle_id = ? AND is_paid = ?", fx.Vehicle.ID, true).
		Count(&lockedDays).Error; err != nil {
		t.Fatalf("count locked days: %v", err)
	}
	if lockedDays != 5 {
		t.Fatalf("expected 5 locked days, got %d", lockedDays)
	}

	if first.OwnerID != fx.Owner.ID {
		t.Fatalf("expected payment owner %s, got %s", fx.Owner.ID, first.OwnerID)
	}

	// A recalculation after the failed commit finds nothing left to bill.
	recalc, err := services.CalculateOwnerPayment(fx.Assignment.ID, fx.Start, fx.End)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if recalc.TotalDays != 0 {
		t.Fatalf("expected 0 billable days after commit, got %d", recalc.TotalDays)
	}
	if len(recalc.AlreadyPaidDates) != 5 {
		t.Fatalf("expected 5 already-paid days, got %d", len(recalc.AlreadyPaidDates))
	}
}

// Locked attendance rejects ledger writes: upsert and batch delete both fail
// with Conflict once the day has been paid for.
func TestAttendanceLedger_PaidRowsRejectWrites(t *testing.T) {
	connectTestDB(t)
	fx := seedBillableAssignment(t)

	calc, err := services.CalculateOwnerPayment(fx.Assignment.ID, fx.Start, fx.End)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if _, err := services.CreatePayment(paymentInputFromCalc(calc)); err != nil {
		t.Fatalf("commit: %v", err)
	}

	paidDay := calc.AttendanceDates[0]
	_, err = services.UpsertAttendance(services.AttendanceUpsertInput{
		VehicleID: fx.Vehicle.ID,
		Date:      paidDay,
		Status:    models.AttendanceStatusOff,
	})
	if !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected Conflict upserting paid attendance, got %v", err)
	}

	_, err = services.BatchDeleteAttendance([]services.AttendanceKey{
		{VehicleID: fx.Vehicle.ID, Date: paidDay},
	})
	if !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected Conflict deleting paid attendance, got %v", err)
	}
}
