package services

import (
	"testing"
	"time"

	"fleetlease-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBuildInvoiceDraft_AdjustmentAndTax(t *testing.T) {
	// 10 present days in January at 3100/month values to exactly 1000.
	// Adjustment -50 and 10% tax: (1000 - 50) * 1.10 = 1045.
	buckets := []invoiceBucket{{
		VehicleID:   uuid.New(),
		Year:        2023,
		Month:       1,
		PresentDays: 10,
		MonthlyRate: decimal.NewFromInt(3100),
	}}
	adjustment := decimal.NewFromInt(-50)
	taxRate := decimal.NewFromInt(10)

	items, subtotal, taxAmount, total := buildInvoiceDraft(buckets, adjustment, taxRate)

	if !subtotal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected subtotal 1000, got %s", subtotal)
	}
	if !taxAmount.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("expected tax 95, got %s", taxAmount)
	}
	if !total.Equal(decimal.NewFromInt(1045)) {
		t.Fatalf("expected total 1045, got %s", total)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if !items[0].TotalAmount.Equal(decimal.NewFromInt(1045)) {
		t.Fatalf("expected item total 1045, got %s", items[0].TotalAmount)
	}
}

func TestBuildInvoiceDraft_ItemAllocationSumsToTotal(t *testing.T) {
	// Adjustment is split across items in proportion to their amounts, so
	// item totals sum back to the invoice total up to the final rounding.
	vehicleA, vehicleB := uuid.New(), uuid.New()
	buckets := []invoiceBucket{
		{VehicleID: vehicleA, Year: 2023, Month: 1, PresentDays: 7, MonthlyRate: decimal.NewFromInt(2500)},
		{VehicleID: vehicleB, Year: 2023, Month: 1, PresentDays: 13, MonthlyRate: decimal.NewFromInt(4100)},
		{VehicleID: vehicleA, Year: 2023, Month: 2, PresentDays: 20, MonthlyRate: decimal.NewFromInt(2500),
			Mob: decimal.NewFromInt(150)},
	}
	adjustment := decimal.RequireFromString("-123.45")
	taxRate := decimal.RequireFromString("7.5")

	items, subtotal, taxAmount, total := buildInvoiceDraft(buckets, adjustment, taxRate)

	itemSum := decimal.Zero
	for _, item := range items {
		itemSum = itemSum.Add(item.TotalAmount)
	}
	tolerance := decimal.RequireFromString("0.51")
	if itemSum.Sub(total).Abs().GreaterThan(tolerance) {
		t.Fatalf("item totals %s drifted from invoice total %s", itemSum, total)
	}

	expectedTotal := subtotal.Add(adjustment).Add(taxAmount).Round(0)
	if !total.Equal(expectedTotal) {
		t.Fatalf("expected total %s, got %s", expectedTotal, total)
	}
}

func TestBuildInvoiceDraft_SurchargesAddToSubtotal(t *testing.T) {
	buckets := []invoiceBucket{{
		VehicleID:   uuid.New(),
		Year:        2023,
		Month:       1,
		PresentDays: 0,
		MonthlyRate: decimal.NewFromInt(3100),
		Mob:         decimal.NewFromInt(200),
		Dimob:       decimal.NewFromInt(300),
	}}

	_, subtotal, _, total := buildInvoiceDraft(buckets, decimal.Zero, decimal.Zero)

	if !subtotal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected subtotal 500 from surcharges alone, got %s", subtotal)
	}
	if !total.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected total 500, got %s", total)
	}
}

func TestBuildInvoiceDraft_ZeroSubtotal(t *testing.T) {
	// Zero-valued buckets must not divide by the zero subtotal when
	// allocating the adjustment.
	buckets := []invoiceBucket{{
		VehicleID:   uuid.New(),
		Year:        2023,
		Month:       1,
		PresentDays: 0,
		MonthlyRate: decimal.NewFromInt(3100),
	}}

	items, subtotal, _, total := buildInvoiceDraft(buckets, decimal.NewFromInt(100), decimal.NewFromInt(10))

	if !subtotal.IsZero() {
		t.Fatalf("expected zero subtotal, got %s", subtotal)
	}
	// The flat adjustment still carries through to the invoice total.
	if !total.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("expected total 110, got %s", total)
	}
	if !items[0].TotalAmount.IsZero() {
		t.Fatalf("expected zero item total, got %s", items[0].TotalAmount)
	}
}

func TestPeriodsOverlap(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		expected                       bool
	}{
		{"disjoint", date(2023, 1, 1), date(2023, 1, 31), date(2023, 2, 1), date(2023, 2, 28), false},
		{"shared boundary day", date(2023, 1, 1), date(2023, 1, 31), date(2023, 1, 31), date(2023, 2, 28), true},
		{"contained", date(2023, 1, 1), date(2023, 3, 31), date(2023, 2, 1), date(2023, 2, 28), true},
		{"identical", date(2023, 1, 1), date(2023, 1, 31), date(2023, 1, 1), date(2023, 1, 31), true},
		{"reversed disjoint", date(2023, 3, 1), date(2023, 3, 31), date(2023, 1, 1), date(2023, 1, 31), false},
	}
	for _, tc := range cases {
		if got := periodsOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.expected {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}

func TestDeriveInvoiceStatus(t *testing.T) {
	total := decimal.NewFromInt(1045)
	cases := []struct {
		paid     string
		expected string
	}{
		{"0", models.PaymentStatusPending},
		{"500", models.PaymentStatusPartial},
		{"1045", models.PaymentStatusPaid},
	}
	for _, tc := range cases {
		got := deriveInvoiceStatus(total, decimal.RequireFromString(tc.paid))
		if got != tc.expected {
			t.Fatalf("deriveInvoiceStatus(1045, %s) expected %s, got %s", tc.paid, tc.expected, got)
		}
	}
}
