package services

import (
	"testing"
	"time"

	"fleetlease-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateRange(start time.Time, days int) []time.Time {
	out := make([]time.Time, days)
	for i := 0; i < days; i++ {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestMonthlyAttendanceValuation_SingleMonth(t *testing.T) {
	// 10 present days in February 2023 at 3000/month: 3000/28 per day.
	rate := decimal.NewFromInt(3000)
	start := date(2023, time.February, 1)
	end := date(2023, time.February, 28)
	present := dateRange(date(2023, time.February, 1), 10)

	breakdown, total := monthlyAttendanceValuation(rate, start, end, present)

	if len(breakdown) != 1 {
		t.Fatalf("expected 1 month in breakdown, got %d", len(breakdown))
	}
	m := breakdown[0]
	if m.Year != 2023 || m.Month != 2 {
		t.Fatalf("unexpected month bucket %d-%d", m.Year, m.Month)
	}
	if m.DaysInMonth != 28 {
		t.Fatalf("expected 28 days in February 2023, got %d", m.DaysInMonth)
	}
	if m.PresentDays != 10 {
		t.Fatalf("expected 10 present days, got %d", m.PresentDays)
	}
	if got := m.Amount.String(); got != "1071.43" {
		t.Fatalf("expected display amount 1071.43, got %s", got)
	}
	if got := total.Round(0).String(); got != "1071" {
		t.Fatalf("expected rounded total 1071, got %s", got)
	}
}

func TestMonthlyAttendanceValuation_CrossMonthPeriod(t *testing.T) {
	// 28 Jan to 2 Feb at 3100/month. January days are worth 3100/31 = 100,
	// February days 3100/28.
	rate := decimal.NewFromInt(3100)
	start := date(2023, time.January, 28)
	end := date(2023, time.February, 2)
	present := []time.Time{
		date(2023, time.January, 28),
		date(2023, time.January, 30),
		date(2023, time.January, 31),
		date(2023, time.February, 1),
		date(2023, time.February, 2),
	}

	breakdown, total := monthlyAttendanceValuation(rate, start, end, present)

	if len(breakdown) != 2 {
		t.Fatalf("expected 2 months in breakdown, got %d", len(breakdown))
	}
	jan, feb := breakdown[0], breakdown[1]
	if jan.Month != 1 || feb.Month != 2 {
		t.Fatalf("unexpected month order: %d then %d", jan.Month, feb.Month)
	}
	if jan.PresentDays != 3 || feb.PresentDays != 2 {
		t.Fatalf("expected 3+2 present days, got %d+%d", jan.PresentDays, feb.PresentDays)
	}
	if !jan.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected January amount 300, got %s", jan.Amount)
	}
	if got := feb.Amount.String(); got != "221.43" {
		t.Fatalf("expected February amount 221.43, got %s", got)
	}
	if got := total.Round(2).String(); got != "521.43" {
		t.Fatalf("expected total 521.43, got %s", got)
	}
	if got := netPaymentAmount(total, decimal.Zero).String(); got != "521" {
		t.Fatalf("expected net 521, got %s", got)
	}
}

func TestMonthlyAttendanceValuation_EmptyMonthsStillListed(t *testing.T) {
	rate := decimal.NewFromInt(3000)
	start := date(2023, time.March, 1)
	end := date(2023, time.April, 30)

	breakdown, total := monthlyAttendanceValuation(rate, start, end, nil)

	if len(breakdown) != 2 {
		t.Fatalf("expected 2 months in breakdown, got %d", len(breakdown))
	}
	for _, m := range breakdown {
		if m.PresentDays != 0 || !m.Amount.IsZero() {
			t.Fatalf("expected empty month %d-%d to be zero valued", m.Year, m.Month)
		}
	}
	if !total.IsZero() {
		t.Fatalf("expected zero total, got %s", total)
	}
}

func TestNetPaymentAmount_MaintenanceExceedsAttendance(t *testing.T) {
	attendance := decimal.NewFromInt(100)
	maintenance := decimal.RequireFromString("350.75")

	net := netPaymentAmount(attendance, maintenance)
	if got := net.String(); got != "-251" {
		t.Fatalf("expected net -251, got %s", got)
	}
}

func TestNetPaymentAmount_RoundsToWholeUnits(t *testing.T) {
	cases := []struct {
		attendance  string
		maintenance string
		expected    string
	}{
		{"1071.4285714285714286", "0", "1071"},
		{"1071.50", "0", "1072"},
		{"500", "500", "0"},
		{"520.49", "0", "520"},
	}
	for _, tc := range cases {
		net := netPaymentAmount(decimal.RequireFromString(tc.attendance), decimal.RequireFromString(tc.maintenance))
		if net.String() != tc.expected {
			t.Fatalf("netPaymentAmount(%s, %s) expected %s, got %s",
				tc.attendance, tc.maintenance, tc.expected, net)
		}
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	amount := decimal.NewFromInt(1000)
	cases := []struct {
		paid     string
		expected string
	}{
		{"0", models.PaymentStatusPending},
		{"400", models.PaymentStatusPartial},
		{"1000", models.PaymentStatusPaid},
		{"1200", models.PaymentStatusPaid},
	}
	for _, tc := range cases {
		got := derivePaymentStatus(amount, decimal.RequireFromString(tc.paid))
		if got != tc.expected {
			t.Fatalf("derivePaymentStatus(1000, %s) expected %s, got %s", tc.paid, tc.expected, got)
		}
	}
}

func TestDistinctDates_NormalizesAndDeduplicates(t *testing.T) {
	in := []time.Time{
		time.Date(2023, time.May, 1, 9, 30, 0, 0, time.UTC),
		time.Date(2023, time.May, 1, 17, 0, 0, 0, time.UTC),
		date(2023, time.May, 2),
	}
	out := distinctDates(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 distinct dates, got %d", len(out))
	}
	for _, d := range out {
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Fatalf("expected midnight date, got %s", d)
		}
	}
}

func TestDistinctIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	out := distinctIDs([]uuid.UUID{a, b, a, a})
	if len(out) != 2 {
		t.Fatalf("expected 2 distinct ids, got %d", len(out))
	}
}
