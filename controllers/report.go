// controllers/report.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct{}

type MonthlyBillingPoint struct {
	Month     string  `json:"month"` // "2026-08"
	Invoiced  float64 `json:"invoiced"`
	Collected float64 `json:"collected"`
	PaidOut   float64 `json:"paidOut"`
}

type OwnerPayoutSummary struct {
	Name     string  `json:"name"`
	Payments int     `json:"payments"`
	Amount   float64 `json:"amount"`
	PaidOut  float64 `json:"paidOut"`
}

type VehicleUtilization struct {
	PlateNumber string  `json:"plateNumber"`
	PresentDays int     `json:"presentDays"`
	Billed      float64 `json:"billed"`
}

type BillingSummary struct {
	CurrentMonthInvoiced float64              `json:"currentMonthInvoiced"`
	MonthGrowth          float64              `json:"monthGrowth"`
	CurrentYearInvoiced  float64              `json:"currentYearInvoiced"`
	YearGrowth           float64              `json:"yearGrowth"`
	MonthlySeries        []MonthlyBillingPoint `json:"monthlySeries"`
	TopOwners            []OwnerPayoutSummary  `json:"topOwners"`
	TopVehicles          []VehicleUtilization  `json:"topVehicles"`
}

// GetBillingReport returns the invoiced/collected/paid-out series plus
// per-owner and per-vehicle rollups
func (rc *ReportController) GetBillingReport(c *gin.Context) {
	months := 6
	if m := c.Query("months"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 36 {
			utils.RespondWithError(c, http.StatusBadRequest, "months must be between 1 and 36")
			return
		}
		months = parsed
	}

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	series := make([]MonthlyBillingPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := firstOfMonth.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		point := MonthlyBillingPoint{Month: start.Format("2006-01")}
		if err := rc.fillMonthlyPoint(&point, start, end); err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build monthly series")
			return
		}
		series = append(series, point)
	}

	currentMonthInvoiced, err := rc.invoicedBetween(firstOfMonth, firstOfMonth.AddDate(0, 1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly invoiced total")
		return
	}
	lastMonthInvoiced, err := rc.invoicedBetween(firstOfMonth.AddDate(0, -1, 0), firstOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month invoiced total")
		return
	}

	firstOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	currentYearInvoiced, err := rc.invoicedBetween(firstOfYear, firstOfYear.AddDate(1, 0, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly invoiced total")
		return
	}
	lastYearInvoiced, err := rc.invoicedBetween(firstOfYear.AddDate(-1, 0, 0), firstOfYear)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year invoiced total")
		return
	}

	windowStart := firstOfMonth.AddDate(0, -(months - 1), 0)

	topOwners, err := rc.topOwners(windowStart, 5)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get owner payout summary")
		return
	}

	topVehicles, err := rc.topVehicles(windowStart, 5)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get vehicle utilization")
		return
	}

	c.JSON(http.StatusOK, BillingSummary{
		CurrentMonthInvoiced: currentMonthInvoiced,
		MonthGrowth:          rc.calculateGrowthPercentage(currentMonthInvoiced, lastMonthInvoiced),
		CurrentYearInvoiced:  currentYearInvoiced,
		YearGrowth:           rc.calculateGrowthPercentage(currentYearInvoiced, lastYearInvoiced),
		MonthlySeries:        series,
		TopOwners:            topOwners,
		TopVehicles:          topVehicles,
	})
}

// Helper functions for reports

func (rc *ReportController) fillMonthlyPoint(point *MonthlyBillingPoint, start, end time.Time) error {
	if err := config.DB.Model(&models.CustomerInvoice{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&point.Invoiced).Error; err != nil {
		return err
	}
	if err := config.DB.Model(&models.CustomerInvoicePayment{}).
		Where("payment_date >= ? AND payment_date < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&point.Collected).Error; err != nil {
		return err
	}
	return config.DB.Model(&models.PaymentTransaction{}).
		Where("transaction_date >= ? AND transaction_date < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&point.PaidOut).Error
}

func (rc *ReportController) invoicedBetween(start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.CustomerInvoice{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) topOwners(since time.Time, limit int) ([]OwnerPayoutSummary, error) {
	var owners []OwnerPayoutSummary
	err := config.DB.Table("payments").
		Select("owners.name, COUNT(payments.id) as payments, SUM(payments.amount) as amount, COALESCE(SUM(t.paid), 0) as paid_out").
		Joins("JOIN owners ON owners.id = payments.owner_id").
		Joins("LEFT JOIN (SELECT payment_id, SUM(amount) as paid FROM payment_transactions GROUP BY payment_id) t ON t.payment_id = payments.id").
		Where("payments.created_at >= ? AND payments.deleted_at IS NULL", since).
		Group("owners.name").
		Order("amount DESC").
		Limit(limit).
		Scan(&owners).Error
	return owners, err
}

func (rc *ReportController) topVehicles(since time.Time, limit int) ([]VehicleUtilization, error) {
	var vehicles []VehicleUtilization
	err := config.DB.Table("customer_invoice_items").
		Select("vehicles.plate_number, SUM(customer_invoice_items.present_days) as present_days, SUM(customer_invoice_items.amount) as billed").
		Joins("JOIN customer_invoices ON customer_invoices.id = customer_invoice_items.invoice_id").
		Joins("JOIN vehicles ON vehicles.id = customer_invoice_items.vehicle_id").
		Where("customer_invoices.created_at >= ? AND customer_invoices.deleted_at IS NULL", since).
		Group("vehicles.plate_number").
		Order("billed DESC").
		Limit(limit).
		Scan(&vehicles).Error
	return vehicles, err
}
