package controllers

import (
	"net/http"
	"time"

	"fleetlease-backend/config"
	"fleetlease-backend/models"

	"github.com/gin-gonic/gin"
)

type FleetCounts struct {
	TotalVehicles     int64 `json:"totalVehicles"`
	ActiveAssignments int64 `json:"activeAssignments"`
	TotalOwners       int64 `json:"totalOwners"`
	TotalCustomers    int64 `json:"totalCustomers"`
	ActiveProjects    int64 `json:"activeProjects"`
}

type RecentPayment struct {
	OwnerName   string  `json:"ownerName"`
	PlateNumber string  `json:"plateNumber"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
}

func GetDashboardOverview(c *gin.Context) {
	var counts FleetCounts
	config.DB.Model(&models.Vehicle{}).Count(&counts.TotalVehicles)
	config.DB.Model(&models.Assignment{}).
		Where("status = ?", models.AssignmentStatusActive).
		Count(&counts.ActiveAssignments)
	config.DB.Model(&models.Owner{}).Count(&counts.TotalOwners)
	config.DB.Model(&models.Customer{}).Count(&counts.TotalCustomers)
	config.DB.Model(&models.Project{}).
		Where("status = ?", models.ProjectStatusActive).
		Count(&counts.ActiveProjects)

	// Present days recorded this month, across the fleet
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var presentDaysThisMonth int64
	config.DB.Model(&models.Attendance{}).
		Where("status = ? AND date >= ?", models.AttendanceStatusPresent, firstOfMonth).
		Count(&presentDaysThisMonth)

	var unbilledDays int64
	config.DB.Model(&models.Attendance{}).
		Where("status = ? AND is_paid = false", models.AttendanceStatusPresent).
		Count(&unbilledDays)

	// Owner payment amounts still owed: committed totals minus what the
	// transactions ledger has paid out
	var outstandingPayments float64
	config.DB.Raw(`
        SELECT COALESCE(SUM(p.amount), 0) - COALESCE(SUM(t.paid), 0)
        FROM payments p
        LEFT JOIN (
            SELECT payment_id, SUM(amount) AS paid
            FROM payment_transactions
            GROUP BY payment_id
        ) t ON t.payment_id = p.id
        WHERE p.status IN (?, ?, ?) AND p.deleted_at IS NULL
    `, models.PaymentStatusPending, models.PaymentStatusPartial, models.PaymentStatusOverdue).
		Scan(&outstandingPayments)

	var outstandingInvoices float64
	config.DB.Raw(`
        SELECT COALESCE(SUM(i.total), 0) - COALESCE(SUM(t.paid), 0)
        FROM customer_invoices i
        LEFT JOIN (
            SELECT invoice_id, SUM(amount) AS paid
            FROM customer_invoice_payments
            GROUP BY invoice_id
        ) t ON t.invoice_id = i.id
        WHERE i.status IN (?, ?, ?) AND i.deleted_at IS NULL
    `, models.PaymentStatusPending, models.PaymentStatusPartial, models.PaymentStatusOverdue).
		Scan(&outstandingInvoices)

	var overduePayments, overdueInvoices int64
	config.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusOverdue).Count(&overduePayments)
	config.DB.Model(&models.CustomerInvoice{}).
		Where("status = ?", models.PaymentStatusOverdue).Count(&overdueInvoices)

	var recentPayments []RecentPayment
	config.DB.Raw(`
        SELECT o.name AS owner_name, v.plate_number, p.amount, p.status
        FROM payments p
        JOIN owners o ON o.id = p.owner_id
        JOIN assignments a ON a.id = p.assignment_id
        JOIN vehicles v ON v.id = a.vehicle_id
        WHERE p.deleted_at IS NULL
        ORDER BY p.created_at DESC
        LIMIT 5
    `).Scan(&recentPayments)

	c.JSON(http.StatusOK, gin.H{
		"counts":               counts,
		"presentDaysThisMonth": presentDaysThisMonth,
		"unbilledDays":         unbilledDays,
		"outstandingPayments":  outstandingPayments,
		"outstandingInvoices":  outstandingInvoices,
		"overduePayments":      overduePayments,
		"overdueInvoices":      overdueInvoices,
		"recentPayments":       recentPayments,
	})
}
