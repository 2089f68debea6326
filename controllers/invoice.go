// controllers/invoice.go
package controllers

import (
	"net/http"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/services"
	"fleetlease-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CalculateCustomerInvoice previews a customer invoice for a project and
// period without persisting it
func CalculateCustomerInvoice(c *gin.Context) {
	var input services.InvoiceCalculateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	draft, err := services.CalculateCustomerInvoice(input)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, draft)
}

// CreateCustomerInvoice calculates and persists a customer invoice
func CreateCustomerInvoice(c *gin.Context) {
	var input services.InvoiceCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, err := services.CreateCustomerInvoice(input)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetCustomerInvoices lists invoices filtered by customer, project and
// status
func GetCustomerInvoices(c *gin.Context) {
	q := config.DB.Model(&models.CustomerInvoice{})
	if customerID := c.Query("customerId"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	if projectID := c.Query("projectId"); projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var invoices []models.CustomerInvoice
	if err := q.Order("created_at desc").Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetCustomerInvoice retrieves a single invoice with its line items and
// recorded payments
func GetCustomerInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var invoice models.CustomerInvoice
	if err := config.DB.Preload("Items").Preload("Payments").
		First(&invoice, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// RecordInvoicePayment records money received against an invoice
func RecordInvoicePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var input services.InvoicePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, err := services.RecordInvoicePayment(id, input)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, invoice)
}
