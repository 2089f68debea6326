// controllers/payment.go
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

type CalculatePaymentInput struct {
	AssignmentID uuid.UUID `json:"assignmentId" binding:"required"`
	StartDate    string    `json:"startDate" binding:"required"`
	EndDate      string    `json:"endDate" binding:"required"`
}

// CalculateOwnerPayment previews an owner payment for a period without
// writing anything. The client commits the result via CreatePayment.
func CalculateOwnerPayment(c *gin.Context) {
	var input CalculatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	start, err := utils.ParseDate(input.StartDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD")
		return
	}
	end, err := utils.ParseDate(input.EndDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD")
		return
	}

	calc, err := services.CalculateOwnerPayment(input.AssignmentID, start, end)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, calc)
}

// CreatePayment commits a previously calculated owner payment and marks
// the billed attendance and maintenance rows as paid
func CreatePayment(c *gin.Context) {
	var input services.PaymentCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.CreatePayment(input)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetPayments lists payments filtered by owner, assignment and status
func GetPayments(c *gin.Context) {
	q := config.DB.Model(&models.Payment{})
	if ownerID := c.Query("ownerId"); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if assignmentID := c.Query("assignmentId"); assignmentID != "" {
		q = q.Where("assignment_id = ?", assignmentID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := q.Order("created_at desc").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetPayment retrieves a single payment with its transactions
func GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	var payment models.Payment
	if err := config.DB.Preload("Transactions").First(&payment, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		return
	}

	c.JSON(http.StatusOK, payment)
}

// CreatePaymentTransaction records money paid out against a payment
func CreatePaymentTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	var input services.PaymentTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.CreatePaymentTransaction(id, input)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, payment)
}
