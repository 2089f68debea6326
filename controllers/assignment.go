// controllers/assignment.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateAssignmentInput struct {
	VehicleID   uuid.UUID       `json:"vehicleId" binding:"required"`
	ProjectID   *uuid.UUID      `json:"projectId"`
	MonthlyRate decimal.Decimal `json:"monthlyRate" binding:"required"`
	StartDate   time.Time       `json:"startDate" binding:"required"`
	EndDate     *time.Time      `json:"endDate"`
	Notes       string          `json:"notes"`
}

type UpdateAssignmentInput struct {
	MonthlyRate *decimal.Decimal `json:"monthlyRate"`
	EndDate     *time.Time       `json:"endDate"`
	Status      *string          `json:"status" binding:"omitempty,oneof=active completed cancelled"`
	Notes       *string          `json:"notes"`
}

// CreateAssignment leases a vehicle, enforcing at most one active
// assignment per vehicle
func CreateAssignment(c *gin.Context) {
	var input CreateAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !input.MonthlyRate.GreaterThan(decimal.Zero) {
		utils.RespondWithError(c, http.StatusBadRequest, "Monthly rate must be positive")
		return
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		utils.RespondWithError(c, http.StatusBadRequest, "End date must not be before start date")
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("id = ?", input.VehicleID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.ProjectID != nil {
		var project models.Project
		if err := config.DB.Where("id = ?", *input.ProjectID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Project not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	// A vehicle has at most one active assignment at a time
	var activeCount int64
	if err := config.DB.Model(&models.Assignment{}).
		Where("vehicle_id = ? AND status = ?", input.VehicleID, models.AssignmentStatusActive).
		Count(&activeCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if activeCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Vehicle already has an active assignment")
		return
	}

	assignment := models.Assignment{
		VehicleID:   input.VehicleID,
		ProjectID:   input.ProjectID,
		MonthlyRate: input.MonthlyRate,
		StartDate:   utils.BeginningOfDay(input.StartDate),
		EndDate:     input.EndDate,
		Status:      models.AssignmentStatusActive,
		Notes:       input.Notes,
	}

	if err := config.DB.Create(&assignment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create assignment")
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// GetAssignments retrieves assignments, optionally filtered by vehicle,
// project or status
func GetAssignments(c *gin.Context) {
	q := config.DB.Model(&models.Assignment{})
	if vehicleID := c.Query("vehicleId"); vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	if projectID := c.Query("projectId"); projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var assignments []models.Assignment
	if err := q.Order("start_date DESC").Find(&assignments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve assignments")
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// GetAssignment retrieves one assignment with its payments
func GetAssignment(c *gin.Context) {
	assignmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	var assignment models.Assignment
	if err := config.DB.Preload("Payments").
		Where("id = ?", assignmentUUID).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Assignment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// UpdateAssignment updates rate, end date or status. Reactivating an
// assignment re-checks the one-active-per-vehicle rule.
func UpdateAssignment(c *gin.Context) {
	assignmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	var input UpdateAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var assignment models.Assignment
	if err := config.DB.Where("id = ?", assignmentUUID).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Assignment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Status != nil && *input.Status == models.AssignmentStatusActive && assignment.Status != models.AssignmentStatusActive {
		var activeCount int64
		if err := config.DB.Model(&models.Assignment{}).
			Where("vehicle_id = ? AND status = ? AND id <> ?", assignment.VehicleID, models.AssignmentStatusActive, assignment.ID).
			Count(&activeCount).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if activeCount > 0 {
			utils.RespondWithError(c, http.StatusConflict, "Vehicle already has an active assignment")
			return
		}
	}

	if input.MonthlyRate != nil {
		if !input.MonthlyRate.GreaterThan(decimal.Zero) {
			utils.RespondWithError(c, http.StatusBadRequest, "Monthly rate must be positive")
			return
		}
		assignment.MonthlyRate = *input.MonthlyRate
	}
	if input.EndDate != nil {
		assignment.EndDate = input.EndDate
	}
	if input.Status != nil {
		assignment.Status = *input.Status
	}
	if input.Notes != nil {
		assignment.Notes = *input.Notes
	}

	if err := config.DB.Save(&assignment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update assignment")
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// DeleteAssignment removes an assignment that has no payments
func DeleteAssignment(c *gin.Context) {
	assignmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	var paymentCount int64
	if err := config.DB.Model(&models.Payment{}).Where("assignment_id = ?", assignmentUUID).Count(&paymentCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if paymentCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Assignment has payments and cannot be deleted")
		return
	}

	if err := config.DB.Delete(&models.Assignment{}, "id = ?", assignmentUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete assignment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted successfully"})
}
