// controllers/project.go
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

type CreateProjectInput struct {
	CustomerID uuid.UUID  `json:"customerId" binding:"required"`
	Name       string     `json:"name" binding:"required"`
	Location   string     `json:"location"`
	StartDate  time.Time  `json:"startDate" binding:"required"`
	EndDate    *time.Time `json:"endDate"`
	Notes      string     `json:"notes"`
}

type UpdateProjectInput struct {
	Name      *string    `json:"name"`
	Location  *string    `json:"location"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Status    *string    `json:"status" binding:"omitempty,oneof=active completed cancelled"`
	Notes     *string    `json:"notes"`
}

type VehicleRateInput struct {
	VehicleID   uuid.UUID       `json:"vehicleId" binding:"required"`
	MonthlyRate decimal.Decimal `json:"monthlyRate" binding:"required"`
}

type SetVehicleRatesInput struct {
	Rates []VehicleRateInput `json:"rates" binding:"required,min=1"`
}

// CreateProject creates a new customer project
func CreateProject(c *gin.Context) {
	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("id = ?", input.CustomerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		utils.RespondWithError(c, http.StatusBadRequest, "End date must not be before start date")
		return
	}

	project := models.Project{
		CustomerID: input.CustomerID,
		Name:       input.Name,
		Location:   input.Location,
		StartDate:  utils.BeginningOfDay(input.StartDate),
		EndDate:    input.EndDate,
		Status:     "active",
		Notes:      input.Notes,
	}

	if err := config.DB.Create(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProjects retrieves all projects, optionally filtered by customer or status
func GetProjects(c *gin.Context) {
	q := config.DB.Model(&models.Project{})
	if customerID := c.Query("customerId"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var projects []models.Project
	if err := q.Order("start_date DESC").Find(&projects).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetProject retrieves a project with assignments and vehicle rates
func GetProject(c *gin.Context) {
	projectUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	var project models.Project
	if err := config.DB.Preload("Assignments").Preload("VehicleRates").
		Where("id = ?", projectUUID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProject updates an existing project
func UpdateProject(c *gin.Context) {
	projectUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	var input UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var project models.Project
	if err := config.DB.Where("id = ?", projectUUID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Location != nil {
		project.Location = *input.Location
	}
	if input.StartDate != nil {
		project.StartDate = utils.BeginningOfDay(*input.StartDate)
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.Notes != nil {
		project.Notes = *input.Notes
	}

	if err := config.DB.Save(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// SetVehicleRates replaces the customer-side monthly rates for vehicles on
// this project
func SetVehicleRates(c *gin.Context) {
	projectUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	var input SetVehicleRatesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var project models.Project
	if err := config.DB.Where("id = ?", projectUUID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	for _, rate := range input.Rates {
		if rate.MonthlyRate.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Monthly rate cannot be negative")
			return
		}
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, rate := range input.Rates {
		var existing models.ProjectVehicleRate
		err := tx.Where("project_id = ? AND vehicle_id = ?", projectUUID, rate.VehicleID).First(&existing).Error
		switch {
		case err == nil:
			existing.MonthlyRate = rate.MonthlyRate
			if err := tx.Save(&existing).Error; err != nil {
				tx.Rollback()
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vehicle rate")
				return
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			record := models.ProjectVehicleRate{
				ProjectID:   projectUUID,
				VehicleID:   rate.VehicleID,
				MonthlyRate: rate.MonthlyRate,
			}
			if err := tx.Create(&record).Error; err != nil {
				tx.Rollback()
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vehicle rate")
				return
			}
		default:
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
	}

	tx.Commit()

	var rates []models.ProjectVehicleRate
	config.DB.Where("project_id = ?", projectUUID).Find(&rates)
	c.JSON(http.StatusOK, rates)
}

// DeleteProject soft deletes a project; assignments cascade at the store
// level
func DeleteProject(c *gin.Context) {
	projectUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	var invoiceCount int64
	if err := config.DB.Model(&models.CustomerInvoice{}).Where("project_id = ?", projectUUID).Count(&invoiceCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if invoiceCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Project has invoices and cannot be deleted")
		return
	}

	if err := config.DB.Delete(&models.Project{}, "id = ?", projectUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
