// controllers/maintenance.go
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

// CreateMaintenance records a maintenance event for a vehicle
func CreateMaintenance(c *gin.Context) {
	var input services.MaintenanceCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	record, err := services.CreateMaintenance(input)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetMaintenances lists maintenance records filtered by vehicle, status
// and date range
func GetMaintenances(c *gin.Context) {
	q := config.DB.Model(&models.Maintenance{})
	if vehicleID := c.Query("vehicleId"); vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		fromDate, err := utils.ParseDate(from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		q = q.Where("service_date >= ?", fromDate)
	}
	if to := c.Query("to"); to != "" {
		toDate, err := utils.ParseDate(to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		q = q.Where("service_date <= ?", toDate)
	}

	var records []models.Maintenance
	if err := q.Order("service_date desc").Find(&records).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve maintenance records")
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetMaintenance retrieves a single maintenance record
func GetMaintenance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid maintenance ID")
		return
	}

	var record models.Maintenance
	if err := config.DB.First(&record, "id = ?", id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Maintenance record not found")
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateMaintenance edits a maintenance record subject to the completed
// and paid restrictions
func UpdateMaintenance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid maintenance ID")
		return
	}

	var input services.MaintenanceUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	record, err := services.UpdateMaintenance(id, input)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteMaintenance removes a maintenance record unless it is completed
// or already settled in a payment
func DeleteMaintenance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid maintenance ID")
		return
	}

	if err := services.DeleteMaintenance(id); err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Maintenance record deleted successfully"})
}
