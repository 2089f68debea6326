// controllers/attendance.go
package controllers

import (
	"net/http"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/services"
	"fleetlease-backend/utils"

	"github.com/gin-gonic/gin"
)

type BatchUpsertAttendanceInput struct {
	Records []services.AttendanceUpsertInput `json:"records" binding:"required,min=1"`
}

type BatchDeleteAttendanceInput struct {
	Keys []services.AttendanceKey `json:"keys" binding:"required,min=1"`
}

// UpsertAttendance records or overwrites one attendance day
func UpsertAttendance(c *gin.Context) {
	var input services.AttendanceUpsertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	record, err := services.UpsertAttendance(input)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, record)
}

// BatchUpsertAttendance records a batch of attendance days in one
// transaction
func BatchUpsertAttendance(c *gin.Context) {
	var input BatchUpsertAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	records, err := services.BatchUpsertAttendance(input.Records)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, records)
}

// BatchDeleteAttendance removes unpaid attendance records
func BatchDeleteAttendance(c *gin.Context) {
	var input BatchDeleteAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	deleted, err := services.BatchDeleteAttendance(input.Keys)
	if err != nil {
		utils.RespondWithError(c, utils.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// GetAttendance lists attendance records filtered by vehicle, project and
// date range
func GetAttendance(c *gin.Context) {
	q := config.DB.Model(&models.Attendance{})
	if vehicleID := c.Query("vehicleId"); vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	if projectID := c.Query("projectId"); projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	if from := c.Query("from"); from != "" {
		fromDate, err := utils.ParseDate(from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		q = q.Where("date >= ?", fromDate)
	}
	if to := c.Query("to"); to != "" {
		toDate, err := utils.ParseDate(to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		q = q.Where("date <= ?", toDate)
	}

	var records []models.Attendance
	if err := q.Order("date").Find(&records).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve attendance")
		return
	}

	c.JSON(http.StatusOK, records)
}
