// controllers/vehicle.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateVehicleInput struct {
	OwnerID     uuid.UUID `json:"ownerId" binding:"required"`
	PlateNumber string    `json:"plateNumber" binding:"required"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	Notes       string    `json:"notes"`
}

type UpdateVehicleInput struct {
	PlateNumber *string `json:"plateNumber"`
	Make        *string `json:"make"`
	Model       *string `json:"model"`
	Year        *int    `json:"year"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive"`
	Notes       *string `json:"notes"`
}

type TransferOwnershipInput struct {
	NewOwnerID uuid.UUID `json:"newOwnerId" binding:"required"`
}

// CreateVehicle registers a new vehicle for an owner
func CreateVehicle(c *gin.Context) {
	var input CreateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	plate := strings.ToUpper(strings.TrimSpace(input.PlateNumber))
	if !utils.ValidatePlateNumber(plate) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate number format")
		return
	}

	var owner models.Owner
	if err := config.DB.Where("id = ?", input.OwnerID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var existing models.Vehicle
	if err := config.DB.Where("plate_number = ?", plate).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Vehicle with this plate number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	vehicle := models.Vehicle{
		OwnerID:      input.OwnerID,
		PlateNumber:  plate,
		Make:         input.Make,
		VehicleModel: input.Model,
		Year:         input.Year,
		Status:       "active",
		Notes:        input.Notes,
	}

	if err := config.DB.Create(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// GetVehicles retrieves all vehicles, optionally filtered by owner or status
func GetVehicles(c *gin.Context) {
	q := config.DB.Model(&models.Vehicle{})
	if ownerID := c.Query("ownerId"); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var vehicles []models.Vehicle
	if err := q.Order("plate_number").Find(&vehicles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vehicles")
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

// GetVehicle retrieves a specific vehicle with its assignments
func GetVehicle(c *gin.Context) {
	vehicleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Preload("Assignments").
		Where("id = ?", vehicleUUID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// UpdateVehicle updates an existing vehicle
func UpdateVehicle(c *gin.Context) {
	vehicleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return
	}

	var input UpdateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("id = ?", vehicleUUID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.PlateNumber != nil {
		plate := strings.ToUpper(strings.TrimSpace(*input.PlateNumber))
		if !utils.ValidatePlateNumber(plate) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid plate number format")
			return
		}
		vehicle.PlateNumber = plate
	}
	if input.Make != nil {
		vehicle.Make = *input.Make
	}
	if input.Model != nil {
		vehicle.VehicleModel = *input.Model
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.Status != nil {
		vehicle.Status = *input.Status
	}
	if input.Notes != nil {
		vehicle.Notes = *input.Notes
	}

	if err := config.DB.Save(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vehicle")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// TransferOwnership moves a vehicle to a new owner. Payments already
// committed keep the owner they were created with; only future payments
// follow the new owner.
func TransferOwnership(c *gin.Context) {
	vehicleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return
	}

	var input TransferOwnershipInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("id = ?", vehicleUUID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var newOwner models.Owner
	if err := config.DB.Where("id = ?", input.NewOwnerID).First(&newOwner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "New owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if vehicle.OwnerID == newOwner.ID {
		utils.RespondWithError(c, http.StatusBadRequest, "Vehicle already belongs to this owner")
		return
	}

	if err := config.DB.Model(&vehicle).Update("owner_id", newOwner.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to transfer ownership")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ownership transferred successfully",
		"vehicle": vehicle.ID,
		"owner":   newOwner.ID,
	})
}

// DeleteVehicle soft deletes a vehicle; attendance and maintenance cascade
// at the store level
func DeleteVehicle(c *gin.Context) {
	vehicleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return
	}

	var activeAssignments int64
	if err := config.DB.Model(&models.Assignment{}).
		Where("vehicle_id = ? AND status = ?", vehicleUUID, models.AssignmentStatusActive).
		Count(&activeAssignments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if activeAssignments > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Vehicle has an active assignment; complete or cancel it first")
		return
	}

	if err := config.DB.Delete(&models.Vehicle{}, "id = ?", vehicleUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}
