// controllers/owner.go
package controllers

import (
	"errors"
	"net/http"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateOwnerInput struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	BankAccount string `json:"bankAccount"`
	Notes       string `json:"notes"`
}

type UpdateOwnerInput struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	BankAccount *string `json:"bankAccount"`
	Notes       *string `json:"notes"`
	IsActive    *bool   `json:"isActive"`
}

// CreateOwner registers a new vehicle owner
func CreateOwner(c *gin.Context) {
	var input CreateOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var existing models.Owner
	if err := config.DB.Where("phone = ?", input.Phone).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Owner with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	owner := models.Owner{
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
		BankAccount: input.BankAccount,
		Notes:       input.Notes,
		IsActive:    true,
	}

	if err := config.DB.Create(&owner).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create owner")
		return
	}

	c.JSON(http.StatusCreated, owner)
}

// GetOwners retrieves all owners
func GetOwners(c *gin.Context) {
	var owners []models.Owner
	if err := config.DB.Order("name").Find(&owners).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve owners")
		return
	}

	c.JSON(http.StatusOK, owners)
}

// GetOwner retrieves a specific owner with vehicles and payments
func GetOwner(c *gin.Context) {
	ownerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	var owner models.Owner
	if err := config.DB.Preload("Vehicles").Preload("Payments").
		Where("id = ?", ownerUUID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, owner)
}

// UpdateOwner updates an existing owner
func UpdateOwner(c *gin.Context) {
	ownerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	var input UpdateOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var owner models.Owner
	if err := config.DB.Where("id = ?", ownerUUID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		owner.Phone = *input.Phone
	}
	if input.Name != nil {
		owner.Name = *input.Name
	}
	if input.Email != nil {
		owner.Email = *input.Email
	}
	if input.Address != nil {
		owner.Address = *input.Address
	}
	if input.BankAccount != nil {
		owner.BankAccount = *input.BankAccount
	}
	if input.Notes != nil {
		owner.Notes = *input.Notes
	}
	if input.IsActive != nil {
		owner.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&owner).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update owner")
		return
	}

	c.JSON(http.StatusOK, owner)
}

// DeleteOwner soft deletes an owner without vehicles
func DeleteOwner(c *gin.Context) {
	ownerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	var vehicleCount int64
	if err := config.DB.Model(&models.Vehicle{}).Where("owner_id = ?", ownerUUID).Count(&vehicleCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if vehicleCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Owner still has vehicles; transfer or remove them first")
		return
	}

	if err := config.DB.Delete(&models.Owner{}, "id = ?", ownerUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete owner")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Owner deleted successfully"})
}
