// services/maintenance.go
package services

import (
	"errors"
	"time"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MaintenanceCreateInput struct {
	VehicleID   uuid.UUID       `json:"vehicleId" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost" binding:"required"`
	ServiceDate time.Time       `json:"serviceDate" binding:"required"`
	Status      string          `json:"status"`
}

type MaintenanceUpdateInput struct {
	Type        *string          `json:"type"`
	Description *string          `json:"description"`
	Cost        *decimal.Decimal `json:"cost"`
	ServiceDate *time.Time       `json:"serviceDate"`
	Status      *string          `json:"status"`
}

func CreateMaintenance(input MaintenanceCreateInput) (*models.Maintenance, error) {
	status := input.Status
	if status == "" {
		status = models.MaintenanceStatusScheduled
	}
	if !models.ValidMaintenanceStatus(status) {
		return nil, utils.InvalidInputf("invalid maintenance status %q", status)
	}
	if input.Cost.IsNegative() {
		return nil, utils.InvalidInputf("maintenance cost cannot be negative")
	}

	record := models.Maintenance{
		VehicleID:   input.VehicleID,
		Type:        input.Type,
		Description: input.Description,
		Cost:        input.Cost,
		ServiceDate: utils.BeginningOfDay(input.ServiceDate),
		Status:      status,
	}
	if err := config.DB.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateMaintenance applies the given changes. Once a record is completed
// only the description remains editable; IsPaid is never touched by the
// ledger API.
func UpdateMaintenance(id uuid.UUID, input MaintenanceUpdateInput) (*models.Maintenance, error) {
	db := config.DB

	var record models.Maintenance
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("maintenance record %s", id)
		}
		return nil, err
	}

	if record.Status == models.MaintenanceStatusCompleted {
		if input.Type != nil || input.Cost != nil || input.ServiceDate != nil || input.Status != nil {
			return nil, utils.InvalidStatef("completed maintenance can only have its description edited")
		}
	}

	if input.Type != nil {
		record.Type = *input.Type
	}
	if input.Description != nil {
		record.Description = *input.Description
	}
	if input.Cost != nil {
		if input.Cost.IsNegative() {
			return nil, utils.InvalidInputf("maintenance cost cannot be negative")
		}
		record.Cost = *input.Cost
	}
	if input.ServiceDate != nil {
		record.ServiceDate = utils.BeginningOfDay(*input.ServiceDate)
	}
	if input.Status != nil {
		if !models.ValidMaintenanceStatus(*input.Status) {
			return nil, utils.InvalidInputf("invalid maintenance status %q", *input.Status)
		}
		record.Status = *input.Status
	}

	if err := db.Save(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func DeleteMaintenance(id uuid.UUID) error {
	db := config.DB

	var record models.Maintenance
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundf("maintenance record %s", id)
		}
		return err
	}

	if record.Status == models.MaintenanceStatusCompleted {
		return utils.InvalidStatef("completed maintenance records cannot be deleted")
	}
	if record.IsPaid {
		return utils.Conflictf("cannot delete maintenance that has already been marked as paid")
	}

	return db.Delete(&record).Error
}

// lockMaintenanceRecords flips is_paid on exactly the requested unpaid rows.
// A shortfall in affected rows means another payment locked some of them in
// the meantime; the caller must abort.
func lockMaintenanceRecords(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := tx.Model(&models.Maintenance{}).
		Where("id IN ? AND is_paid = ?", ids, false).
		Update("is_paid", true)
	return res.RowsAffected, res.Error
}
