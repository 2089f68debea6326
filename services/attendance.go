// services/attendance.go
package services

import (
	"errors"
	"time"

	"fleetlease-backend/config"
	"fleetlease-backend/models"
	"fleetlease-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceUpsertInput is one attendance day for a vehicle.
type AttendanceUpsertInput struct {
	VehicleID uuid.UUID  `json:"vehicleId" binding:"required"`
	ProjectID *uuid.UUID `json:"projectId"`
	Date      time.Time  `json:"date" binding:"required"`
	Status    string     `json:"status" binding:"required"`
	Notes     string     `json:"notes"`
}

// AttendanceKey identifies attendance rows for batch deletion.
type AttendanceKey struct {
	VehicleID uuid.UUID  `json:"vehicleId" binding:"required"`
	ProjectID *uuid.UUID `json:"projectId"`
	Date      time.Time  `json:"date" binding:"required"`
}

// projectScope matches a nullable project column.
func projectScope(db *gorm.DB, projectID *uuid.UUID) *gorm.DB {
	if projectID == nil {
		return db.Where("project_id IS NULL")
	}
	return db.Where("project_id = ?", *projectID)
}

func sameProject(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// UpsertAttendance inserts or overwrites the attendance record for
// (vehicle, date). Paid records and records held by another project reject
// the write.
func UpsertAttendance(input AttendanceUpsertInput) (*models.Attendance, error) {
	db := config.DB
	var record *models.Attendance
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		record, txErr = upsertAttendanceTx(tx, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func upsertAttendanceTx(tx *gorm.DB, input AttendanceUpsertInput) (*models.Attendance, error) {
	if !models.ValidAttendanceStatus(input.Status) {
		return nil, utils.InvalidInputf("invalid attendance status %q", input.Status)
	}
	date := utils.BeginningOfDay(input.Date)

	var existing models.Attendance
	err := tx.Where("vehicle_id = ? AND date = ?", input.VehicleID, date).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsPaid {
			return nil, utils.Conflictf("cannot modify paid attendance")
		}
		if !sameProject(existing.ProjectID, input.ProjectID) {
			return nil, utils.Conflictf("vehicle already has attendance for this date on another project")
		}
		existing.Status = input.Status
		existing.Notes = input.Notes
		existing.ProjectID = input.ProjectID
		if err := tx.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		record := models.Attendance{
			VehicleID: input.VehicleID,
			ProjectID: input.ProjectID,
			Date:      date,
			Status:    input.Status,
			Notes:     input.Notes,
		}
		if err := tx.Create(&record).Error; err != nil {
			return nil, err
		}
		return &record, nil
	default:
		return nil, err
	}
}

// BatchUpsertAttendance applies every upsert inside one transaction. The
// batch is validated up front: no duplicate (vehicle, date) keys targeting
// different projects, and every project-bound record must fall on or after
// both the project start date and the vehicle's assignment start date for
// that project. Any failure rolls back the whole batch.
func BatchUpsertAttendance(inputs []AttendanceUpsertInput) ([]models.Attendance, error) {
	if len(inputs) == 0 {
		return nil, utils.InvalidInputf("no attendance records provided")
	}

	seen := map[string]*uuid.UUID{}
	for _, in := range inputs {
		key := in.VehicleID.String() + "|" + utils.DateKey(in.Date)
		if prev, ok := seen[key]; ok && !sameProject(prev, in.ProjectID) {
			return nil, utils.Conflictf("batch contains conflicting projects for vehicle %s on %s",
				in.VehicleID, utils.DateKey(in.Date))
		}
		seen[key] = in.ProjectID
	}

	db := config.DB
	var records []models.Attendance
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := validateBatchProjects(tx, inputs); err != nil {
			return err
		}
		for _, in := range inputs {
			record, err := upsertAttendanceTx(tx, in)
			if err != nil {
				return err
			}
			records = append(records, *record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func validateBatchProjects(tx *gorm.DB, inputs []AttendanceUpsertInput) error {
	for _, in := range inputs {
		if in.ProjectID == nil {
			continue
		}
		date := utils.BeginningOfDay(in.Date)

		var project models.Project
		if err := tx.First(&project, "id = ?", *in.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundf("project %s", *in.ProjectID)
			}
			return err
		}
		if utils.BeginningOfDay(project.StartDate).After(date) {
			return utils.InvalidInputf("attendance on %s predates project %s start date",
				utils.DateKey(date), project.Name)
		}

		var count int64
		if err := tx.Model(&models.Assignment{}).
			Where("vehicle_id = ? AND project_id = ? AND start_date <= ?", in.VehicleID, *in.ProjectID, date).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return utils.InvalidInputf("vehicle %s has no assignment to this project on or before %s",
				in.VehicleID, utils.DateKey(date))
		}
	}
	return nil
}

// BatchDeleteAttendance deletes the matched records, or nothing at all if
// any match has already been paid.
func BatchDeleteAttendance(keys []AttendanceKey) (int64, error) {
	if len(keys) == 0 {
		return 0, utils.InvalidInputf("no attendance keys provided")
	}

	db := config.DB
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var matched []models.Attendance
		for _, key := range keys {
			var rows []models.Attendance
			q := projectScope(tx.Where("vehicle_id = ? AND date = ?", key.VehicleID, utils.BeginningOfDay(key.Date)), key.ProjectID)
			if err := q.Find(&rows).Error; err != nil {
				return err
			}
			matched = append(matched, rows...)
		}

		for _, row := range matched {
			if row.IsPaid {
				return utils.Conflictf("cannot delete attendance that has already been marked as paid")
			}
		}

		for _, row := range matched {
			res := tx.Unscoped().Delete(&models.Attendance{}, "id = ?", row.ID)
			if res.Error != nil {
				return res.Error
			}
			deleted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// lockAttendanceDates flips is_paid on exactly the unpaid present rows for
// the given dates and reports how many rows actually transitioned. Callers
// compare the count against the expected number of dates.
func lockAttendanceDates(tx *gorm.DB, vehicleID uuid.UUID, projectID *uuid.UUID, dates []time.Time) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		days = append(days, utils.BeginningOfDay(d))
	}
	q := projectScope(
		tx.Model(&models.Attendance{}).
			Where("vehicle_id = ? AND status = ? AND is_paid = ? AND date IN ?",
				vehicleID, models.AttendanceStatusPresent, false, days),
		projectID,
	)
	res := q.Update("is_paid", true)
	return res.RowsAffected, res.Error
}

// lockAttendancePeriod flips is_paid on every unpaid present row in the
// period, independent of an explicit date list.
func lockAttendancePeriod(tx *gorm.DB, vehicleID uuid.UUID, projectID *uuid.UUID, start, end time.Time) error {
	q := projectScope(
		tx.Model(&models.Attendance{}).
			Where("vehicle_id = ? AND status = ? AND is_paid = ? AND date BETWEEN ? AND ?",
				vehicleID, models.AttendanceStatusPresent, false,
				utils.BeginningOfDay(start), utils.BeginningOfDay(end)),
		projectID,
	)
	return q.Update("is_paid", true).Error
}
