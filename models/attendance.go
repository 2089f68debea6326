package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttendanceStatusPresent     = "present"
	AttendanceStatusOff         = "off"
	AttendanceStatusStandby     = "standby"
	AttendanceStatusMaintenance = "maintenance"
)

// Attendance is a per-day presence record for a vehicle, optionally tied to
// a project. At most one row exists per (vehicle, date). IsPaid flips
// false->true only inside payment commit and never reverses through ledger
// writes.
type Attendance struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	VehicleID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_vehicle_date,priority:1"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index"`

	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_vehicle_date,priority:2"`
	Status string    `gorm:"type:varchar(20);not null;default:'present'"`
	Notes  string
	IsPaid bool `gorm:"default:false;index"`

	gorm.Model
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) (err error) {
	a.ID = uuid.New()
	return
}

func ValidAttendanceStatus(status string) bool {
	switch status {
	case AttendanceStatusPresent, AttendanceStatusOff, AttendanceStatusStandby, AttendanceStatusMaintenance:
		return true
	}
	return false
}
