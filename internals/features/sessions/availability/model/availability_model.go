package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilityModel is one weekly recurring slot a tutor offers.
// Day 0 is Sunday, matching time.Weekday.
type AvailabilityModel struct {
	AvailabilityID        uuid.UUID `gorm:"column:availability_id;type:uuid;primaryKey" json:"availability_id"`
	AvailabilityTutorID   uuid.UUID `gorm:"column:availability_tutor_id;type:uuid;not null;index" json:"availability_tutor_id"`
	AvailabilityDayOfWeek int       `gorm:"column:availability_day_of_week;not null" json:"availability_day_of_week"`
	AvailabilityStartTime string    `gorm:"column:availability_start_time;size:5;not null" json:"availability_start_time"`
	AvailabilityEndTime   string    `gorm:"column:availability_end_time;size:5;not null" json:"availability_end_time"`
	AvailabilityIsActive  bool      `gorm:"column:availability_is_active;not null;default:true" json:"availability_is_active"`
	AvailabilityCreatedAt time.Time `gorm:"column:availability_created_at;autoCreateTime" json:"availability_created_at"`
	AvailabilityUpdatedAt time.Time `gorm:"column:availability_updated_at;autoUpdateTime" json:"availability_updated_at"`
}

func (AvailabilityModel) TableName() string {
	return "availabilities"
}

func (m *AvailabilityModel) BeforeCreate(tx *gorm.DB) error {
	if m.AvailabilityID == uuid.Nil {
		m.AvailabilityID = uuid.New()
	}
	return nil
}
