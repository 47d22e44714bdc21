package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session lifecycle. COMPLETED and CANCELLED are terminal.
const (
	SessionStatusPending   = "PENDING"
	SessionStatusConfirmed = "CONFIRMED"
	SessionStatusCompleted = "COMPLETED"
	SessionStatusCancelled = "CANCELLED"
)

type ClassSessionModel struct {
	ClassSessionID              uuid.UUID `gorm:"column:class_session_id;type:uuid;primaryKey" json:"class_session_id"`
	ClassSessionClassID         uuid.UUID `gorm:"column:class_session_class_id;type:uuid;not null;index" json:"class_session_class_id"`
	ClassSessionTitle           string    `gorm:"column:class_session_title;size:255;not null" json:"class_session_title"`
	ClassSessionStatus          string    `gorm:"column:class_session_status;type:varchar(20);not null;default:'PENDING';index" json:"class_session_status"`
	ClassSessionStartTime       time.Time `gorm:"column:class_session_start_time;not null;index" json:"class_session_start_time"`
	ClassSessionEndTime         time.Time `gorm:"column:class_session_end_time;not null" json:"class_session_end_time"`
	ClassSessionDurationMinutes int       `gorm:"column:class_session_duration_minutes;not null" json:"class_session_duration_minutes"`
	ClassSessionActualMinutes   *int      `gorm:"column:class_session_actual_minutes" json:"class_session_actual_minutes,omitempty"`
	ClassSessionCreatedAt       time.Time `gorm:"column:class_session_created_at;autoCreateTime" json:"class_session_created_at"`
	ClassSessionUpdatedAt       time.Time `gorm:"column:class_session_updated_at;autoUpdateTime" json:"class_session_updated_at"`

	Class *ClassModel `gorm:"foreignKey:ClassSessionClassID" json:"class,omitempty"`
}

func (ClassSessionModel) TableName() string {
	return "class_sessions"
}

func (m *ClassSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassSessionID == uuid.Nil {
		m.ClassSessionID = uuid.New()
	}
	return nil
}
