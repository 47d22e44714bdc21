package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentProfileModel represents the student_profiles table.
type StudentProfileModel struct {
	StudentProfileID         uuid.UUID `gorm:"column:student_profile_id;type:uuid;primaryKey" json:"student_profile_id"`
	StudentProfileUserID     uuid.UUID `gorm:"column:student_profile_user_id;type:uuid;not null;unique" json:"student_profile_user_id"`
	StudentProfileGradeLevel *string   `gorm:"column:student_profile_grade_level;size:50" json:"student_profile_grade_level,omitempty"`
	StudentProfileSchool     *string   `gorm:"column:student_profile_school;size:255" json:"student_profile_school,omitempty"`
	StudentProfileCreatedAt  time.Time `gorm:"column:student_profile_created_at;autoCreateTime" json:"student_profile_created_at"`
	StudentProfileUpdatedAt  time.Time `gorm:"column:student_profile_updated_at;autoUpdateTime" json:"student_profile_updated_at"`
}

func (StudentProfileModel) TableName() string {
	return "student_profiles"
}

func (m *StudentProfileModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentProfileID == uuid.Nil {
		m.StudentProfileID = uuid.New()
	}
	return nil
}
