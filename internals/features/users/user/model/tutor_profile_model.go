package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TutorProfileModel represents the tutor_profiles table.
type TutorProfileModel struct {
	TutorProfileID              uuid.UUID      `gorm:"column:tutor_profile_id;type:uuid;primaryKey" json:"tutor_profile_id"`
	TutorProfileUserID          uuid.UUID      `gorm:"column:tutor_profile_user_id;type:uuid;not null;unique" json:"tutor_profile_user_id"`
	TutorProfileBio             *string        `gorm:"column:tutor_profile_bio;type:text" json:"tutor_profile_bio,omitempty"`
	TutorProfileHourlyRate      float64        `gorm:"column:tutor_profile_hourly_rate;not null;default:0" json:"tutor_profile_hourly_rate"`
	TutorProfileSubjects        pq.StringArray `gorm:"column:tutor_profile_subjects;type:text[]" json:"tutor_profile_subjects"`
	TutorProfileYearsExperience int            `gorm:"column:tutor_profile_years_experience;not null;default:0" json:"tutor_profile_years_experience"`
	TutorProfileIsVerified      bool           `gorm:"column:tutor_profile_is_verified;not null;default:false" json:"tutor_profile_is_verified"`
	TutorProfileCreatedAt       time.Time      `gorm:"column:tutor_profile_created_at;autoCreateTime" json:"tutor_profile_created_at"`
	TutorProfileUpdatedAt       time.Time      `gorm:"column:tutor_profile_updated_at;autoUpdateTime" json:"tutor_profile_updated_at"`
}

func (TutorProfileModel) TableName() string {
	return "tutor_profiles"
}

func (m *TutorProfileModel) BeforeCreate(tx *gorm.DB) error {
	if m.TutorProfileID == uuid.Nil {
		m.TutorProfileID = uuid.New()
	}
	return nil
}
