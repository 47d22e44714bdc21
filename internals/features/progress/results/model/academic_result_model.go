package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "tutorat_backend/internals/features/users/user/model"
)

type AcademicResultModel struct {
	AcademicResultID        uuid.UUID `gorm:"column:academic_result_id;type:uuid;primaryKey" json:"academic_result_id"`
	AcademicResultStudentID uuid.UUID `gorm:"column:academic_result_student_id;type:uuid;not null;index" json:"academic_result_student_id"`
	AcademicResultSubject   string    `gorm:"column:academic_result_subject;size:100;not null;index" json:"academic_result_subject"`
	AcademicResultExamName  string    `gorm:"column:academic_result_exam_name;size:255;not null" json:"academic_result_exam_name"`
	AcademicResultScore     float64   `gorm:"column:academic_result_score;not null" json:"academic_result_score"`
	AcademicResultMaxScore  float64   `gorm:"column:academic_result_max_score;not null" json:"academic_result_max_score"`
	AcademicResultExamDate  time.Time `gorm:"column:academic_result_exam_date;not null;index" json:"academic_result_exam_date"`
	AcademicResultCreatedAt time.Time `gorm:"column:academic_result_created_at;autoCreateTime" json:"academic_result_created_at"`
	AcademicResultUpdatedAt time.Time `gorm:"column:academic_result_updated_at;autoUpdateTime" json:"academic_result_updated_at"`

	Student *userModel.UserModel `gorm:"foreignKey:AcademicResultStudentID" json:"student,omitempty"`
}

func (AcademicResultModel) TableName() string {
	return "academic_results"
}

func (m *AcademicResultModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicResultID == uuid.Nil {
		m.AcademicResultID = uuid.New()
	}
	return nil
}
