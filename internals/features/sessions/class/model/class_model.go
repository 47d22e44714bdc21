package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "tutorat_backend/internals/features/users/user/model"
)

type ClassModel struct {
	ClassID        uuid.UUID `gorm:"column:class_id;type:uuid;primaryKey" json:"class_id"`
	ClassTutorID   uuid.UUID `gorm:"column:class_tutor_id;type:uuid;not null;index" json:"class_tutor_id"`
	ClassName      string    `gorm:"column:class_name;size:255;not null" json:"class_name"`
	ClassSubject   string    `gorm:"column:class_subject;size:100;not null" json:"class_subject"`
	ClassIsActive  bool      `gorm:"column:class_is_active;not null;default:true" json:"class_is_active"`
	ClassCreatedAt time.Time `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`

	Tutor       *userModel.UserModel   `gorm:"foreignKey:ClassTutorID" json:"tutor,omitempty"`
	Memberships []ClassMembershipModel `gorm:"foreignKey:ClassMembershipClassID" json:"memberships,omitempty"`
}

func (ClassModel) TableName() string {
	return "classes"
}

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}

type ClassMembershipModel struct {
	ClassMembershipID        uuid.UUID `gorm:"column:class_membership_id;type:uuid;primaryKey" json:"class_membership_id"`
	ClassMembershipClassID   uuid.UUID `gorm:"column:class_membership_class_id;type:uuid;not null;uniqueIndex:uq_class_membership" json:"class_membership_class_id"`
	ClassMembershipStudentID uuid.UUID `gorm:"column:class_membership_student_id;type:uuid;not null;uniqueIndex:uq_class_membership" json:"class_membership_student_id"`
	ClassMembershipIsActive  bool      `gorm:"column:class_membership_is_active;not null;default:true" json:"class_membership_is_active"`
	ClassMembershipJoinedAt  time.Time `gorm:"column:class_membership_joined_at;autoCreateTime" json:"class_membership_joined_at"`

	Class   *ClassModel          `gorm:"foreignKey:ClassMembershipClassID" json:"class,omitempty"`
	Student *userModel.UserModel `gorm:"foreignKey:ClassMembershipStudentID" json:"student,omitempty"`
}

func (ClassMembershipModel) TableName() string {
	return "class_memberships"
}

func (m *ClassMembershipModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassMembershipID == uuid.Nil {
		m.ClassMembershipID = uuid.New()
	}
	return nil
}
