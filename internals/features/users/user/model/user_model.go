package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
)

// UserModel represents the users table.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName  string    `gorm:"size:50;not null" json:"user_name" validate:"required,min=3,max=50"`
	Email     string    `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Password  string    `gorm:"not null" json:"-" validate:"required,min=8"`
	GoogleID  *string   `gorm:"size:255;unique" json:"google_id,omitempty"`
	Role      string    `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	TutorProfile   *TutorProfileModel   `gorm:"foreignKey:TutorProfileUserID" json:"tutor_profile,omitempty"`
	StudentProfile *StudentProfileModel `gorm:"foreignKey:StudentProfileUserID" json:"student_profile,omitempty"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = constants.RoleStudent
	}
	return nil
}

// IsTutor: role says tutor AND the tutor profile row exists.
func (u *UserModel) IsTutor() bool {
	return u.Role == constants.RoleTutor && u.TutorProfile != nil
}

// PublicUser is the subset safe to embed in member/creator payloads.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (u *UserModel) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		UserName: u.UserName,
		Email:    u.Email,
		Role:     u.Role,
	}
}
