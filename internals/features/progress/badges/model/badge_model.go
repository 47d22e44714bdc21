package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "tutorat_backend/internals/features/users/user/model"
)

// BadgeModel is a globally shared achievement definition. Rows are
// created lazily the first time an award needs them.
type BadgeModel struct {
	BadgeID          uuid.UUID `gorm:"column:badge_id;type:uuid;primaryKey" json:"badge_id"`
	BadgeName        string    `gorm:"column:badge_name;size:100;not null;unique" json:"badge_name"`
	BadgeDescription string    `gorm:"column:badge_description;type:text" json:"badge_description"`
	BadgePoints      int       `gorm:"column:badge_points;not null;default:0" json:"badge_points"`
	BadgeCreatedAt   time.Time `gorm:"column:badge_created_at;autoCreateTime" json:"badge_created_at"`
}

func (BadgeModel) TableName() string {
	return "badges"
}

func (m *BadgeModel) BeforeCreate(tx *gorm.DB) error {
	if m.BadgeID == uuid.Nil {
		m.BadgeID = uuid.New()
	}
	return nil
}

type UserBadgeModel struct {
	UserBadgeID        uuid.UUID `gorm:"column:user_badge_id;type:uuid;primaryKey" json:"user_badge_id"`
	UserBadgeUserID    uuid.UUID `gorm:"column:user_badge_user_id;type:uuid;not null;uniqueIndex:uq_user_badge" json:"user_badge_user_id"`
	UserBadgeBadgeID   uuid.UUID `gorm:"column:user_badge_badge_id;type:uuid;not null;uniqueIndex:uq_user_badge" json:"user_badge_badge_id"`
	UserBadgeAwardedAt time.Time `gorm:"column:user_badge_awarded_at;autoCreateTime" json:"user_badge_awarded_at"`

	Badge *BadgeModel          `gorm:"foreignKey:UserBadgeBadgeID" json:"badge,omitempty"`
	User  *userModel.UserModel `gorm:"foreignKey:UserBadgeUserID" json:"user,omitempty"`
}

func (UserBadgeModel) TableName() string {
	return "user_badges"
}

func (m *UserBadgeModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserBadgeID == uuid.Nil {
		m.UserBadgeID = uuid.New()
	}
	return nil
}
