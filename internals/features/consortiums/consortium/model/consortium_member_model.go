package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "tutorat_backend/internals/features/users/user/model"
)

// ConsortiumMemberModel represents the consortium_members table. One row per
// (consortium, tutor); the coordinator row is created with the consortium.
type ConsortiumMemberModel struct {
	ConsortiumMemberID           uuid.UUID `gorm:"column:consortium_member_id;type:uuid;primaryKey" json:"consortium_member_id"`
	ConsortiumMemberConsortiumID uuid.UUID `gorm:"column:consortium_member_consortium_id;type:uuid;not null;uniqueIndex:uq_consortium_member" json:"consortium_member_consortium_id"`
	ConsortiumMemberTutorID      uuid.UUID `gorm:"column:consortium_member_tutor_id;type:uuid;not null;uniqueIndex:uq_consortium_member" json:"consortium_member_tutor_id"`
	ConsortiumMemberRole         string    `gorm:"column:consortium_member_role;type:varchar(20);not null;default:'MEMBER'" json:"consortium_member_role"`
	ConsortiumMemberRevenueShare float64   `gorm:"column:consortium_member_revenue_share;not null;default:0" json:"consortium_member_revenue_share"`
	ConsortiumMemberJoinedAt     time.Time `gorm:"column:consortium_member_joined_at;autoCreateTime" json:"consortium_member_joined_at"`

	Tutor *userModel.UserModel `gorm:"foreignKey:ConsortiumMemberTutorID" json:"tutor,omitempty"`
}

func (ConsortiumMemberModel) TableName() string {
	return "consortium_members"
}

func (m *ConsortiumMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.ConsortiumMemberID == uuid.Nil {
		m.ConsortiumMemberID = uuid.New()
	}
	return nil
}
