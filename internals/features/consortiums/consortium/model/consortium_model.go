package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	userModel "tutorat_backend/internals/features/users/user/model"
)

// Revenue distribution policy types
const (
	PolicyEqual        = "equal"
	PolicyProportional = "proportional"
	PolicyCustom       = "custom"
)

// ConsortiumModel represents the consortiums table. A consortium is a group
// of tutors pooling revenue under a distribution policy; the creator is its
// coordinator for life.
type ConsortiumModel struct {
	ConsortiumID           uuid.UUID      `gorm:"column:consortium_id;type:uuid;primaryKey" json:"consortium_id"`
	ConsortiumName         string         `gorm:"column:consortium_name;size:255;not null" json:"consortium_name"`
	ConsortiumDescription  *string        `gorm:"column:consortium_description;type:text" json:"consortium_description,omitempty"`
	ConsortiumCreatedBy    uuid.UUID      `gorm:"column:consortium_created_by;type:uuid;not null;index" json:"consortium_created_by"`
	ConsortiumPolicyType   string         `gorm:"column:consortium_policy_type;type:varchar(20);not null;default:'equal'" json:"consortium_policy_type"`
	ConsortiumCustomShares datatypes.JSON `gorm:"column:consortium_custom_shares" json:"consortium_custom_shares,omitempty"`
	ConsortiumIsActive     bool           `gorm:"column:consortium_is_active;not null;default:true" json:"consortium_is_active"`
	ConsortiumCreatedAt    time.Time      `gorm:"column:consortium_created_at;autoCreateTime" json:"consortium_created_at"`
	ConsortiumUpdatedAt    time.Time      `gorm:"column:consortium_updated_at;autoUpdateTime" json:"consortium_updated_at"`

	Creator *userModel.UserModel     `gorm:"foreignKey:ConsortiumCreatedBy" json:"creator,omitempty"`
	Members []ConsortiumMemberModel  `gorm:"foreignKey:ConsortiumMemberConsortiumID" json:"members,omitempty"`
}

func (ConsortiumModel) TableName() string {
	return "consortiums"
}

func (m *ConsortiumModel) BeforeCreate(tx *gorm.DB) error {
	if m.ConsortiumID == uuid.Nil {
		m.ConsortiumID = uuid.New()
	}
	return nil
}
