package dto

import (
	"time"

	"github.com/google/uuid"

	consortiumModel "tutorat_backend/internals/features/consortiums/consortium/model"
	consortiumService "tutorat_backend/internals/features/consortiums/consortium/service"
	userModel "tutorat_backend/internals/features/users/user/model"
)

// =========================
// Requests
// =========================

type CreateConsortiumRequest struct {
	Name        string                            `json:"name" validate:"required,min=1,max=255"`
	Description *string                           `json:"description,omitempty"`
	Policy      *consortiumService.RevenuePolicy  `json:"policy,omitempty"`
}

type UpdateConsortiumRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type AddMemberRequest struct {
	TutorID uuid.UUID `json:"tutor_id" validate:"required"`
}

type InviteTutorsRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,email"`
}

// =========================
// Responses
// =========================

type ConsortiumMemberResponse struct {
	ConsortiumMemberID uuid.UUID             `json:"consortium_member_id"`
	ConsortiumID       uuid.UUID             `json:"consortium_id"`
	TutorID            uuid.UUID             `json:"tutor_id"`
	Role               string                `json:"role"`
	RevenueShare       float64               `json:"revenue_share"`
	JoinedAt           time.Time             `json:"joined_at"`
	Tutor              *userModel.PublicUser `json:"tutor,omitempty"`
}

type ConsortiumResponse struct {
	ConsortiumID uuid.UUID                        `json:"consortium_id"`
	Name         string                           `json:"name"`
	Description  *string                          `json:"description,omitempty"`
	CreatedBy    uuid.UUID                        `json:"created_by"`
	Policy       consortiumService.RevenuePolicy  `json:"policy"`
	IsActive     bool                             `json:"is_active"`
	CreatedAt    time.Time                        `json:"created_at"`
	Creator      *userModel.PublicUser            `json:"creator,omitempty"`
	Members      []ConsortiumMemberResponse       `json:"members,omitempty"`
	MemberCount  int                              `json:"member_count"`
}

// =========================
// Converters
// =========================

func ToMemberResponse(m *consortiumModel.ConsortiumMemberModel) ConsortiumMemberResponse {
	resp := ConsortiumMemberResponse{
		ConsortiumMemberID: m.ConsortiumMemberID,
		ConsortiumID:       m.ConsortiumMemberConsortiumID,
		TutorID:            m.ConsortiumMemberTutorID,
		Role:               m.ConsortiumMemberRole,
		RevenueShare:       m.ConsortiumMemberRevenueShare,
		JoinedAt:           m.ConsortiumMemberJoinedAt,
	}
	if m.Tutor != nil {
		pub := m.Tutor.Public()
		resp.Tutor = &pub
	}
	return resp
}

func ToConsortiumResponse(m *consortiumModel.ConsortiumModel) ConsortiumResponse {
	policy, _ := consortiumService.PolicyFromModel(m)
	resp := ConsortiumResponse{
		ConsortiumID: m.ConsortiumID,
		Name:         m.ConsortiumName,
		Description:  m.ConsortiumDescription,
		CreatedBy:    m.ConsortiumCreatedBy,
		Policy:       policy,
		IsActive:     m.ConsortiumIsActive,
		CreatedAt:    m.ConsortiumCreatedAt,
		MemberCount:  len(m.Members),
	}
	if m.Creator != nil {
		pub := m.Creator.Public()
		resp.Creator = &pub
	}
	for i := range m.Members {
		resp.Members = append(resp.Members, ToMemberResponse(&m.Members[i]))
	}
	return resp
}

func ToConsortiumResponses(list []consortiumModel.ConsortiumModel) []ConsortiumResponse {
	out := make([]ConsortiumResponse, 0, len(list))
	for i := range list {
		out = append(out, ToConsortiumResponse(&list[i]))
	}
	return out
}
