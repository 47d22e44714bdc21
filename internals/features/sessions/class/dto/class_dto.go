package dto

import (
	"time"

	"github.com/google/uuid"

	classModel "tutorat_backend/internals/features/sessions/class/model"
)

// =========================
// Requests
// =========================

type CreateClassRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Subject string `json:"subject" validate:"required,min=2,max=100"`
}

type UpdateClassRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=255"`
	Subject  *string `json:"subject" validate:"omitempty,min=2,max=100"`
	IsActive *bool   `json:"is_active"`
}

type CreateSessionRequest struct {
	Title     string `json:"title" validate:"required,min=2,max=255"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type UpdateSessionStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=CONFIRMED COMPLETED CANCELLED"`
	ActualMinutes *int   `json:"actual_minutes" validate:"omitempty,gt=0"`
}

// =========================
// Responses
// =========================

type ClassResponse struct {
	ClassID     uuid.UUID `json:"class_id"`
	TutorID     uuid.UUID `json:"tutor_id"`
	TutorName   string    `json:"tutor_name,omitempty"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	IsActive    bool      `json:"is_active"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type SessionResponse struct {
	SessionID       uuid.UUID `json:"session_id"`
	ClassID         uuid.UUID `json:"class_id"`
	ClassName       string    `json:"class_name,omitempty"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	ActualMinutes   *int      `json:"actual_minutes,omitempty"`
}

// =========================
// Converters
// =========================

func ToClassResponse(m *classModel.ClassModel) ClassResponse {
	resp := ClassResponse{
		ClassID:     m.ClassID,
		TutorID:     m.ClassTutorID,
		Name:        m.ClassName,
		Subject:     m.ClassSubject,
		IsActive:    m.ClassIsActive,
		MemberCount: len(m.Memberships),
		CreatedAt:   m.ClassCreatedAt,
	}
	if m.Tutor != nil {
		resp.TutorName = m.Tutor.UserName
	}
	return resp
}

func ToClassResponses(list []classModel.ClassModel) []ClassResponse {
	out := make([]ClassResponse, 0, len(list))
	for i := range list {
		out = append(out, ToClassResponse(&list[i]))
	}
	return out
}

func ToSessionResponse(m *classModel.ClassSessionModel) SessionResponse {
	resp := SessionResponse{
		SessionID:       m.ClassSessionID,
		ClassID:         m.ClassSessionClassID,
		Title:           m.ClassSessionTitle,
		Status:          m.ClassSessionStatus,
		StartTime:       m.ClassSessionStartTime,
		EndTime:         m.ClassSessionEndTime,
		DurationMinutes: m.ClassSessionDurationMinutes,
		ActualMinutes:   m.ClassSessionActualMinutes,
	}
	if m.Class != nil {
		resp.ClassName = m.Class.ClassName
	}
	return resp
}

func ToSessionResponses(list []classModel.ClassSessionModel) []SessionResponse {
	out := make([]SessionResponse, 0, len(list))
	for i := range list {
		out = append(out, ToSessionResponse(&list[i]))
	}
	return out
}
