package dto

import (
	"time"

	"github.com/google/uuid"

	resultModel "tutorat_backend/internals/features/progress/results/model"
	resultService "tutorat_backend/internals/features/progress/results/service"
)

// =========================
// Requests
// =========================

type CreateAcademicResultRequest struct {
	Subject  string   `json:"subject"`
	ExamName string   `json:"exam_name"`
	Score    *float64 `json:"score"`
	MaxScore *float64 `json:"max_score"`
	ExamDate string   `json:"exam_date"`
}

// UpdateAcademicResultRequest carries only the fields the client wants
// changed. Score and max score are validated against the merged pair.
type UpdateAcademicResultRequest struct {
	Subject  *string  `json:"subject"`
	ExamName *string  `json:"exam_name"`
	Score    *float64 `json:"score"`
	MaxScore *float64 `json:"max_score"`
	ExamDate *string  `json:"exam_date"`
}

// =========================
// Responses
// =========================

type AcademicResultResponse struct {
	AcademicResultID uuid.UUID `json:"academic_result_id"`
	StudentID        uuid.UUID `json:"student_id"`
	Subject          string    `json:"subject"`
	ExamName         string    `json:"exam_name"`
	Score            float64   `json:"score"`
	MaxScore         float64   `json:"max_score"`
	Percentage       float64   `json:"percentage"`
	ExamDate         time.Time `json:"exam_date"`
	CreatedAt        time.Time `json:"created_at"`
}

type ProgressDashboardResponse struct {
	CompletedHours     float64                         `json:"completed_hours"`
	UpcomingSessions   int64                           `json:"upcoming_sessions"`
	Subjects           []resultService.SubjectProgress `json:"subjects"`
	OverallImprovement *float64                        `json:"overall_improvement"`
	RecentResults      []AcademicResultResponse        `json:"recent_results"`
}

// =========================
// Converters
// =========================

func ToAcademicResultResponse(m *resultModel.AcademicResultModel) AcademicResultResponse {
	point := resultService.ScorePoint{Score: m.AcademicResultScore, MaxScore: m.AcademicResultMaxScore}
	return AcademicResultResponse{
		AcademicResultID: m.AcademicResultID,
		StudentID:        m.AcademicResultStudentID,
		Subject:          m.AcademicResultSubject,
		ExamName:         m.AcademicResultExamName,
		Score:            m.AcademicResultScore,
		MaxScore:         m.AcademicResultMaxScore,
		Percentage:       point.Percentage(),
		ExamDate:         m.AcademicResultExamDate,
		CreatedAt:        m.AcademicResultCreatedAt,
	}
}

func ToAcademicResultResponses(list []resultModel.AcademicResultModel) []AcademicResultResponse {
	out := make([]AcademicResultResponse, 0, len(list))
	for i := range list {
		out = append(out, ToAcademicResultResponse(&list[i]))
	}
	return out
}

// ToScorePoints reduces result rows (already ordered by exam date) to
// the analysis engine's input.
func ToScorePoints(list []resultModel.AcademicResultModel) []resultService.ScorePoint {
	out := make([]resultService.ScorePoint, 0, len(list))
	for _, r := range list {
		out = append(out, resultService.ScorePoint{
			ExamName: r.AcademicResultExamName,
			Score:    r.AcademicResultScore,
			MaxScore: r.AcademicResultMaxScore,
			ExamDate: r.AcademicResultExamDate,
		})
	}
	return out
}
