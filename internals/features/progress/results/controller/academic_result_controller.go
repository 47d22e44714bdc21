package controller

import (
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
	badgeService "tutorat_backend/internals/features/progress/badges/service"
	resultDTO "tutorat_backend/internals/features/progress/results/dto"
	resultModel "tutorat_backend/internals/features/progress/results/model"
	resultService "tutorat_backend/internals/features/progress/results/service"
	classModel "tutorat_backend/internals/features/sessions/class/model"
	userModel "tutorat_backend/internals/features/users/user/model"
	helper "tutorat_backend/internals/helpers"
)

type AcademicResultController struct {
	DB *gorm.DB
}

func NewAcademicResultController(db *gorm.DB) *AcademicResultController {
	return &AcademicResultController{DB: db}
}

/* =========================================================
   Helpers (local)
   ========================================================= */

func parseExamDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Exam date is required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Invalid exam date format")
}

// validateScorePair checks the merged score/max-score pair. Both values
// must be present by the time this runs.
func validateScorePair(score, maxScore float64) error {
	if score < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Score cannot be negative")
	}
	if maxScore <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Max score must be greater than zero")
	}
	if score > maxScore {
		return fiber.NewError(fiber.StatusBadRequest, "Score cannot exceed max score")
	}
	return nil
}

func (ctrl *AcademicResultController) loadOwnedResult(id, studentID uuid.UUID) (*resultModel.AcademicResultModel, error) {
	var m resultModel.AcademicResultModel
	if err := ctrl.DB.First(&m, "academic_result_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Academic result not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load academic result")
	}
	if m.AcademicResultStudentID != studentID {
		return nil, fiber.NewError(fiber.StatusForbidden, "You do not own this academic result")
	}
	return &m, nil
}

func (ctrl *AcademicResultController) subjectPoints(studentID uuid.UUID, subject string) ([]resultService.ScorePoint, error) {
	var rows []resultModel.AcademicResultModel
	if err := ctrl.DB.
		Where("academic_result_student_id = ? AND academic_result_subject = ?", studentID, subject).
		Order("academic_result_exam_date ASC").
		Find(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load academic results")
	}
	return resultDTO.ToScorePoints(rows), nil
}

func (ctrl *AcademicResultController) distinctSubjects(studentID uuid.UUID) ([]string, error) {
	var subjects []string
	if err := ctrl.DB.Model(&resultModel.AcademicResultModel{}).
		Where("academic_result_student_id = ?", studentID).
		Distinct("academic_result_subject").
		Order("academic_result_subject ASC").
		Pluck("academic_result_subject", &subjects).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load subjects")
	}
	return subjects, nil
}

/* =========================================================
   CREATE
   POST /api/u/progress/results
   ========================================================= */
func (ctrl *AcademicResultController) CreateResult(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load user")
	}
	if user.Role != constants.RoleStudent {
		return fiber.NewError(fiber.StatusBadRequest, "Only students can record academic results")
	}

	var req resultDTO.CreateAcademicResultRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}

	req.Subject = strings.TrimSpace(req.Subject)
	req.ExamName = strings.TrimSpace(req.ExamName)
	if req.Subject == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Subject is required")
	}
	if req.ExamName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Exam name is required")
	}
	if req.Score == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Score is required")
	}
	if req.MaxScore == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Max score is required")
	}
	if err := validateScorePair(*req.Score, *req.MaxScore); err != nil {
		return err
	}
	examDate, err := parseExamDate(req.ExamDate)
	if err != nil {
		return err
	}
	if examDate.After(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "Exam date cannot be in the future")
	}

	result := resultModel.AcademicResultModel{
		AcademicResultStudentID: studentID,
		AcademicResultSubject:   req.Subject,
		AcademicResultExamName:  req.ExamName,
		AcademicResultScore:     *req.Score,
		AcademicResultMaxScore:  *req.MaxScore,
		AcademicResultExamDate:  examDate,
	}
	if err := ctrl.DB.Create(&result).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create academic result")
	}

	if err := badgeService.CheckProgressisteBadge(ctrl.DB, studentID); err != nil {
		log.Printf("[ERROR] Badge check failed for student %s: %v", studentID, err)
	}

	return helper.JsonCreated(c, "Academic result created", resultDTO.ToAcademicResultResponse(&result))
}

/* =========================================================
   LIST MINE
   GET /api/u/progress/results
   ========================================================= */
func (ctrl *AcademicResultController) GetMyResults(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	query := ctrl.DB.Model(&resultModel.AcademicResultModel{}).
		Where("academic_result_student_id = ?", studentID)
	if subject := strings.TrimSpace(c.Query("subject")); subject != "" {
		query = query.Where("academic_result_subject = ?", subject)
	}

	paging := helper.ResolvePaging(c, 25, 100)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load academic results")
	}

	var rows []resultModel.AcademicResultModel
	if err := query.
		Order("academic_result_exam_date DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load academic results")
	}

	pagination := helper.BuildPagination(paging, total, len(rows))
	return helper.JsonList(c, "Academic results loaded", resultDTO.ToAcademicResultResponses(rows), pagination)
}

/* =========================================================
   GET ONE
   GET /api/u/progress/results/:id
   ========================================================= */
func (ctrl *AcademicResultController) GetResult(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid result ID")
	}

	m, err := ctrl.loadOwnedResult(id, studentID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Academic result found", resultDTO.ToAcademicResultResponse(m))
}

/* =========================================================
   UPDATE (partial)
   PUT /api/u/progress/results/:id
   ========================================================= */
func (ctrl *AcademicResultController) UpdateResult(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid result ID")
	}

	m, err := ctrl.loadOwnedResult(id, studentID)
	if err != nil {
		return err
	}

	var req resultDTO.UpdateAcademicResultRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}

	patch := map[string]interface{}{}
	if req.Subject != nil {
		subject := strings.TrimSpace(*req.Subject)
		if subject == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Subject is required")
		}
		patch["academic_result_subject"] = subject
	}
	if req.ExamName != nil {
		examName := strings.TrimSpace(*req.ExamName)
		if examName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Exam name is required")
		}
		patch["academic_result_exam_name"] = examName
	}

	// Score rules run against the merged pair so a lone score update is
	// still checked against the stored max score.
	mergedScore := m.AcademicResultScore
	mergedMax := m.AcademicResultMaxScore
	if req.Score != nil {
		mergedScore = *req.Score
		patch["academic_result_score"] = *req.Score
	}
	if req.MaxScore != nil {
		mergedMax = *req.MaxScore
		patch["academic_result_max_score"] = *req.MaxScore
	}
	if req.Score != nil || req.MaxScore != nil {
		if err := validateScorePair(mergedScore, mergedMax); err != nil {
			return err
		}
	}

	if req.ExamDate != nil {
		examDate, err := parseExamDate(*req.ExamDate)
		if err != nil {
			return err
		}
		if examDate.After(time.Now()) {
			return fiber.NewError(fiber.StatusBadRequest, "Exam date cannot be in the future")
		}
		patch["academic_result_exam_date"] = examDate
	}

	if len(patch) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctrl.DB.Model(&resultModel.AcademicResultModel{}).
		Where("academic_result_id = ?", id).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update academic result")
	}

	if err := badgeService.CheckProgressisteBadge(ctrl.DB, studentID); err != nil {
		log.Printf("[ERROR] Badge check failed for student %s: %v", studentID, err)
	}

	var updated resultModel.AcademicResultModel
	if err := ctrl.DB.First(&updated, "academic_result_id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load academic result")
	}
	return helper.JsonUpdated(c, "Academic result updated", resultDTO.ToAcademicResultResponse(&updated))
}

/* =========================================================
   DELETE
   DELETE /api/u/progress/results/:id
   ========================================================= */
func (ctrl *AcademicResultController) DeleteResult(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid result ID")
	}

	if _, err := ctrl.loadOwnedResult(id, studentID); err != nil {
		return err
	}

	if err := ctrl.DB.Delete(&resultModel.AcademicResultModel{}, "academic_result_id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete academic result")
	}
	return helper.JsonDeleted(c, "Academic result deleted", fiber.Map{"academic_result_id": id})
}

/* =========================================================
   SUBJECT LIST
   GET /api/u/progress/subjects
   ========================================================= */
func (ctrl *AcademicResultController) GetSubjects(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	subjects, err := ctrl.distinctSubjects(studentID)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Subjects loaded", subjects, nil)
}

/* =========================================================
   SUBJECT PROGRESS
   GET /api/u/progress/subject/:subject
   ========================================================= */
func (ctrl *AcademicResultController) GetSubjectProgress(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	subject := strings.TrimSpace(c.Params("subject"))
	if subject == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Subject is required")
	}

	points, err := ctrl.subjectPoints(studentID, subject)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Subject progress computed", resultService.BuildSubjectProgress(subject, points))
}

/* =========================================================
   DASHBOARD
   GET /api/u/progress/dashboard
   ========================================================= */
func (ctrl *AcademicResultController) GetDashboard(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	classIDs := ctrl.DB.Model(&classModel.ClassMembershipModel{}).
		Select("class_membership_class_id").
		Where("class_membership_student_id = ? AND class_membership_is_active = ?", studentID, true)

	var completedMinutes float64
	if err := ctrl.DB.Model(&classModel.ClassSessionModel{}).
		Select("COALESCE(SUM(COALESCE(class_session_actual_minutes, class_session_duration_minutes)), 0)").
		Where("class_session_class_id IN (?)", classIDs).
		Where("class_session_status = ?", classModel.SessionStatusCompleted).
		Scan(&completedMinutes).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to aggregate session hours")
	}

	var upcoming int64
	if err := ctrl.DB.Model(&classModel.ClassSessionModel{}).
		Where("class_session_class_id IN (?)", classIDs).
		Where("class_session_status IN ?", []string{classModel.SessionStatusPending, classModel.SessionStatusConfirmed}).
		Where("class_session_start_time > ?", time.Now()).
		Count(&upcoming).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count upcoming sessions")
	}

	subjects, err := ctrl.distinctSubjects(studentID)
	if err != nil {
		return err
	}

	subjectProgress := make([]resultService.SubjectProgress, 0, len(subjects))
	var improvementSum float64
	var improvementCount int
	for _, subject := range subjects {
		points, err := ctrl.subjectPoints(studentID, subject)
		if err != nil {
			return err
		}
		progress := resultService.BuildSubjectProgress(subject, points)
		subjectProgress = append(subjectProgress, progress)
		if progress.Improvement != nil {
			improvementSum += *progress.Improvement
			improvementCount++
		}
	}

	var overall *float64
	if improvementCount > 0 {
		v := math.Round(improvementSum/float64(improvementCount)*100) / 100
		overall = &v
	}

	var recent []resultModel.AcademicResultModel
	if err := ctrl.DB.
		Where("academic_result_student_id = ?", studentID).
		Order("academic_result_exam_date DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load recent results")
	}

	return helper.JsonOK(c, "Dashboard computed", resultDTO.ProgressDashboardResponse{
		CompletedHours:     completedMinutes / 60,
		UpcomingSessions:   upcoming,
		Subjects:           subjectProgress,
		OverallImprovement: overall,
		RecentResults:      resultDTO.ToAcademicResultResponses(recent),
	})
}

/* =========================================================
   VISUALIZATION
   GET /api/u/progress/visualization?subject=
   ========================================================= */
func (ctrl *AcademicResultController) GetVisualization(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	query := ctrl.DB.Where("academic_result_student_id = ?", studentID)
	if subject := strings.TrimSpace(c.Query("subject")); subject != "" {
		query = query.Where("academic_result_subject = ?", subject)
	}

	var rows []resultModel.AcademicResultModel
	if err := query.Order("academic_result_exam_date ASC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load academic results")
	}

	series := resultService.BuildVisualizationSeries(resultDTO.ToScorePoints(rows))
	return helper.JsonOK(c, "Visualization series computed", series)
}
