package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
	classDTO "tutorat_backend/internals/features/sessions/class/dto"
	classModel "tutorat_backend/internals/features/sessions/class/model"
	helper "tutorat_backend/internals/helpers"
)

type SessionController struct {
	DB *gorm.DB
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{DB: db}
}

// allowedTransitions maps the current status to the statuses a tutor
// may move a session into. COMPLETED and CANCELLED are terminal.
var allowedTransitions = map[string][]string{
	classModel.SessionStatusPending:   {classModel.SessionStatusConfirmed, classModel.SessionStatusCancelled},
	classModel.SessionStatusConfirmed: {classModel.SessionStatusCompleted, classModel.SessionStatusCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func parseSessionTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Invalid time format")
}

/* =========================================================
   CREATE
   POST /api/u/classes/:id/sessions
   ========================================================= */
func (ctrl *SessionController) CreateSession(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classID, err := parseClassID(c)
	if err != nil {
		return err
	}

	class, err := loadClass(ctrl.DB, classID)
	if err != nil {
		return err
	}
	if class.ClassTutorID != userID {
		return fiber.NewError(fiber.StatusForbidden, "Only the class tutor may schedule sessions")
	}
	if !class.ClassIsActive {
		return fiber.NewError(fiber.StatusBadRequest, "Class is inactive")
	}

	var req classDTO.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	start, err := parseSessionTime(req.StartTime)
	if err != nil {
		return err
	}
	end, err := parseSessionTime(req.EndTime)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fiber.NewError(fiber.StatusBadRequest, "End time must be after start time")
	}

	session := classModel.ClassSessionModel{
		ClassSessionClassID:         classID,
		ClassSessionTitle:           strings.TrimSpace(req.Title),
		ClassSessionStatus:          classModel.SessionStatusPending,
		ClassSessionStartTime:       start,
		ClassSessionEndTime:         end,
		ClassSessionDurationMinutes: int(end.Sub(start).Minutes()),
	}
	if err := ctrl.DB.Create(&session).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create session")
	}
	return helper.JsonCreated(c, "Session created", classDTO.ToSessionResponse(&session))
}

/* =========================================================
   LIST FOR CLASS
   GET /api/u/classes/:id/sessions
   ========================================================= */
func (ctrl *SessionController) GetClassSessions(c *fiber.Ctx) error {
	classID, err := parseClassID(c)
	if err != nil {
		return err
	}
	if _, err := loadClass(ctrl.DB, classID); err != nil {
		return err
	}

	var rows []classModel.ClassSessionModel
	if err := ctrl.DB.
		Where("class_session_class_id = ?", classID).
		Order("class_session_start_time ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load sessions")
	}
	return helper.JsonList(c, "Sessions loaded", classDTO.ToSessionResponses(rows), nil)
}

/* =========================================================
   LIST MINE (upcoming)
   GET /api/u/sessions
   Tutors see sessions of classes they teach, students of classes they
   are actively enrolled in.
   ========================================================= */
func (ctrl *SessionController) GetMySessions(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var classIDs *gorm.DB
	if helper.GetRoleFromToken(c) == constants.RoleTutor {
		classIDs = ctrl.DB.Model(&classModel.ClassModel{}).
			Select("class_id").
			Where("class_tutor_id = ?", userID)
	} else {
		classIDs = ctrl.DB.Model(&classModel.ClassMembershipModel{}).
			Select("class_membership_class_id").
			Where("class_membership_student_id = ? AND class_membership_is_active = ?", userID, true)
	}

	query := ctrl.DB.Preload("Class").
		Where("class_session_class_id IN (?)", classIDs)
	if strings.EqualFold(c.Query("upcoming"), "true") {
		query = query.
			Where("class_session_status IN ?", []string{classModel.SessionStatusPending, classModel.SessionStatusConfirmed}).
			Where("class_session_start_time > ?", time.Now())
	}

	var rows []classModel.ClassSessionModel
	if err := query.Order("class_session_start_time ASC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load sessions")
	}
	return helper.JsonList(c, "Sessions loaded", classDTO.ToSessionResponses(rows), nil)
}

/* =========================================================
   STATUS TRANSITION
   PUT /api/u/sessions/:id/status
   Completing a session records the actual duration, defaulting to the
   scheduled one.
   ========================================================= */
func (ctrl *SessionController) UpdateSessionStatus(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session ID")
	}

	var req classDTO.UpdateSessionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var session classModel.ClassSessionModel
	if err := ctrl.DB.Preload("Class").
		First(&session, "class_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}
	if session.Class == nil || session.Class.ClassTutorID != userID {
		return fiber.NewError(fiber.StatusForbidden, "Only the class tutor may change the session status")
	}
	if !transitionAllowed(session.ClassSessionStatus, req.Status) {
		return fiber.NewError(fiber.StatusBadRequest,
			"Cannot move session from "+session.ClassSessionStatus+" to "+req.Status)
	}

	patch := map[string]interface{}{"class_session_status": req.Status}
	if req.Status == classModel.SessionStatusCompleted {
		actual := session.ClassSessionDurationMinutes
		if req.ActualMinutes != nil {
			actual = *req.ActualMinutes
		}
		patch["class_session_actual_minutes"] = actual
	}

	if err := ctrl.DB.Model(&classModel.ClassSessionModel{}).
		Where("class_session_id = ?", sessionID).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update session")
	}

	var updated classModel.ClassSessionModel
	if err := ctrl.DB.Preload("Class").
		First(&updated, "class_session_id = ?", sessionID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}
	return helper.JsonUpdated(c, "Session updated", classDTO.ToSessionResponse(&updated))
}
