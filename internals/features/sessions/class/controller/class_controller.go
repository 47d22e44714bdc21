package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
	classDTO "tutorat_backend/internals/features/sessions/class/dto"
	classModel "tutorat_backend/internals/features/sessions/class/model"
	helper "tutorat_backend/internals/helpers"
)

type ClassController struct {
	DB *gorm.DB
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db}
}

func loadClass(db *gorm.DB, id uuid.UUID) (*classModel.ClassModel, error) {
	var m classModel.ClassModel
	if err := db.First(&m, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Class not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load class")
	}
	return &m, nil
}

func parseClassID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid class ID")
	}
	return id, nil
}

/* =========================================================
   CREATE
   POST /api/u/classes
   ========================================================= */
func (ctrl *ClassController) CreateClass(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if helper.GetRoleFromToken(c) != constants.RoleTutor {
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTutor("classes"))
	}

	var req classDTO.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	class := classModel.ClassModel{
		ClassTutorID:  userID,
		ClassName:     strings.TrimSpace(req.Name),
		ClassSubject:  strings.TrimSpace(req.Subject),
		ClassIsActive: true,
	}
	if err := ctrl.DB.Create(&class).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create class")
	}
	return helper.JsonCreated(c, "Class created", classDTO.ToClassResponse(&class))
}

/* =========================================================
   LIST MINE
   GET /api/u/classes
   Tutors see the classes they teach, students the classes they are
   actively enrolled in.
   ========================================================= */
func (ctrl *ClassController) GetMyClasses(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var rows []classModel.ClassModel
	query := ctrl.DB.Preload("Tutor").Preload("Memberships")

	if helper.GetRoleFromToken(c) == constants.RoleTutor {
		query = query.Where("class_tutor_id = ?", userID)
	} else {
		query = query.
			Where("class_is_active = ?", true).
			Where("class_id IN (?)",
				ctrl.DB.Model(&classModel.ClassMembershipModel{}).
					Select("class_membership_class_id").
					Where("class_membership_student_id = ? AND class_membership_is_active = ?", userID, true),
			)
	}

	if err := query.Order("class_created_at DESC").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load classes")
	}
	return helper.JsonList(c, "Classes loaded", classDTO.ToClassResponses(rows), nil)
}

/* =========================================================
   GET ONE
   GET /api/u/classes/:id
   ========================================================= */
func (ctrl *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := parseClassID(c)
	if err != nil {
		return err
	}

	var m classModel.ClassModel
	if err := ctrl.DB.Preload("Tutor").Preload("Memberships").
		First(&m, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Class not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load class")
	}
	return helper.JsonOK(c, "Class found", classDTO.ToClassResponse(&m))
}

/* =========================================================
   UPDATE (partial)
   PUT /api/u/classes/:id
   ========================================================= */
func (ctrl *ClassController) UpdateClass(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseClassID(c)
	if err != nil {
		return err
	}

	m, err := loadClass(ctrl.DB, id)
	if err != nil {
		return err
	}
	if m.ClassTutorID != userID {
		return fiber.NewError(fiber.StatusForbidden, "Only the class tutor may update the class")
	}

	var req classDTO.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	patch := map[string]interface{}{}
	if req.Name != nil {
		patch["class_name"] = strings.TrimSpace(*req.Name)
	}
	if req.Subject != nil {
		patch["class_subject"] = strings.TrimSpace(*req.Subject)
	}
	if req.IsActive != nil {
		patch["class_is_active"] = *req.IsActive
	}
	if len(patch) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctrl.DB.Model(&classModel.ClassModel{}).
		Where("class_id = ?", id).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update class")
	}

	updated, err := loadClass(ctrl.DB, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Class updated", classDTO.ToClassResponse(updated))
}

/* =========================================================
   DELETE (soft)
   DELETE /api/u/classes/:id
   ========================================================= */
func (ctrl *ClassController) DeleteClass(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseClassID(c)
	if err != nil {
		return err
	}

	m, err := loadClass(ctrl.DB, id)
	if err != nil {
		return err
	}
	if m.ClassTutorID != userID {
		return fiber.NewError(fiber.StatusForbidden, "Only the class tutor may delete the class")
	}

	if err := ctrl.DB.Model(&classModel.ClassModel{}).
		Where("class_id = ?", id).
		Update("class_is_active", false).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete class")
	}
	return helper.JsonDeleted(c, "Class deactivated", fiber.Map{"class_id": id})
}

/* =========================================================
   ENROLL
   POST /api/u/classes/:id/enroll
   ========================================================= */
func (ctrl *ClassController) Enroll(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if helper.GetRoleFromToken(c) != constants.RoleStudent {
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorStudent("classes"))
	}
	id, err := parseClassID(c)
	if err != nil {
		return err
	}

	m, err := loadClass(ctrl.DB, id)
	if err != nil {
		return err
	}
	if !m.ClassIsActive {
		return fiber.NewError(fiber.StatusBadRequest, "Class is inactive")
	}

	var membership classModel.ClassMembershipModel
	err = ctrl.DB.
		Where("class_membership_class_id = ? AND class_membership_student_id = ?", id, userID).
		First(&membership).Error
	switch {
	case err == nil:
		if membership.ClassMembershipIsActive {
			return fiber.NewError(fiber.StatusConflict, "Already enrolled in this class")
		}
		// Rejoin reactivates the old membership row.
		if err := ctrl.DB.Model(&classModel.ClassMembershipModel{}).
			Where("class_membership_id = ?", membership.ClassMembershipID).
			Update("class_membership_is_active", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to enroll")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		membership = classModel.ClassMembershipModel{
			ClassMembershipClassID:   id,
			ClassMembershipStudentID: userID,
			ClassMembershipIsActive:  true,
		}
		if err := ctrl.DB.Create(&membership).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to enroll")
		}
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check enrollment")
	}

	return helper.JsonCreated(c, "Enrolled in class", membership)
}

/* =========================================================
   LEAVE
   POST /api/u/classes/:id/leave
   ========================================================= */
func (ctrl *ClassController) Leave(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseClassID(c)
	if err != nil {
		return err
	}

	res := ctrl.DB.Model(&classModel.ClassMembershipModel{}).
		Where("class_membership_class_id = ? AND class_membership_student_id = ? AND class_membership_is_active = ?",
			id, userID, true).
		Update("class_membership_is_active", false)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to leave class")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Active enrollment not found")
	}
	return helper.JsonOK(c, "Left class", fiber.Map{"class_id": id})
}
