package controller

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
	availabilityDTO "tutorat_backend/internals/features/sessions/availability/dto"
	availabilityModel "tutorat_backend/internals/features/sessions/availability/model"
	helper "tutorat_backend/internals/helpers"
)

type AvailabilityController struct {
	DB *gorm.DB
}

func NewAvailabilityController(db *gorm.DB) *AvailabilityController {
	return &AvailabilityController{DB: db}
}

var hhmmRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// validateSlotTimes checks both bounds are HH:MM and start < end.
// String comparison works because the format is zero-padded.
func validateSlotTimes(start, end string) error {
	if !hhmmRe.MatchString(start) || !hhmmRe.MatchString(end) {
		return fiber.NewError(fiber.StatusBadRequest, "Time must be in HH:MM format")
	}
	if start >= end {
		return fiber.NewError(fiber.StatusBadRequest, "End time must be after start time")
	}
	return nil
}

func (ctrl *AvailabilityController) loadOwnedSlot(id, tutorID uuid.UUID) (*availabilityModel.AvailabilityModel, error) {
	var m availabilityModel.AvailabilityModel
	if err := ctrl.DB.First(&m, "availability_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Availability slot not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load availability slot")
	}
	if m.AvailabilityTutorID != tutorID {
		return nil, fiber.NewError(fiber.StatusForbidden, "You do not own this availability slot")
	}
	return &m, nil
}

/* =========================================================
   CREATE
   POST /api/u/availability
   ========================================================= */
func (ctrl *AvailabilityController) CreateAvailability(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if helper.GetRoleFromToken(c) != constants.RoleTutor {
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTutor("availability"))
	}

	var req availabilityDTO.CreateAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validateSlotTimes(req.StartTime, req.EndTime); err != nil {
		return err
	}

	slot := availabilityModel.AvailabilityModel{
		AvailabilityTutorID:   userID,
		AvailabilityDayOfWeek: *req.DayOfWeek,
		AvailabilityStartTime: req.StartTime,
		AvailabilityEndTime:   req.EndTime,
		AvailabilityIsActive:  true,
	}
	if err := ctrl.DB.Create(&slot).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create availability slot")
	}
	return helper.JsonCreated(c, "Availability slot created", slot)
}

/* =========================================================
   LIST MINE
   GET /api/u/availability
   ========================================================= */
func (ctrl *AvailabilityController) GetMyAvailability(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var rows []availabilityModel.AvailabilityModel
	if err := ctrl.DB.
		Where("availability_tutor_id = ?", userID).
		Order("availability_day_of_week ASC, availability_start_time ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load availability")
	}
	return helper.JsonList(c, "Availability loaded", rows, nil)
}

/* =========================================================
   LIST FOR A TUTOR
   GET /api/u/availability/tutor/:tutorId
   Active slots only, for students browsing a tutor's calendar.
   ========================================================= */
func (ctrl *AvailabilityController) GetTutorAvailability(c *fiber.Ctx) error {
	tutorID, err := uuid.Parse(strings.TrimSpace(c.Params("tutorId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid tutor ID")
	}

	var rows []availabilityModel.AvailabilityModel
	if err := ctrl.DB.
		Where("availability_tutor_id = ? AND availability_is_active = ?", tutorID, true).
		Order("availability_day_of_week ASC, availability_start_time ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load availability")
	}
	return helper.JsonList(c, "Availability loaded", rows, nil)
}

/* =========================================================
   UPDATE (partial)
   PUT /api/u/availability/:id
   ========================================================= */
func (ctrl *AvailabilityController) UpdateAvailability(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid availability ID")
	}

	slot, err := ctrl.loadOwnedSlot(id, userID)
	if err != nil {
		return err
	}

	var req availabilityDTO.UpdateAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	start := slot.AvailabilityStartTime
	end := slot.AvailabilityEndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if err := validateSlotTimes(start, end); err != nil {
		return err
	}

	patch := map[string]interface{}{
		"availability_start_time": start,
		"availability_end_time":   end,
	}
	if req.DayOfWeek != nil {
		patch["availability_day_of_week"] = *req.DayOfWeek
	}
	if req.IsActive != nil {
		patch["availability_is_active"] = *req.IsActive
	}

	if err := ctrl.DB.Model(&availabilityModel.AvailabilityModel{}).
		Where("availability_id = ?", id).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update availability slot")
	}

	var updated availabilityModel.AvailabilityModel
	if err := ctrl.DB.First(&updated, "availability_id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load availability slot")
	}
	return helper.JsonUpdated(c, "Availability slot updated", updated)
}

/* =========================================================
   DELETE
   DELETE /api/u/availability/:id
   ========================================================= */
func (ctrl *AvailabilityController) DeleteAvailability(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid availability ID")
	}

	if _, err := ctrl.loadOwnedSlot(id, userID); err != nil {
		return err
	}

	if err := ctrl.DB.Delete(&availabilityModel.AvailabilityModel{}, "availability_id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete availability slot")
	}
	return helper.JsonDeleted(c, "Availability slot deleted", fiber.Map{"availability_id": id})
}
