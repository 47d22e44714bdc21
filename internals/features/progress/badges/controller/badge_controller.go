package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	badgeModel "tutorat_backend/internals/features/progress/badges/model"
	helper "tutorat_backend/internals/helpers"
)

type BadgeController struct {
	DB *gorm.DB
}

func NewBadgeController(db *gorm.DB) *BadgeController {
	return &BadgeController{DB: db}
}

// GetMyBadges returns the caller's earned badges, newest first.
// GET /api/u/progress/badges
func (ctrl *BadgeController) GetMyBadges(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var rows []badgeModel.UserBadgeModel
	if err := ctrl.DB.Preload("Badge").
		Where("user_badge_user_id = ?", userID).
		Order("user_badge_awarded_at DESC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load badges")
	}

	return helper.JsonList(c, "Badges loaded", rows, nil)
}
