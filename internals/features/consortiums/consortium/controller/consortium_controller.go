package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
	consortiumDTO "tutorat_backend/internals/features/consortiums/consortium/dto"
	consortiumModel "tutorat_backend/internals/features/consortiums/consortium/model"
	consortiumService "tutorat_backend/internals/features/consortiums/consortium/service"
	userModel "tutorat_backend/internals/features/users/user/model"
	helper "tutorat_backend/internals/helpers"
)

type ConsortiumController struct {
	DB *gorm.DB
}

func NewConsortiumController(db *gorm.DB) *ConsortiumController {
	return &ConsortiumController{DB: db}
}

/* =========================================================
   Helpers (local)
   ========================================================= */

// findTutor resolves a user and verifies they are a tutor with a tutor
// profile. 404 when the user is missing, 400 when they are not a tutor.
func findTutor(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Tutor not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load user")
	}
	if user.Role != constants.RoleTutor {
		return nil, fiber.NewError(fiber.StatusBadRequest, "User is not a tutor")
	}
	var cnt int64
	if err := db.Model(&userModel.TutorProfileModel{}).
		Where("tutor_profile_user_id = ?", userID).
		Count(&cnt).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check tutor profile")
	}
	if cnt == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "User has no tutor profile")
	}
	return &user, nil
}

// loadConsortium fetches a consortium row (no preloads). 404 when absent.
func loadConsortium(db *gorm.DB, id uuid.UUID) (*consortiumModel.ConsortiumModel, error) {
	var m consortiumModel.ConsortiumModel
	if err := db.First(&m, "consortium_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Consortium not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load consortium")
	}
	return &m, nil
}

// loadConsortiumFull fetches a consortium with creator and members+tutors.
func loadConsortiumFull(db *gorm.DB, id uuid.UUID) (*consortiumModel.ConsortiumModel, error) {
	var m consortiumModel.ConsortiumModel
	if err := db.
		Preload("Creator").
		Preload("Members", func(q *gorm.DB) *gorm.DB {
			return q.Order("consortium_member_joined_at ASC")
		}).
		Preload("Members.Tutor").
		First(&m, "consortium_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Consortium not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load consortium")
	}
	return &m, nil
}

func parseConsortiumID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid consortium ID")
	}
	return id, nil
}

/* =========================================================
   CREATE
   POST /api/u/consortiums
   ========================================================= */
func (ctrl *ConsortiumController) CreateConsortium(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req consortiumDTO.CreateConsortiumRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Consortium name is required")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if _, err := findTutor(ctrl.DB, userID); err != nil {
		return err
	}

	policy := consortiumService.RevenuePolicy{Type: consortiumModel.PolicyEqual}
	if req.Policy != nil {
		policy = *req.Policy
	}

	// Single-member set at creation: a custom policy only needs the
	// creator's entry.
	memberIDs := []uuid.UUID{userID}
	shares, err := consortiumService.CalculateRevenueShares(policy, memberIDs)
	if err != nil {
		return err
	}
	if err := consortiumService.ValidateRevenuePolicy(policy, len(memberIDs)); err != nil {
		return err
	}

	sharesJSON, err := consortiumService.SharesToJSON(policy.CustomShares)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid custom shares")
	}

	consortium := consortiumModel.ConsortiumModel{
		ConsortiumName:         req.Name,
		ConsortiumDescription:  req.Description,
		ConsortiumCreatedBy:    userID,
		ConsortiumPolicyType:   policy.Type,
		ConsortiumCustomShares: sharesJSON,
		ConsortiumIsActive:     true,
	}

	if err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&consortium).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create consortium")
		}

		share, ok := shares[userID]
		if !ok {
			share = 100
		}
		member := consortiumModel.ConsortiumMemberModel{
			ConsortiumMemberConsortiumID: consortium.ConsortiumID,
			ConsortiumMemberTutorID:      userID,
			ConsortiumMemberRole:         constants.ConsortiumRoleCoordinator,
			ConsortiumMemberRevenueShare: share,
		}
		if err := tx.Create(&member).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create coordinator member")
		}
		return nil
	}); err != nil {
		return err
	}

	full, err := loadConsortiumFull(ctrl.DB, consortium.ConsortiumID)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Consortium created", consortiumDTO.ToConsortiumResponse(full))
}

/* =========================================================
   GET BY ID
   GET /api/u/consortiums/:id
   ========================================================= */
func (ctrl *ConsortiumController) GetConsortium(c *fiber.Ctx) error {
	id, err := parseConsortiumID(c)
	if err != nil {
		return err
	}

	m, err := loadConsortiumFull(ctrl.DB, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Consortium found", consortiumDTO.ToConsortiumResponse(m))
}

/* =========================================================
   LIST MINE
   GET /api/u/consortiums
   Active consortiums where the caller is creator or member, newest first.
   ========================================================= */
func (ctrl *ConsortiumController) GetMyConsortiums(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var rows []consortiumModel.ConsortiumModel
	if err := ctrl.DB.
		Preload("Creator").
		Preload("Members", func(q *gorm.DB) *gorm.DB {
			return q.Order("consortium_member_joined_at ASC")
		}).
		Preload("Members.Tutor").
		Where("consortium_is_active = ?", true).
		Where("consortium_created_by = ? OR consortium_id IN (?)",
			userID,
			ctrl.DB.Model(&consortiumModel.ConsortiumMemberModel{}).
				Select("consortium_member_consortium_id").
				Where("consortium_member_tutor_id = ?", userID),
		).
		Order("consortium_created_at DESC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load consortiums")
	}

	return helper.JsonList(c, "Consortiums loaded", consortiumDTO.ToConsortiumResponses(rows), nil)
}

/* =========================================================
   UPDATE (partial)
   PUT /api/u/consortiums/:id
   ========================================================= */
func (ctrl *ConsortiumController) UpdateConsortium(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseConsortiumID(c)
	if err != nil {
		return err
	}

	var req consortiumDTO.UpdateConsortiumRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	m, err := loadConsortium(ctrl.DB, id)
	if err != nil {
		return err
	}
	if m.ConsortiumCreatedBy != userID {
		return fiber.NewError(fiber.StatusForbidden, "Only the coordinator may update the consortium")
	}

	patch := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Consortium name is required")
		}
		patch["consortium_name"] = name
	}
	if req.Description != nil {
		patch["consortium_description"] = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		patch["consortium_is_active"] = *req.IsActive
	}
	if len(patch) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctrl.DB.Model(&consortiumModel.ConsortiumModel{}).
		Where("consortium_id = ?", id).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update consortium")
	}

	full, err := loadConsortiumFull(ctrl.DB, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Consortium updated", consortiumDTO.ToConsortiumResponse(full))
}

/* =========================================================
   DELETE (soft)
   DELETE /api/u/consortiums/:id
   ========================================================= */
func (ctrl *ConsortiumController) DeleteConsortium(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseConsortiumID(c)
	if err != nil {
		return err
	}

	m, err := loadConsortium(ctrl.DB, id)
	if err != nil {
		return err
	}
	if m.ConsortiumCreatedBy != userID {
		return fiber.NewError(fiber.StatusForbidden, "Only the coordinator may delete the consortium")
	}

	if err := ctrl.DB.Model(&consortiumModel.ConsortiumModel{}).
		Where("consortium_id = ?", id).
		Update("consortium_is_active", false).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete consortium")
	}

	return helper.JsonDeleted(c, "Consortium deactivated", fiber.Map{"consortium_id": id})
}

/* =========================================================
   UPDATE POLICY
   PUT /api/u/consortiums/:id/policy
   Recomputes every member's share under the new policy, atomically.
   ========================================================= */
func (ctrl *ConsortiumController) UpdateRevenuePolicy(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseConsortiumID(c)
	if err != nil {
		return err
	}

	var policy consortiumService.RevenuePolicy
	if err := c.BodyParser(&policy); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(policy); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		m, err := loadConsortium(tx, id)
		if err != nil {
			return err
		}
		if m.ConsortiumCreatedBy != userID {
			return fiber.NewError(fiber.StatusForbidden, "Only the coordinator may change the revenue policy")
		}

		var members []consortiumModel.ConsortiumMemberModel
		if err := tx.
			Where("consortium_member_consortium_id = ?", id).
			Order("consortium_member_joined_at ASC").
			Find(&members).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load members")
		}

		memberIDs := make([]uuid.UUID, 0, len(members))
		for _, mem := range members {
			memberIDs = append(memberIDs, mem.ConsortiumMemberTutorID)
		}

		shares, err := consortiumService.CalculateRevenueShares(policy, memberIDs)
		if err != nil {
			return err
		}
		if err := consortiumService.ValidateRevenuePolicy(policy, len(memberIDs)); err != nil {
			return err
		}

		sharesJSON, err := consortiumService.SharesToJSON(policy.CustomShares)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid custom shares")
		}
		if err := tx.Model(&consortiumModel.ConsortiumModel{}).
			Where("consortium_id = ?", id).
			Updates(map[string]interface{}{
				"consortium_policy_type":   policy.Type,
				"consortium_custom_shares": sharesJSON,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to store policy")
		}

		for _, mem := range members {
			if err := tx.Model(&consortiumModel.ConsortiumMemberModel{}).
				Where("consortium_member_id = ?", mem.ConsortiumMemberID).
				Update("consortium_member_revenue_share", shares[mem.ConsortiumMemberTutorID]).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to update member share")
			}
		}
		return nil
	}); err != nil {
		return err
	}

	full, err := loadConsortiumFull(ctrl.DB, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Revenue policy updated", consortiumDTO.ToConsortiumResponse(full))
}
