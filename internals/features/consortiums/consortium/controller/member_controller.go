package controller

import (
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

// addMemberTx runs the whole add-member flow in one transaction so the
// membership read and the share rewrite cannot interleave with a
// concurrent add. Returns the created member row.
func (ctrl *ConsortiumController) addMemberTx(consortiumID, tutorID, requesterID uuid.UUID) (*consortiumModel.ConsortiumMemberModel, error) {
	var created consortiumModel.ConsortiumMemberModel

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		m, err := loadConsortium(tx, consortiumID)
		if err != nil {
			return err
		}
		if !m.ConsortiumIsActive {
			return fiber.NewError(fiber.StatusBadRequest, "Consortium is inactive")
		}
		if m.ConsortiumCreatedBy != requesterID {
			return fiber.NewError(fiber.StatusForbidden, "Only the coordinator may add members")
		}
		if _, err := findTutor(tx, tutorID); err != nil {
			return err
		}

		var members []consortiumModel.ConsortiumMemberModel
		if err := tx.
			Where("consortium_member_consortium_id = ?", consortiumID).
			Order("consortium_member_joined_at ASC").
			Find(&members).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load members")
		}
		for _, mem := range members {
			if mem.ConsortiumMemberTutorID == tutorID {
				return fiber.NewError(fiber.StatusConflict, "Tutor is already a member of this consortium")
			}
		}

		memberIDs := make([]uuid.UUID, 0, len(members)+1)
		for _, mem := range members {
			memberIDs = append(memberIDs, mem.ConsortiumMemberTutorID)
		}
		memberIDs = append(memberIDs, tutorID)

		policy, err := consortiumService.PolicyFromModel(m)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to read revenue policy")
		}
		shares, err := consortiumService.CalculateRevenueShares(policy, memberIDs)
		if err != nil {
			return err
		}
		if err := consortiumService.ValidateRevenuePolicy(policy, len(memberIDs)); err != nil {
			return err
		}

		created = consortiumModel.ConsortiumMemberModel{
			ConsortiumMemberConsortiumID: consortiumID,
			ConsortiumMemberTutorID:      tutorID,
			ConsortiumMemberRole:         constants.ConsortiumRoleMember,
			ConsortiumMemberRevenueShare: shares[tutorID],
		}
		if err := tx.Create(&created).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to add member")
		}

		for _, mem := range members {
			if err := tx.Model(&consortiumModel.ConsortiumMemberModel{}).
				Where("consortium_member_id = ?", mem.ConsortiumMemberID).
				Update("consortium_member_revenue_share", shares[mem.ConsortiumMemberTutorID]).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to update member share")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

/* =========================================================
   ADD MEMBER
   POST /api/u/consortiums/:id/members
   ========================================================= */
func (ctrl *ConsortiumController) AddMember(c *fiber.Ctx) error {
	requesterID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	consortiumID, err := parseConsortiumID(c)
	if err != nil {
		return err
	}

	var req consortiumDTO.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	created, err := ctrl.addMemberTx(consortiumID, req.TutorID, requesterID)
	if err != nil {
		return err
	}

	var full consortiumModel.ConsortiumMemberModel
	if err := ctrl.DB.Preload("Tutor").
		First(&full, "consortium_member_id = ?", created.ConsortiumMemberID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load member")
	}
	return helper.JsonCreated(c, "Member added", consortiumDTO.ToMemberResponse(&full))
}

/* =========================================================
   REMOVE MEMBER
   DELETE /api/u/consortiums/:id/members/:tutorId
   ========================================================= */
func (ctrl *ConsortiumController) RemoveMember(c *fiber.Ctx) error {
	requesterID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	consortiumID, err := parseConsortiumID(c)
	if err != nil {
		return err
	}
	tutorID, err := uuid.Parse(strings.TrimSpace(c.Params("tutorId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid tutor ID")
	}

	if err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		m, err := loadConsortium(tx, consortiumID)
		if err != nil {
			return err
		}
		if m.ConsortiumCreatedBy != requesterID {
			return fiber.NewError(fiber.StatusForbidden, "Only the coordinator may remove members")
		}

		var members []consortiumModel.ConsortiumMemberModel
		if err := tx.
			Where("consortium_member_consortium_id = ?", consortiumID).
			Order("consortium_member_joined_at ASC").
			Find(&members).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load members")
		}

		var target *consortiumModel.ConsortiumMemberModel
		for i := range members {
			if members[i].ConsortiumMemberTutorID == tutorID {
				target = &members[i]
				break
			}
		}
		if target == nil {
			return fiber.NewError(fiber.StatusNotFound, "Member not found in this consortium")
		}
		if target.ConsortiumMemberRole == constants.ConsortiumRoleCoordinator && len(members) == 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Cannot remove the coordinator as the only member, delete the consortium instead")
		}

		remaining := make([]consortiumModel.ConsortiumMemberModel, 0, len(members)-1)
		remainingIDs := make([]uuid.UUID, 0, len(members)-1)
		for _, mem := range members {
			if mem.ConsortiumMemberTutorID == tutorID {
				continue
			}
			remaining = append(remaining, mem)
			remainingIDs = append(remainingIDs, mem.ConsortiumMemberTutorID)
		}

		policy, err := consortiumService.PolicyFromModel(m)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to read revenue policy")
		}
		shares, err := consortiumService.CalculateRevenueShares(policy, remainingIDs)
		if err != nil {
			return err
		}

		if err := tx.Delete(&consortiumModel.ConsortiumMemberModel{},
			"consortium_member_id = ?", target.ConsortiumMemberID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove member")
		}
		for _, mem := range remaining {
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

	return helper.JsonDeleted(c, "Member removed", fiber.Map{
		"consortium_id": consortiumID,
		"tutor_id":      tutorID,
	})
}

/* =========================================================
   LIST MEMBERS
   GET /api/u/consortiums/:id/members
   ========================================================= */
func (ctrl *ConsortiumController) GetMembers(c *fiber.Ctx) error {
	consortiumID, err := parseConsortiumID(c)
	if err != nil {
		return err
	}
	if _, err := loadConsortium(ctrl.DB, consortiumID); err != nil {
		return err
	}

	var members []consortiumModel.ConsortiumMemberModel
	if err := ctrl.DB.Preload("Tutor").
		Where("consortium_member_consortium_id = ?", consortiumID).
		Order("consortium_member_joined_at ASC").
		Find(&members).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load members")
	}

	out := make([]consortiumDTO.ConsortiumMemberResponse, 0, len(members))
	for i := range members {
		out = append(out, consortiumDTO.ToMemberResponse(&members[i]))
	}
	return helper.JsonList(c, "Members loaded", out, nil)
}

/* =========================================================
   INVITE BY EMAIL
   POST /api/u/consortiums/:id/invite
   Resolves each email to a tutor and adds them one by one. Failures
   are collected per email instead of aborting the batch.
   ========================================================= */
func (ctrl *ConsortiumController) InviteTutorsByEmail(c *fiber.Ctx) error {
	requesterID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	consortiumID, err := parseConsortiumID(c)
	if err != nil {
		return err
	}

	var req consortiumDTO.InviteTutorsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	m, err := loadConsortium(ctrl.DB, consortiumID)
	if err != nil {
		return err
	}
	if m.ConsortiumCreatedBy != requesterID {
		return fiber.NewError(fiber.StatusForbidden, "Only the coordinator may invite tutors")
	}

	invited := make([]string, 0, len(req.Emails))
	failed := make([]string, 0)
	failureReasons := make(map[string]string)

	for _, raw := range req.Emails {
		email := strings.ToLower(strings.TrimSpace(raw))

		var user userModel.UserModel
		if err := ctrl.DB.First(&user, "email = ?", email).Error; err != nil {
			failed = append(failed, email)
			failureReasons[email] = "No account with this email"
			continue
		}

		if _, err := ctrl.addMemberTx(consortiumID, user.ID, requesterID); err != nil {
			reason := "Could not add tutor"
			if fe, ok := err.(*fiber.Error); ok {
				reason = fe.Message
			}
			failed = append(failed, email)
			failureReasons[email] = reason
			continue
		}
		invited = append(invited, email)
	}

	return helper.JsonOK(c, "Invitations processed", fiber.Map{
		"invited":         invited,
		"failed":          failed,
		"failure_reasons": failureReasons,
	})
}
