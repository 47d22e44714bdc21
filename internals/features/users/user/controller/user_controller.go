package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
	userDTO "tutorat_backend/internals/features/users/user/dto"
	userModel "tutorat_backend/internals/features/users/user/model"
	walletService "tutorat_backend/internals/features/wallet/service"
	helper "tutorat_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GET /api/u/users/me
func (ctrl *UserController) GetMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var user userModel.UserModel
	if err := ctrl.DB.
		Preload("TutorProfile").
		Preload("StudentProfile").
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load user")
	}

	return helper.JsonOK(c, "Profile loaded", user)
}

// PUT /api/u/users/me (partial)
func (ctrl *UserController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req userDTO.UpdateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	patch := map[string]interface{}{}
	if req.UserName != nil {
		patch["user_name"] = strings.TrimSpace(*req.UserName)
	}
	if len(patch) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update profile")
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reload user")
	}
	return helper.JsonUpdated(c, "Profile updated", user)
}

// POST /api/u/users/onboarding
// Picks the role once and creates the matching profile plus an empty wallet.
func (ctrl *UserController) Onboarding(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req userDTO.OnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var user userModel.UserModel
		if err := tx.
			Preload("TutorProfile").
			Preload("StudentProfile").
			First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load user")
		}
		if user.TutorProfile != nil || user.StudentProfile != nil {
			return fiber.NewError(fiber.StatusConflict, "Onboarding already completed")
		}

		if err := tx.Model(&userModel.UserModel{}).
			Where("id = ?", userID).
			Update("role", req.Role).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to set role")
		}

		switch req.Role {
		case constants.RoleTutor:
			profile := userModel.TutorProfileModel{
				TutorProfileUserID:   userID,
				TutorProfileBio:      req.Bio,
				TutorProfileSubjects: pq.StringArray(req.Subjects),
			}
			if req.HourlyRate != nil {
				profile.TutorProfileHourlyRate = *req.HourlyRate
			}
			if req.YearsExperience != nil {
				profile.TutorProfileYearsExperience = *req.YearsExperience
			}
			if err := tx.Create(&profile).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to create tutor profile")
			}
		case constants.RoleStudent:
			profile := userModel.StudentProfileModel{
				StudentProfileUserID:     userID,
				StudentProfileGradeLevel: req.GradeLevel,
				StudentProfileSchool:     req.School,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to create student profile")
			}
		}

		if _, err := walletService.EnsureWallet(tx, userID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create wallet")
		}
		return nil
	}); err != nil {
		return err
	}

	var user userModel.UserModel
	if err := ctrl.DB.
		Preload("TutorProfile").
		Preload("StudentProfile").
		First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reload user")
	}
	return helper.JsonCreated(c, "Onboarding completed", user)
}

// PUT /api/u/users/tutor-profile (partial)
func (ctrl *UserController) UpdateTutorProfile(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req userDTO.UpdateTutorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var profile userModel.TutorProfileModel
	if err := ctrl.DB.First(&profile, "tutor_profile_user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Tutor profile not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load tutor profile")
	}

	patch := map[string]interface{}{}
	if req.Bio != nil {
		patch["tutor_profile_bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.HourlyRate != nil {
		patch["tutor_profile_hourly_rate"] = *req.HourlyRate
	}
	if req.Subjects != nil {
		patch["tutor_profile_subjects"] = pq.StringArray(req.Subjects)
	}
	if req.YearsExperience != nil {
		patch["tutor_profile_years_experience"] = *req.YearsExperience
	}
	if len(patch) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctrl.DB.Model(&userModel.TutorProfileModel{}).
		Where("tutor_profile_id = ?", profile.TutorProfileID).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update tutor profile")
	}

	if err := ctrl.DB.First(&profile, "tutor_profile_id = ?", profile.TutorProfileID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reload tutor profile")
	}
	return helper.JsonUpdated(c, "Tutor profile updated", profile)
}

// PUT /api/u/users/student-profile (partial)
func (ctrl *UserController) UpdateStudentProfile(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req userDTO.UpdateStudentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}

	var profile userModel.StudentProfileModel
	if err := ctrl.DB.First(&profile, "student_profile_user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Student profile not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load student profile")
	}

	patch := map[string]interface{}{}
	if req.GradeLevel != nil {
		patch["student_profile_grade_level"] = strings.TrimSpace(*req.GradeLevel)
	}
	if req.School != nil {
		patch["student_profile_school"] = strings.TrimSpace(*req.School)
	}
	if len(patch) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctrl.DB.Model(&userModel.StudentProfileModel{}).
		Where("student_profile_id = ?", profile.StudentProfileID).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update student profile")
	}

	if err := ctrl.DB.First(&profile, "student_profile_id = ?", profile.StudentProfileID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reload student profile")
	}
	return helper.JsonUpdated(c, "Student profile updated", profile)
}
