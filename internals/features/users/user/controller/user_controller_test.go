package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
	userModel "tutorat_backend/internals/features/users/user/model"
	walletModel "tutorat_backend/internals/features/wallet/model"
	helper "tutorat_backend/internals/helpers"
	"tutorat_backend/internals/testutil"
)

func newUserApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t,
		&userModel.UserModel{},
		&userModel.TutorProfileModel{},
		&userModel.StudentProfileModel{},
		&walletModel.WalletModel{},
		&walletModel.WalletTransactionModel{},
	)

	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-User-ID"); raw != "" {
			c.Locals("user_id", raw)
		}
		return c.Next()
	})

	ctrl := NewUserController(db)
	user := app.Group("/api/u/users")
	user.Get("/me", ctrl.GetMe)
	user.Put("/me", ctrl.UpdateMe)
	user.Post("/onboarding", ctrl.Onboarding)
	user.Put("/tutor-profile", ctrl.UpdateTutorProfile)
	user.Put("/student-profile", ctrl.UpdateStudentProfile)

	return app, db
}

func newBareUser(t *testing.T, db *gorm.DB, name string) *userModel.UserModel {
	t.Helper()

	user := userModel.UserModel{
		UserName: name,
		Email:    name + "@example.com",
		Password: "-",
		Role:     constants.RoleStudent,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func userReq(t *testing.T, app *fiber.App, method, path string, userID uuid.UUID, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("X-User-ID", userID.String())
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestOnboarding_Tutor(t *testing.T) {
	app, db := newUserApp(t)
	user := newBareUser(t, db, "tina")

	resp := userReq(t, app, fiber.MethodPost, "/api/u/users/onboarding", user.ID, fiber.Map{
		"role":        "tutor",
		"bio":         "Ten years of maths tutoring",
		"hourly_rate": 35,
		"subjects":    []string{"Maths", "Physics"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var reloaded userModel.UserModel
	require.NoError(t, db.Preload("TutorProfile").First(&reloaded, "id = ?", user.ID).Error)
	require.Equal(t, constants.RoleTutor, reloaded.Role)
	require.NotNil(t, reloaded.TutorProfile)
	require.Equal(t, 35.0, reloaded.TutorProfile.TutorProfileHourlyRate)
	require.Len(t, reloaded.TutorProfile.TutorProfileSubjects, 2)

	// Onboarding created the wallet.
	var wallet walletModel.WalletModel
	require.NoError(t, db.First(&wallet, "wallet_user_id = ?", user.ID).Error)
	require.Zero(t, wallet.WalletBalance)

	// Running onboarding twice is a conflict.
	resp = userReq(t, app, fiber.MethodPost, "/api/u/users/onboarding", user.ID, fiber.Map{
		"role": "tutor",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestOnboarding_Student(t *testing.T) {
	app, db := newUserApp(t)
	user := newBareUser(t, db, "dave")

	resp := userReq(t, app, fiber.MethodPost, "/api/u/users/onboarding", user.ID, fiber.Map{
		"role":        "student",
		"grade_level": "Terminale",
		"school":      "Lycée Victor Hugo",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var reloaded userModel.UserModel
	require.NoError(t, db.Preload("StudentProfile").First(&reloaded, "id = ?", user.ID).Error)
	require.Equal(t, constants.RoleStudent, reloaded.Role)
	require.NotNil(t, reloaded.StudentProfile)

	// Unknown role rejected.
	other := newBareUser(t, db, "mallory")
	resp = userReq(t, app, fiber.MethodPost, "/api/u/users/onboarding", other.ID, fiber.Map{
		"role": "admin",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateMe(t *testing.T) {
	app, db := newUserApp(t)
	user := newBareUser(t, db, "dave")

	resp := userReq(t, app, fiber.MethodPut, "/api/u/users/me", user.ID, fiber.Map{
		"user_name": "david",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	require.Equal(t, "david", reloaded.UserName)

	// Empty patch rejected.
	resp = userReq(t, app, fiber.MethodPut, "/api/u/users/me", user.ID, fiber.Map{})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTutorProfile(t *testing.T) {
	app, db := newUserApp(t)
	user := newBareUser(t, db, "tina")

	resp := userReq(t, app, fiber.MethodPost, "/api/u/users/onboarding", user.ID, fiber.Map{
		"role":     "tutor",
		"subjects": []string{"Maths"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = userReq(t, app, fiber.MethodPut, "/api/u/users/tutor-profile", user.ID, fiber.Map{
		"hourly_rate": 50,
		"subjects":    []string{"Maths", "Chemistry", "Physics"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile userModel.TutorProfileModel
	require.NoError(t, db.First(&profile, "tutor_profile_user_id = ?", user.ID).Error)
	require.Equal(t, 50.0, profile.TutorProfileHourlyRate)
	require.Len(t, profile.TutorProfileSubjects, 3)

	// Students have no tutor profile to update.
	student := newBareUser(t, db, "dave")
	resp = userReq(t, app, fiber.MethodPut, "/api/u/users/tutor-profile", student.ID, fiber.Map{
		"hourly_rate": 10,
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
