package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tutorat_backend/internals/configs"
	authModel "tutorat_backend/internals/features/users/auth/model"
	userModel "tutorat_backend/internals/features/users/user/model"
	helper "tutorat_backend/internals/helpers"
	authMiddleware "tutorat_backend/internals/middlewares/auth"
	"tutorat_backend/internals/testutil"
)

func newAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	configs.JWTSecret = "test-secret"

	db := testutil.NewTestDB(t,
		&userModel.UserModel{},
		&userModel.TutorProfileModel{},
		&userModel.StudentProfileModel{},
		&authModel.TokenBlacklist{},
	)

	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	ctrl := NewAuthController(db)

	auth := app.Group("/api/auth")
	auth.Post("/register", ctrl.Register)
	auth.Post("/login", ctrl.Login)
	auth.Post("/logout", authMiddleware.AuthMiddleware(db), ctrl.Logout)

	// Minimal protected route to exercise the middleware end to end.
	app.Get("/api/u/whoami", authMiddleware.AuthMiddleware(db), func(c *fiber.Ctx) error {
		return helper.JsonOK(c, "ok", fiber.Map{"user_id": c.Locals("user_id")})
	})

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	app, db := newAuthApp(t)

	resp := postJSON(t, app, "/api/auth/register", "", fiber.Map{
		"user_name": "dave",
		"email":     "Dave@Example.com",
		"password":  "secret-password",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "dave@example.com").Error)
	require.Equal(t, "dave", user.UserName)
	require.NotEqual(t, "secret-password", user.Password)

	// Same email again conflicts.
	resp = postJSON(t, app, "/api/auth/register", "", fiber.Map{
		"user_name": "dave2",
		"email":     "dave@example.com",
		"password":  "secret-password",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Short password rejected.
	resp = postJSON(t, app, "/api/auth/register", "", fiber.Map{
		"user_name": "emma",
		"email":     "emma@example.com",
		"password":  "short",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func loginToken(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	resp := postJSON(t, app, "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func TestLoginAndLogoutFlow(t *testing.T) {
	app, db := newAuthApp(t)

	resp := postJSON(t, app, "/api/auth/register", "", fiber.Map{
		"user_name": "dave",
		"email":     "dave@example.com",
		"password":  "secret-password",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Wrong password.
	resp = postJSON(t, app, "/api/auth/login", "", fiber.Map{
		"email":    "dave@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token := loginToken(t, app, "dave@example.com", "secret-password")

	// Token works on a protected route.
	req := httptest.NewRequest(fiber.MethodGet, "/api/u/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	whoami, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, whoami.StatusCode)

	// No token: rejected.
	req = httptest.NewRequest(fiber.MethodGet, "/api/u/whoami", nil)
	anon, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, anon.StatusCode)

	// Logout blacklists the token.
	resp = postJSON(t, app, "/api/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&authModel.TokenBlacklist{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	req = httptest.NewRequest(fiber.MethodGet, "/api/u/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	blacklisted, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, blacklisted.StatusCode)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	app, db := newAuthApp(t)

	resp := postJSON(t, app, "/api/auth/register", "", fiber.Map{
		"user_name": "dave",
		"email":     "dave@example.com",
		"password":  "secret-password",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("email = ?", "dave@example.com").
		Update("is_active", false).Error)

	resp = postJSON(t, app, "/api/auth/login", "", fiber.Map{
		"email":    "dave@example.com",
		"password": "secret-password",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
