package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
	classModel "tutorat_backend/internals/features/sessions/class/model"
	userModel "tutorat_backend/internals/features/users/user/model"
	helper "tutorat_backend/internals/helpers"
	"tutorat_backend/internals/testutil"
)

func newClassApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t,
		&userModel.UserModel{},
		&classModel.ClassModel{},
		&classModel.ClassMembershipModel{},
		&classModel.ClassSessionModel{},
	)

	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-User-ID"); raw != "" {
			c.Locals("user_id", raw)
		}
		if role := c.Get("X-User-Role"); role != "" {
			c.Locals("role", role)
		}
		return c.Next()
	})

	classes := NewClassController(db)
	sessions := NewSessionController(db)

	group := app.Group("/api/u/classes")
	group.Post("/", classes.CreateClass)
	group.Get("/", classes.GetMyClasses)
	group.Get("/:id", classes.GetClass)
	group.Put("/:id", classes.UpdateClass)
	group.Delete("/:id", classes.DeleteClass)
	group.Post("/:id/enroll", classes.Enroll)
	group.Post("/:id/leave", classes.Leave)
	group.Post("/:id/sessions", sessions.CreateSession)
	group.Get("/:id/sessions", sessions.GetClassSessions)

	sessionGroup := app.Group("/api/u/sessions")
	sessionGroup.Get("/", sessions.GetMySessions)
	sessionGroup.Put("/:id/status", sessions.UpdateSessionStatus)

	return app, db
}

func classUser(t *testing.T, db *gorm.DB, name, role string) *userModel.UserModel {
	t.Helper()

	user := userModel.UserModel{
		UserName: name,
		Email:    name + "@example.com",
		Password: "-",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func classReq(t *testing.T, app *fiber.App, method, path string, user *userModel.UserModel, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("X-User-ID", user.ID.String())
		req.Header.Set("X-User-Role", user.Role)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func createClass(t *testing.T, app *fiber.App, tutor *userModel.UserModel, name string) uuid.UUID {
	t.Helper()

	resp := classReq(t, app, fiber.MethodPost, "/api/u/classes", tutor, fiber.Map{
		"name":    name,
		"subject": "Maths",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var envelope struct {
		Data struct {
			ClassID uuid.UUID `json:"class_id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data.ClassID
}

func TestClassLifecycle(t *testing.T) {
	app, db := newClassApp(t)
	tutor := classUser(t, db, "tina", constants.RoleTutor)
	student := classUser(t, db, "dave", constants.RoleStudent)

	// Students cannot create classes.
	resp := classReq(t, app, fiber.MethodPost, "/api/u/classes", student, fiber.Map{
		"name": "Nope", "subject": "Maths",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	id := createClass(t, app, tutor, "Maths advanced")

	// Enroll and leave.
	resp = classReq(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/classes/%s/enroll", id), student, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = classReq(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/classes/%s/enroll", id), student, nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Enrolled student sees the class.
	resp = classReq(t, app, fiber.MethodGet, "/api/u/classes", student, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list struct {
		Data []struct {
			ClassID uuid.UUID `json:"class_id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Data, 1)

	resp = classReq(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/classes/%s/leave", id), student, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = classReq(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/classes/%s/leave", id), student, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Re-enrolling reactivates the old membership row instead of
	// duplicating it.
	resp = classReq(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/classes/%s/enroll", id), student, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var count int64
	require.NoError(t, db.Model(&classModel.ClassMembershipModel{}).
		Where("class_membership_class_id = ?", id).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// Only the owning tutor may update or delete.
	other := classUser(t, db, "tom", constants.RoleTutor)
	resp = classReq(t, app, fiber.MethodPut, "/api/u/classes/"+id.String(), other, fiber.Map{"name": "Hijack"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = classReq(t, app, fiber.MethodDelete, "/api/u/classes/"+id.String(), tutor, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Inactive classes refuse new enrollments.
	emma := classUser(t, db, "emma", constants.RoleStudent)
	resp = classReq(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/classes/%s/enroll", id), emma, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSessionStatusTransitions(t *testing.T) {
	app, db := newClassApp(t)
	tutor := classUser(t, db, "tina", constants.RoleTutor)

	id := createClass(t, app, tutor, "Maths advanced")

	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Minute)
	resp := classReq(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/classes/%s/sessions", id), tutor, fiber.Map{
		"title":      "Derivatives",
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(90 * time.Minute).Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			SessionID       uuid.UUID `json:"session_id"`
			Status          string    `json:"status"`
			DurationMinutes int       `json:"duration_minutes"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, classModel.SessionStatusPending, created.Data.Status)
	require.Equal(t, 90, created.Data.DurationMinutes)

	sessionPath := fmt.Sprintf("/api/u/sessions/%s/status", created.Data.SessionID)

	// PENDING cannot jump straight to COMPLETED.
	resp = classReq(t, app, fiber.MethodPut, sessionPath, tutor, fiber.Map{"status": "COMPLETED"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = classReq(t, app, fiber.MethodPut, sessionPath, tutor, fiber.Map{"status": "CONFIRMED"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Completing records the actual duration.
	resp = classReq(t, app, fiber.MethodPut, sessionPath, tutor, fiber.Map{
		"status":         "COMPLETED",
		"actual_minutes": 75,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored classModel.ClassSessionModel
	require.NoError(t, db.First(&stored, "class_session_id = ?", created.Data.SessionID).Error)
	require.Equal(t, classModel.SessionStatusCompleted, stored.ClassSessionStatus)
	require.NotNil(t, stored.ClassSessionActualMinutes)
	require.Equal(t, 75, *stored.ClassSessionActualMinutes)

	// Terminal states reject further transitions.
	resp = classReq(t, app, fiber.MethodPut, sessionPath, tutor, fiber.Map{"status": "CANCELLED"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Someone else's class is off limits.
	other := classUser(t, db, "tom", constants.RoleTutor)
	resp = classReq(t, app, fiber.MethodPut, sessionPath, other, fiber.Map{"status": "CANCELLED"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGetMySessions_Upcoming(t *testing.T) {
	app, db := newClassApp(t)
	tutor := classUser(t, db, "tina", constants.RoleTutor)
	student := classUser(t, db, "dave", constants.RoleStudent)

	id := createClass(t, app, tutor, "Maths advanced")
	resp := classReq(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/classes/%s/enroll", id), student, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)
	rows := []classModel.ClassSessionModel{
		{ClassSessionClassID: id, ClassSessionTitle: "done",
			ClassSessionStatus:    classModel.SessionStatusCompleted,
			ClassSessionStartTime: past, ClassSessionEndTime: past.Add(time.Hour),
			ClassSessionDurationMinutes: 60},
		{ClassSessionClassID: id, ClassSessionTitle: "soon",
			ClassSessionStatus:    classModel.SessionStatusConfirmed,
			ClassSessionStartTime: future, ClassSessionEndTime: future.Add(time.Hour),
			ClassSessionDurationMinutes: 60},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	for _, user := range []*userModel.UserModel{tutor, student} {
		resp := classReq(t, app, fiber.MethodGet, "/api/u/sessions?upcoming=true", user, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var envelope struct {
			Data []struct {
				Title string `json:"title"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		require.Len(t, envelope.Data, 1)
		require.Equal(t, "soon", envelope.Data[0].Title)
	}
}
