package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tutorat_backend/internals/constants"
	consortiumModel "tutorat_backend/internals/features/consortiums/consortium/model"
	userModel "tutorat_backend/internals/features/users/user/model"
	helper "tutorat_backend/internals/helpers"
	"tutorat_backend/internals/testutil"
)

func newConsortiumApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t,
		&userModel.UserModel{},
		&userModel.TutorProfileModel{},
		&userModel.StudentProfileModel{},
		&consortiumModel.ConsortiumModel{},
		&consortiumModel.ConsortiumMemberModel{},
	)

	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-User-ID"); raw != "" {
			c.Locals("user_id", raw)
		}
		return c.Next()
	})

	ctrl := NewConsortiumController(db)
	group := app.Group("/api/u/consortiums")
	group.Post("/", ctrl.CreateConsortium)
	group.Get("/", ctrl.GetMyConsortiums)
	group.Get("/:id", ctrl.GetConsortium)
	group.Put("/:id", ctrl.UpdateConsortium)
	group.Delete("/:id", ctrl.DeleteConsortium)
	group.Put("/:id/policy", ctrl.UpdateRevenuePolicy)
	group.Post("/:id/invite", ctrl.InviteTutorsByEmail)
	group.Get("/:id/members", ctrl.GetMembers)
	group.Post("/:id/members", ctrl.AddMember)
	group.Delete("/:id/members/:tutorId", ctrl.RemoveMember)

	return app, db
}

func seedTutor(t *testing.T, db *gorm.DB, name string) *userModel.UserModel {
	t.Helper()

	user := userModel.UserModel{
		UserName: name,
		Email:    name + "@example.com",
		Password: "-",
		Role:     constants.RoleTutor,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&userModel.TutorProfileModel{
		TutorProfileUserID: user.ID,
	}).Error)
	return &user
}

func seedStudent(t *testing.T, db *gorm.DB, name string) *userModel.UserModel {
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

func doJSON(t *testing.T, app *fiber.App, method, path string, userID uuid.UUID, body any) *http.Response {
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

func createConsortium(t *testing.T, app *fiber.App, owner uuid.UUID, name string) uuid.UUID {
	t.Helper()

	resp := doJSON(t, app, fiber.MethodPost, "/api/u/consortiums", owner,
		fiber.Map{"name": name})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var envelope struct {
		Data struct {
			ConsortiumID uuid.UUID `json:"consortium_id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotEqual(t, uuid.Nil, envelope.Data.ConsortiumID)
	return envelope.Data.ConsortiumID
}

func memberShares(t *testing.T, db *gorm.DB, consortiumID uuid.UUID) map[uuid.UUID]float64 {
	t.Helper()

	var members []consortiumModel.ConsortiumMemberModel
	require.NoError(t, db.
		Where("consortium_member_consortium_id = ?", consortiumID).
		Find(&members).Error)

	shares := make(map[uuid.UUID]float64, len(members))
	for _, m := range members {
		shares[m.ConsortiumMemberTutorID] = m.ConsortiumMemberRevenueShare
	}
	return shares
}

func TestConsortiumLifecycle_EqualShares(t *testing.T) {
	app, db := newConsortiumApp(t)

	alice := seedTutor(t, db, "alice")
	bob := seedTutor(t, db, "bob")
	carol := seedTutor(t, db, "carol")

	id := createConsortium(t, app, alice.ID, "Maths Masters")

	// Creator starts as coordinator with the full share.
	shares := memberShares(t, db, id)
	require.Len(t, shares, 1)
	require.InDelta(t, 100, shares[alice.ID], 0.001)

	// Second member: 50/50.
	resp := doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		alice.ID, fiber.Map{"tutor_id": bob.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	shares = memberShares(t, db, id)
	require.Len(t, shares, 2)
	require.InDelta(t, 50, shares[alice.ID], 0.1)
	require.InDelta(t, 50, shares[bob.ID], 0.1)

	// Third member: exactly a third each; the stored sum stays 100.
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		alice.ID, fiber.Map{"tutor_id": carol.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	shares = memberShares(t, db, id)
	require.Len(t, shares, 3)
	var sum float64
	for _, share := range shares {
		require.InDelta(t, 100.0/3, share, 1e-9)
		sum += share
	}
	require.InDelta(t, 100, sum, 1e-9)

	// Removing one rebalances back to 50/50.
	resp = doJSON(t, app, fiber.MethodDelete,
		fmt.Sprintf("/api/u/consortiums/%s/members/%s", id, bob.ID), alice.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	shares = memberShares(t, db, id)
	require.Len(t, shares, 2)
	require.InDelta(t, 50, shares[alice.ID], 0.1)
	require.InDelta(t, 50, shares[carol.ID], 0.1)
}

func TestAddMember_Failures(t *testing.T) {
	app, db := newConsortiumApp(t)

	alice := seedTutor(t, db, "alice")
	bob := seedTutor(t, db, "bob")
	dave := seedStudent(t, db, "dave")

	id := createConsortium(t, app, alice.ID, "Physics Pro")

	// Duplicate membership.
	resp := doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		alice.ID, fiber.Map{"tutor_id": bob.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		alice.ID, fiber.Map{"tutor_id": bob.ID})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Non-coordinator cannot add.
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		bob.ID, fiber.Map{"tutor_id": dave.ID})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Students cannot join.
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		alice.ID, fiber.Map{"tutor_id": dave.ID})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Unknown tutor id.
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		alice.ID, fiber.Map{"tutor_id": uuid.New()})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Unknown consortium.
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", uuid.New()),
		alice.ID, fiber.Map{"tutor_id": bob.ID})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Inactive consortium refuses new members.
	resp = doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/api/u/consortiums/%s", id), alice.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	carol := seedTutor(t, db, "carol")
	resp = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		alice.ID, fiber.Map{"tutor_id": carol.ID})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRemoveMember_SoleCoordinator(t *testing.T) {
	app, db := newConsortiumApp(t)

	alice := seedTutor(t, db, "alice")
	id := createConsortium(t, app, alice.ID, "Solo")

	resp := doJSON(t, app, fiber.MethodDelete,
		fmt.Sprintf("/api/u/consortiums/%s/members/%s", id, alice.ID), alice.ID, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestNonCoordinatorForbidden(t *testing.T) {
	app, db := newConsortiumApp(t)

	alice := seedTutor(t, db, "alice")
	bob := seedTutor(t, db, "bob")
	id := createConsortium(t, app, alice.ID, "Chemistry Crew")

	resp := doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		alice.ID, fiber.Map{"tutor_id": bob.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{fiber.MethodPut, fmt.Sprintf("/api/u/consortiums/%s", id), fiber.Map{"name": "Taken over"}},
		{fiber.MethodDelete, fmt.Sprintf("/api/u/consortiums/%s", id), nil},
		{fiber.MethodDelete, fmt.Sprintf("/api/u/consortiums/%s/members/%s", id, alice.ID), nil},
		{fiber.MethodPut, fmt.Sprintf("/api/u/consortiums/%s/policy", id), fiber.Map{"type": "equal"}},
		{fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/invite", id), fiber.Map{"emails": []string{"x@example.com"}}},
	}
	for _, tc := range cases {
		resp := doJSON(t, app, tc.method, tc.path, bob.ID, tc.body)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}

func TestUpdateRevenuePolicy_Custom(t *testing.T) {
	app, db := newConsortiumApp(t)

	alice := seedTutor(t, db, "alice")
	bob := seedTutor(t, db, "bob")
	id := createConsortium(t, app, alice.ID, "Custom Split")

	resp := doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/members", id),
		alice.ID, fiber.Map{"tutor_id": bob.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Invalid: sum is not 100.
	resp = doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/u/consortiums/%s/policy", id),
		alice.ID, fiber.Map{
			"type": "custom",
			"custom_shares": map[string]float64{
				alice.ID.String(): 70,
				bob.ID.String():   20,
			},
		})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Valid 70/30.
	resp = doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/u/consortiums/%s/policy", id),
		alice.ID, fiber.Map{
			"type": "custom",
			"custom_shares": map[string]float64{
				alice.ID.String(): 70,
				bob.ID.String():   30,
			},
		})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	shares := memberShares(t, db, id)
	require.InDelta(t, 70, shares[alice.ID], 0.001)
	require.InDelta(t, 30, shares[bob.ID], 0.001)

	var stored consortiumModel.ConsortiumModel
	require.NoError(t, db.First(&stored, "consortium_id = ?", id).Error)
	require.Equal(t, consortiumModel.PolicyCustom, stored.ConsortiumPolicyType)
}

func TestUpdateConsortium_BlankName(t *testing.T) {
	app, db := newConsortiumApp(t)

	alice := seedTutor(t, db, "alice")
	id := createConsortium(t, app, alice.ID, "Maths Masters")

	resp := doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/u/consortiums/%s", id),
		alice.ID, fiber.Map{"name": "   "})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var stored consortiumModel.ConsortiumModel
	require.NoError(t, db.First(&stored, "consortium_id = ?", id).Error)
	require.Equal(t, "Maths Masters", stored.ConsortiumName)
}

func TestInviteTutorsByEmail(t *testing.T) {
	app, db := newConsortiumApp(t)

	alice := seedTutor(t, db, "alice")
	bob := seedTutor(t, db, "bob")
	dave := seedStudent(t, db, "dave")
	id := createConsortium(t, app, alice.ID, "Open Invite")

	resp := doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/u/consortiums/%s/invite", id),
		alice.ID, fiber.Map{"emails": []string{
			"Bob@Example.com",
			dave.Email,
			"nobody@example.com",
		}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			Invited        []string          `json:"invited"`
			Failed         []string          `json:"failed"`
			FailureReasons map[string]string `json:"failure_reasons"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, []string{"bob@example.com"}, envelope.Data.Invited)
	require.Equal(t, []string{dave.Email, "nobody@example.com"}, envelope.Data.Failed)
	require.Equal(t, "No account with this email", envelope.Data.FailureReasons["nobody@example.com"])

	shares := memberShares(t, db, id)
	require.Len(t, shares, 2)
	require.InDelta(t, 50, shares[bob.ID], 0.1)
}

func TestGetMyConsortiums_FiltersInactive(t *testing.T) {
	app, db := newConsortiumApp(t)

	alice := seedTutor(t, db, "alice")
	keep := createConsortium(t, app, alice.ID, "Keep")
	drop := createConsortium(t, app, alice.ID, "Drop")

	resp := doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/api/u/consortiums/%s", drop), alice.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodGet, "/api/u/consortiums", alice.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data []struct {
			ConsortiumID uuid.UUID `json:"consortium_id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	require.Equal(t, keep, envelope.Data[0].ConsortiumID)
}
