package service

import (
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tutorat_backend/internals/configs"
	"tutorat_backend/internals/constants"
	authModel "tutorat_backend/internals/features/users/auth/model"
	userModel "tutorat_backend/internals/features/users/user/model"
	helper "tutorat_backend/internals/helpers"
)

const accessTokenTTL = 24 * time.Hour

// ========================== REGISTER ==========================
// POST /api/auth/register
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		UserName string `json:"user_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}

	input.UserName = strings.TrimSpace(input.UserName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.UserName == "" || input.Email == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Name and email are required")
	}
	if len(input.Password) < 8 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Password must be at least 8 characters")
	}

	var count int64
	if err := db.Model(&userModel.UserModel{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "DB error")
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := userModel.UserModel{
		UserName: input.UserName,
		Email:    input.Email,
		Password: string(hashed),
		Role:     constants.RoleStudent,
	}
	if err := db.Create(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return helper.JsonCreated(c, "Registration successful", user.Public())
}

// ========================== LOGIN ==========================
// POST /api/auth/login
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user userModel.UserModel
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "DB error")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := issueAccessToken(user)
	if err != nil {
		log.Println("[ERROR] Failed to sign access token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token": token,
		"user":         user.Public(),
	})
}

// ========================== GOOGLE LOGIN ==========================
// POST /api/auth/login-google
// Body: { "id_token": "..." }
func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		IDToken string `json:"id_token"`
	}
	if err := c.BodyParser(&input); err != nil || strings.TrimSpace(input.IDToken) == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing id_token")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(input.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(input.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Failed to decode Google token")
	}

	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	googleID := claimSet.Sub

	var user userModel.UserModel
	err = db.Where("google_id = ? OR email = ?", googleID, email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = userModel.UserModel{
			UserName: claimSet.Name,
			Email:    email,
			Password: "-", // never matched; Google accounts log in via token
			GoogleID: &googleID,
			Role:     constants.RoleStudent,
		}
		if err := db.Create(&user).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
		}
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, "DB error")
	default:
		if user.GoogleID == nil {
			if err := db.Model(&user).Update("google_id", googleID).Error; err != nil {
				log.Println("[WARN] Failed to attach google_id:", err)
			}
		}
	}

	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	}

	token, err := issueAccessToken(user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token": token,
		"user":         user.Public(),
	})
}

// ========================== LOGOUT ==========================
// POST /api/u/auth/logout blacklists the presented bearer token.
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing bearer token")
	}
	tokenString := strings.TrimSpace(parts[1])

	// Best effort exp extraction so cleanup knows when the row can go.
	expiredAt := time.Now().Add(accessTokenTTL)
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			expiredAt = time.Unix(int64(exp), 0)
		}
	}

	entry := authModel.TokenBlacklist{
		Token:     tokenString,
		ExpiredAt: expiredAt,
	}
	if err := db.Create(&entry).Error; err != nil {
		// Already blacklisted counts as logged out.
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return helper.JsonOK(c, "Logged out", nil)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to log out")
	}

	return helper.JsonOK(c, "Logged out", nil)
}

func issueAccessToken(user userModel.UserModel) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
}
