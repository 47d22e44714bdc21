package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authMiddleware "tutorat_backend/internals/middlewares/auth"
	routeDetails "tutorat_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	log.Println("[INFO] Setting up WebhookRoutes...")
	routeDetails.WebhookRoutes(app, db)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", authMiddleware.AuthMiddleware(db))

	routeDetails.UserRoutes(private, db)
	routeDetails.ConsortiumRoutes(private, db)
	routeDetails.ProgressRoutes(private, db)
	routeDetails.SessionRoutes(private, db)
	routeDetails.AvailabilityRoutes(private, db)
	routeDetails.WalletRoutes(private, db)
}
