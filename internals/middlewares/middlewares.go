package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMw "tutorat_backend/internals/middlewares/logger"
)

// SetupMiddlewares registers the base middleware chain for the whole app.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMw.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
