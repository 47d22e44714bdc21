package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	walletController "tutorat_backend/internals/features/wallet/controller"
)

func WalletRoutes(private fiber.Router, db *gorm.DB) {
	ctrl := walletController.NewWalletController(db)

	wallet := private.Group("/wallet")
	wallet.Get("/", ctrl.GetWallet)
	wallet.Post("/topup", ctrl.Topup)
}

// WebhookRoutes mounts the unauthenticated payment callbacks. The auth
// middleware also whitelists these paths for requests that reach the
// private group.
func WebhookRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := walletController.NewWalletController(db)
	app.Post("/api/wallet/notification", ctrl.Notification)
}
