package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userModel "tutorat_backend/internals/features/users/user/model"
	walletModel "tutorat_backend/internals/features/wallet/model"
	walletService "tutorat_backend/internals/features/wallet/service"
	helper "tutorat_backend/internals/helpers"
)

type WalletController struct {
	DB *gorm.DB
}

func NewWalletController(db *gorm.DB) *WalletController {
	return &WalletController{DB: db}
}

// GET /api/u/wallet
func (ctrl *WalletController) GetWallet(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	w, err := walletService.EnsureWallet(ctrl.DB, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load wallet")
	}

	var txs []walletModel.WalletTransactionModel
	if err := ctrl.DB.
		Where("wallet_transaction_wallet_id = ?", w.WalletID).
		Order("created_at DESC").
		Limit(20).
		Find(&txs).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load wallet transactions")
	}

	return helper.JsonOK(c, "Wallet loaded", fiber.Map{
		"wallet":       w,
		"transactions": txs,
	})
}

// POST /api/u/wallet/topup
// Body: { "amount": 50000 }
func (ctrl *WalletController) Topup(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if body.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load user")
	}

	w, err := walletService.EnsureWallet(ctrl.DB, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load wallet")
	}

	orderID := fmt.Sprintf("TOPUP-%d-%s", time.Now().Unix(), userID.String()[:8])
	topup := walletModel.WalletTransactionModel{
		WalletTransactionWalletID:  w.WalletID,
		WalletTransactionAmount:    int(body.Amount),
		WalletTransactionType:      walletModel.WalletTxTopup,
		WalletTransactionReference: "wallet top-up",
		WalletTransactionOrderID:   &orderID,
		WalletTransactionStatus:    walletModel.WalletTxStatusPending,
	}
	if err := ctrl.DB.Create(&topup).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create top-up")
	}

	token, err := walletService.GenerateSnapToken(orderID, body.Amount, user.UserName, user.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create payment token")
	}

	return helper.JsonCreated(c, "Top-up created", fiber.Map{
		"order_id":   orderID,
		"snap_token": token,
	})
}

// POST /api/wallet/notification (Midtrans webhook, unauthenticated)
func (ctrl *WalletController) Notification(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}

	if err := walletService.HandleTopupStatusWebhook(ctrl.DB, body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return helper.JsonOK(c, "Notification processed", nil)
}
