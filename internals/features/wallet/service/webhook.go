package service

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	walletModel "tutorat_backend/internals/features/wallet/model"
)

// HandleTopupStatusWebhook is called on payment notifications from Midtrans.
func HandleTopupStatusWebhook(db *gorm.DB, body map[string]interface{}) error {
	orderID, ok1 := body["order_id"].(string)
	status, ok2 := body["transaction_status"].(string)
	if !ok1 || !ok2 {
		log.Println("[ERROR] Incomplete webhook payload:", body)
		return fmt.Errorf("invalid payload")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var topup walletModel.WalletTransactionModel
		if err := tx.Where("wallet_transaction_order_id = ?", orderID).First(&topup).Error; err != nil {
			log.Println("[ERROR] Top-up not found:", err)
			return fmt.Errorf("top-up with order_id %s not found", orderID)
		}

		// Notifications may be delivered more than once; only a pending
		// top-up moves forward.
		if topup.WalletTransactionStatus != walletModel.WalletTxStatusPending {
			log.Printf("[INFO] Top-up %s already %s, skipping", orderID, topup.WalletTransactionStatus)
			return nil
		}

		switch status {
		case "capture", "settlement":
			if err := tx.Model(&walletModel.WalletModel{}).
				Where("wallet_id = ?", topup.WalletTransactionWalletID).
				Update("wallet_balance", gorm.Expr("wallet_balance + ?", topup.WalletTransactionAmount)).Error; err != nil {
				return err
			}
			topup.WalletTransactionStatus = walletModel.WalletTxStatusPaid
		case "expire":
			topup.WalletTransactionStatus = walletModel.WalletTxStatusExpired
		case "cancel", "deny":
			topup.WalletTransactionStatus = walletModel.WalletTxStatusCanceled
		default:
			log.Println("[INFO] Unhandled transaction status:", status)
			return nil
		}

		return tx.Save(&topup).Error
	})
}
