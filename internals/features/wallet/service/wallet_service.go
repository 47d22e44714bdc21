package service

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	walletModel "tutorat_backend/internals/features/wallet/model"
)

// EnsureWallet returns the user's wallet, creating an empty one if missing.
func EnsureWallet(db *gorm.DB, userID uuid.UUID) (*walletModel.WalletModel, error) {
	var w walletModel.WalletModel
	err := db.Where("wallet_user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = walletModel.WalletModel{WalletUserID: userID}
	if err := db.Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// CreditWallet adds points to the user's balance and records the movement.
// Meant to run inside the caller's transaction so the credit and its log
// land together.
func CreditWallet(tx *gorm.DB, userID uuid.UUID, amount int, reference string) error {
	if amount <= 0 {
		return errors.New("credit amount must be positive")
	}

	w, err := EnsureWallet(tx, userID)
	if err != nil {
		return err
	}

	if err := tx.Model(&walletModel.WalletModel{}).
		Where("wallet_id = ?", w.WalletID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount)).Error; err != nil {
		return err
	}

	entry := walletModel.WalletTransactionModel{
		WalletTransactionWalletID:  w.WalletID,
		WalletTransactionAmount:    amount,
		WalletTransactionType:      walletModel.WalletTxCredit,
		WalletTransactionReference: reference,
		WalletTransactionStatus:    walletModel.WalletTxStatusDone,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	log.Printf("[WALLET] credited %d points to user %s (%s)", amount, userID, reference)
	return nil
}
