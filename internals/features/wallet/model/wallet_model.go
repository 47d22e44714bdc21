package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalletModel holds a user's loyalty-point balance.
type WalletModel struct {
	WalletID        uuid.UUID `gorm:"column:wallet_id;type:uuid;primaryKey" json:"wallet_id"`
	WalletUserID    uuid.UUID `gorm:"column:wallet_user_id;type:uuid;not null;unique" json:"wallet_user_id"`
	WalletBalance   int       `gorm:"column:wallet_balance;not null;default:0" json:"wallet_balance"`
	WalletCreatedAt time.Time `gorm:"column:wallet_created_at;autoCreateTime" json:"wallet_created_at"`
	WalletUpdatedAt time.Time `gorm:"column:wallet_updated_at;autoUpdateTime" json:"wallet_updated_at"`
}

func (WalletModel) TableName() string {
	return "wallets"
}

func (m *WalletModel) BeforeCreate(tx *gorm.DB) error {
	if m.WalletID == uuid.Nil {
		m.WalletID = uuid.New()
	}
	return nil
}

// Wallet transaction types
const (
	WalletTxCredit = "CREDIT"
	WalletTxDebit  = "DEBIT"
	WalletTxTopup  = "TOPUP"
)

// Wallet transaction statuses (TOPUP goes through pending → paid/expired/canceled)
const (
	WalletTxStatusDone     = "done"
	WalletTxStatusPending  = "pending"
	WalletTxStatusPaid     = "paid"
	WalletTxStatusExpired  = "expired"
	WalletTxStatusCanceled = "canceled"
)

// WalletTransactionModel is the append-only movement log of a wallet.
type WalletTransactionModel struct {
	WalletTransactionID        uuid.UUID `gorm:"column:wallet_transaction_id;type:uuid;primaryKey" json:"wallet_transaction_id"`
	WalletTransactionWalletID  uuid.UUID `gorm:"column:wallet_transaction_wallet_id;type:uuid;not null;index" json:"wallet_transaction_wallet_id"`
	WalletTransactionAmount    int       `gorm:"column:wallet_transaction_amount;not null" json:"wallet_transaction_amount"`
	WalletTransactionType      string    `gorm:"column:wallet_transaction_type;type:varchar(20);not null" json:"wallet_transaction_type"`
	WalletTransactionReference string    `gorm:"column:wallet_transaction_reference;size:255" json:"wallet_transaction_reference"`
	WalletTransactionOrderID   *string   `gorm:"column:wallet_transaction_order_id;size:64;unique" json:"wallet_transaction_order_id,omitempty"`
	WalletTransactionStatus    string    `gorm:"column:wallet_transaction_status;type:varchar(20);not null;default:'done'" json:"wallet_transaction_status"`
	CreatedAt                  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

func (m *WalletTransactionModel) BeforeCreate(tx *gorm.DB) error {
	if m.WalletTransactionID == uuid.Nil {
		m.WalletTransactionID = uuid.New()
	}
	return nil
}
