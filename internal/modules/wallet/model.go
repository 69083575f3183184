package wallet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionTypeCredit        = "CREDIT"
	TransactionTypeDebit         = "DEBIT"
	TransactionTypeReferralBonus = "REFERRAL_BONUS"
)

// Wallet stores a user's balance in the smallest currency unit.
type Wallet struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID  int64     `json:"userId" gorm:"not null;uniqueIndex"`
	Balance int64     `json:"balance" gorm:"not null;default:0"`
}

func (Wallet) TableName() string { return "wallets" }

func (w *Wallet) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Transaction records a single balance movement.
type Transaction struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	WalletID  uuid.UUID `json:"walletId" gorm:"type:uuid;not null;index"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Type      string    `json:"type" gorm:"type:varchar(16);not null;index;check:type IN ('CREDIT','DEBIT','REFERRAL_BONUS')"`
	Note      string    `json:"note,omitempty" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Transaction) TableName() string { return "wallet_transactions" }

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BonusCredit describes a wallet credit that must ride inside the caller's
// transaction, so a failed parent write never leaves a half-applied bonus.
type BonusCredit struct {
	UserID int64
	Amount int64
	Note   string
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Wallet{}, &Transaction{})
}
