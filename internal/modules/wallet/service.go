package wallet

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) GetOrCreateWallet(ctx context.Context, userID int64) (*Wallet, error) {
	wallet, err := s.getWalletByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = &Wallet{UserID: userID, Balance: 0}
	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if isUniqueConstraintError(err) {
			return s.getWalletByUserID(ctx, userID)
		}
		return nil, err
	}
	return wallet, nil
}

// Credit adds funds in its own transaction.
func (s *Service) Credit(ctx context.Context, userID, amount int64, note string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var txn *Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = CreditTx(tx, userID, amount, TransactionTypeCredit, note)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Debit removes funds, rejecting overdrafts.
func (s *Service) Debit(ctx context.Context, userID, amount int64, note string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var txn Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet Wallet
		if err := getOrCreateWalletForUpdate(tx, userID, &wallet); err != nil {
			return err
		}

		if wallet.Balance < amount {
			return ErrInsufficientFunds
		}

		if err := tx.Model(&Wallet{}).Where("id = ?", wallet.ID).
			Update("balance", wallet.Balance-amount).Error; err != nil {
			return err
		}

		txn = Transaction{WalletID: wallet.ID, Amount: amount, Type: TransactionTypeDebit, Note: note}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID int64) ([]Transaction, error) {
	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	var txns []Transaction
	if err := s.db.WithContext(ctx).
		Where("wallet_id = ?", wallet.ID).
		Order("created_at desc").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// CreditTx applies a credit inside the caller's transaction. Referral and
// conversion bonuses go through here so they commit or roll back with the
// record creation that triggered them.
func CreditTx(tx *gorm.DB, userID, amount int64, txnType, note string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var wallet Wallet
	if err := getOrCreateWalletForUpdate(tx, userID, &wallet); err != nil {
		return nil, err
	}

	if err := tx.Model(&Wallet{}).Where("id = ?", wallet.ID).
		Update("balance", wallet.Balance+amount).Error; err != nil {
		return nil, err
	}

	txn := &Transaction{WalletID: wallet.ID, Amount: amount, Type: txnType, Note: note}
	if err := tx.Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *Service) getWalletByUserID(ctx context.Context, userID int64) (*Wallet, error) {
	var wallet Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func getOrCreateWalletForUpdate(tx *gorm.DB, userID int64, wallet *Wallet) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(wallet).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		*wallet = Wallet{UserID: userID, Balance: 0}
		if err := tx.Create(wallet).Error; err != nil {
			if isUniqueConstraintError(err) {
				return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(wallet).Error
			}
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	// SQLite reports constraint failures as plain errors.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
