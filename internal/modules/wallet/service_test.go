package wallet

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(db)
}

func TestGetOrCreateWalletCreatesOnFirstRequest(t *testing.T) {
	svc := setupTestService(t)

	wallet, err := svc.GetOrCreateWallet(context.Background(), 1001)
	if err != nil {
		t.Fatalf("GetOrCreateWallet returned error: %v", err)
	}
	if wallet.Balance != 0 {
		t.Fatalf("expected zero initial balance, got %d", wallet.Balance)
	}

	again, err := svc.GetOrCreateWallet(context.Background(), 1001)
	if err != nil {
		t.Fatalf("GetOrCreateWallet second call returned error: %v", err)
	}
	if wallet.ID != again.ID {
		t.Fatalf("expected same wallet id, got %s and %s", wallet.ID, again.ID)
	}
}

func TestCreditAndDebitFlow(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	txn, err := svc.Credit(ctx, 101, 1500, "signup bonus")
	if err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}
	if txn.Type != TransactionTypeCredit {
		t.Fatalf("expected txn type %s, got %s", TransactionTypeCredit, txn.Type)
	}

	wallet, err := svc.GetOrCreateWallet(ctx, 101)
	if err != nil {
		t.Fatalf("GetOrCreateWallet returned error: %v", err)
	}
	if wallet.Balance != 1500 {
		t.Fatalf("expected balance 1500, got %d", wallet.Balance)
	}

	if _, err := svc.Debit(ctx, 101, 400, "materials order"); err != nil {
		t.Fatalf("Debit returned error: %v", err)
	}

	wallet, _ = svc.GetOrCreateWallet(ctx, 101)
	if wallet.Balance != 1100 {
		t.Fatalf("expected balance 1100, got %d", wallet.Balance)
	}

	txns, err := svc.ListTransactions(ctx, 101)
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	svc := setupTestService(t)
	_, err := svc.Credit(context.Background(), 102, 0, "")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDebitInsufficientFunds(t *testing.T) {
	svc := setupTestService(t)
	_, err := svc.Debit(context.Background(), 104, 10, "")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestCreditTxRollsBackWithCallerTransaction(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	boom := errors.New("parent write failed")
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := CreditTx(tx, 105, 800, TransactionTypeReferralBonus, "referral"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected parent error, got %v", err)
	}

	wallet, err := svc.GetOrCreateWallet(ctx, 105)
	if err != nil {
		t.Fatalf("GetOrCreateWallet returned error: %v", err)
	}
	if wallet.Balance != 0 {
		t.Fatalf("expected rollback to leave balance 0, got %d", wallet.Balance)
	}

	txns, err := svc.ListTransactions(ctx, 105)
	if err != nil {
		t.Fatalf("ListTransactions returned error: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("expected no transactions after rollback, got %d", len(txns))
	}
}

func TestCreditTxBothPartiesAtomic(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := CreditTx(tx, 201, 500, TransactionTypeReferralBonus, "referrer side"); err != nil {
			return err
		}
		_, err := CreditTx(tx, 202, 500, TransactionTypeReferralBonus, "referred side")
		return err
	})
	if err != nil {
		t.Fatalf("transaction returned error: %v", err)
	}

	for _, userID := range []int64{201, 202} {
		wallet, err := svc.GetOrCreateWallet(ctx, userID)
		if err != nil {
			t.Fatalf("GetOrCreateWallet(%d) returned error: %v", userID, err)
		}
		if wallet.Balance != 500 {
			t.Fatalf("expected balance 500 for user %d, got %d", userID, wallet.Balance)
		}
	}
}
