package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/n14-py/tusinitusineli/internal/db"
	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrBelowMinimum = errors.New("amount below withdrawal minimum")
	ErrNotMultiple  = errors.New("amount must be a multiple of the conversion rate")
	ErrUserNotFound = errors.New("user not found")
)

type WalletUserStore interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
	AdjustBalance(ctx context.Context, tx store.Execer, userID string, delta int64) (int64, error)
	CreditReturning(ctx context.Context, tx store.Getter, userID string, delta int64) (int64, error)
}

type MovementStore interface {
	Insert(ctx context.Context, tx store.Execer, id, userID string, amount int64, source string) error
}

type WithdrawalStore interface {
	Create(ctx context.Context, tx store.Execer, input store.WithdrawalInput) error
	GetForUpdate(ctx context.Context, tx store.Getter, withdrawalID string) (models.Withdrawal, error)
	UpdateStatusFrom(ctx context.Context, tx store.Execer, withdrawalID string, from, to models.WithdrawalStatus) (int64, error)
}

// WalletService is the bridge between the coin ledger and the outside world:
// recharges arriving from the game platform and withdrawals back to robux.
type WalletService struct {
	txRunner       db.TxRunner
	users          WalletUserStore
	movements      MovementStore
	withdrawals    WithdrawalStore
	adminLog       AdminLogStore
	withdrawalRate int64
	withdrawalMin  int64
}

func NewWalletService(txRunner db.TxRunner, users WalletUserStore, movements MovementStore, withdrawals WithdrawalStore, adminLog AdminLogStore, withdrawalRate, withdrawalMin int64) *WalletService {
	return &WalletService{
		txRunner:       txRunner,
		users:          users,
		movements:      movements,
		withdrawals:    withdrawals,
		adminLog:       adminLog,
		withdrawalRate: withdrawalRate,
		withdrawalMin:  withdrawalMin,
	}
}

// RobloxCredit applies an external recharge: credit the balance, record the
// movement for statements, and log the automatic credit. The shared-secret
// check happens at the handler; by the time we are here the caller is trusted.
func (s *WalletService) RobloxCredit(ctx context.Context, username string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, ErrUserNotFound
	}
	var newBalance int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		newBalance, err = s.users.CreditReturning(ctx, tx, user.ID, amount)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if err := s.movements.Insert(ctx, tx, uuid.NewString(), user.ID, amount, "roblox"); err != nil {
			return err
		}
		details := fmt.Sprintf("Automatic credit of %d coins from a Roblox purchase. New balance: %d.", amount, newBalance)
		return s.adminLog.Log(ctx, tx, nil, "roblox_credit", &user.ID, details)
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// RequestWithdrawal debits the requester atomically with creating the pending
// record, so the coins are out of circulation while the request is reviewed.
func (s *WalletService) RequestWithdrawal(ctx context.Context, userID string, amountCoins int64) (string, error) {
	if amountCoins <= 0 {
		return "", ErrInvalidAmount
	}
	if amountCoins < s.withdrawalMin {
		return "", ErrBelowMinimum
	}
	if amountCoins%s.withdrawalRate != 0 {
		return "", ErrNotMultiple
	}
	withdrawalID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.users.AdjustBalance(ctx, tx, userID, -amountCoins)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientFunds
		}
		return s.withdrawals.Create(ctx, tx, store.WithdrawalInput{
			ID:          withdrawalID,
			UserID:      userID,
			AmountCoins: amountCoins,
			Robux:       amountCoins / s.withdrawalRate,
		})
	})
	if err != nil {
		return "", err
	}
	return withdrawalID, nil
}

// ProcessWithdrawal marks a pending withdrawal as paid out.
func (s *WalletService) ProcessWithdrawal(ctx context.Context, adminID, withdrawalID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		w, err := s.withdrawals.GetForUpdate(ctx, tx, withdrawalID)
		if err != nil {
			return translateNoRows(err)
		}
		rows, err := s.withdrawals.UpdateStatusFrom(ctx, tx, withdrawalID, models.WithdrawalPending, models.WithdrawalProcessed)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidState
		}
		details := fmt.Sprintf("Processed withdrawal of %d coins (%d robux)", w.AmountCoins, w.Robux)
		return s.adminLog.Log(ctx, tx, &adminID, "process_withdrawal", &w.UserID, details)
	})
}

// RejectWithdrawal refunds the debited coins. The rejection itself is not
// audited; only the status flip records the outcome.
func (s *WalletService) RejectWithdrawal(ctx context.Context, adminID, withdrawalID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		w, err := s.withdrawals.GetForUpdate(ctx, tx, withdrawalID)
		if err != nil {
			return translateNoRows(err)
		}
		rows, err := s.withdrawals.UpdateStatusFrom(ctx, tx, withdrawalID, models.WithdrawalPending, models.WithdrawalRejected)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidState
		}
		_, err = s.users.AdjustBalance(ctx, tx, w.UserID, w.AmountCoins)
		return err
	})
}
