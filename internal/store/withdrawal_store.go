package store

import (
	"context"

	"github.com/n14-py/tusinitusineli/internal/models"
)

type WithdrawalStore struct {
	db DB
}

type WithdrawalInput struct {
	ID          string
	UserID      string
	AmountCoins int64
	Robux       int64
}

type WithdrawalWithUser struct {
	models.Withdrawal
	Username string `db:"username"`
}

func NewWithdrawalStore(db DB) *WithdrawalStore {
	return &WithdrawalStore{db: db}
}

func (s *WithdrawalStore) Create(ctx context.Context, tx Execer, input WithdrawalInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO withdrawals (id, user_id, amount_coins, robux, status)
		VALUES ($1, $2, $3, $4, $5)
	`, input.ID, input.UserID, input.AmountCoins, input.Robux, models.WithdrawalPending)
	return err
}

func (s *WithdrawalStore) GetForUpdate(ctx context.Context, tx Getter, withdrawalID string) (models.Withdrawal, error) {
	var row models.Withdrawal
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, amount_coins, robux, status, created_at, updated_at
		FROM withdrawals
		WHERE id = $1
		FOR UPDATE
	`, withdrawalID)
	return row, err
}

// UpdateStatusFrom is the same optimistic guard used on transactions: zero
// rows changed means the withdrawal already left the pending state.
func (s *WithdrawalStore) UpdateStatusFrom(ctx context.Context, tx Execer, withdrawalID string, from, to models.WithdrawalStatus) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE withdrawals
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, withdrawalID, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *WithdrawalStore) ListByUser(ctx context.Context, userID string) ([]models.Withdrawal, error) {
	var rows []models.Withdrawal
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, amount_coins, robux, status, created_at, updated_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return rows, err
}

func (s *WithdrawalStore) ListByStatus(ctx context.Context, status models.WithdrawalStatus) ([]WithdrawalWithUser, error) {
	var rows []WithdrawalWithUser
	err := s.db.SelectContext(ctx, &rows, `
		SELECT w.id, w.user_id, w.amount_coins, w.robux, w.status, w.created_at, w.updated_at,
		       u.username
		FROM withdrawals w
		JOIN users u ON u.id = w.user_id
		WHERE w.status = $1
		ORDER BY w.created_at ASC
	`, status)
	return rows, err
}
