package store

import (
	"context"
	"strings"

	"github.com/n14-py/tusinitusineli/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, email, passwordHash string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
	`, id, strings.ToLower(username), strings.ToLower(email), passwordHash)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, balance, profile_pic, is_banned,
		       role, average_rating, total_sales, total_purchases, created_at
		FROM users
		WHERE id = $1
	`, userID)
	return row, err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, balance, profile_pic, is_banned,
		       role, average_rating, total_sales, total_purchases, created_at
		FROM users
		WHERE email = $1
	`, strings.ToLower(email))
	return row, err
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, balance, profile_pic, is_banned,
		       role, average_rating, total_sales, total_purchases, created_at
		FROM users
		WHERE username = $1
	`, strings.ToLower(username))
	return row, err
}

func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (models.User, error) {
	var row models.User
	err := tx.GetContext(ctx, &row, `
		SELECT id, username, email, password_hash, balance, profile_pic, is_banned,
		       role, average_rating, total_sales, total_purchases, created_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)
	return row, err
}

// AdjustBalance applies delta and reports the number of rows changed. A debit
// that would drive the balance negative matches no row, so the caller can
// translate zero rows into an insufficient-funds failure without a read.
func (s *UserStore) AdjustBalance(ctx context.Context, tx Execer, userID string, delta int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND balance + $1 >= 0
	`, delta, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreditReturning applies delta and returns the resulting balance in the same
// statement, so callers inside a unit never report a stale figure.
func (s *UserStore) CreditReturning(ctx context.Context, tx Getter, userID string, delta int64) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND balance + $1 >= 0
		RETURNING balance
	`, delta, userID)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (s *UserStore) IncrementSales(ctx context.Context, tx Execer, userID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users SET total_sales = total_sales + 1, updated_at = NOW() WHERE id = $1
	`, userID)
	return err
}

func (s *UserStore) IncrementPurchases(ctx context.Context, tx Execer, userID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users SET total_purchases = total_purchases + 1, updated_at = NOW() WHERE id = $1
	`, userID)
	return err
}

func (s *UserStore) SetAverageRating(ctx context.Context, tx Execer, userID, average string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users SET average_rating = $1, updated_at = NOW() WHERE id = $2
	`, average, userID)
	return err
}

func (s *UserStore) SetBanned(ctx context.Context, tx Execer, userID string, banned bool) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users SET is_banned = $1, updated_at = NOW() WHERE id = $2
	`, banned, userID)
	return err
}

func (s *UserStore) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)
	`, strings.ToLower(username))
	return exists, err
}

func (s *UserStore) ListAll(ctx context.Context, limit, offset int) ([]models.User, error) {
	var rows []models.User
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, username, email, password_hash, balance, profile_pic, is_banned,
		       role, average_rating, total_sales, total_purchases, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}
