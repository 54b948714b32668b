package store

import (
	"context"

	"github.com/n14-py/tusinitusineli/internal/models"
)

type MovementStore struct {
	db DB
}

func NewMovementStore(db DB) *MovementStore {
	return &MovementStore{db: db}
}

func (s *MovementStore) Insert(ctx context.Context, tx Execer, id, userID string, amount int64, source string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO coin_movements (id, user_id, amount, source)
		VALUES ($1, $2, $3, $4)
	`, id, userID, amount, source)
	return err
}

func (s *MovementStore) ListByUser(ctx context.Context, userID string) ([]models.CoinMovement, error) {
	var rows []models.CoinMovement
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, amount, source, created_at
		FROM coin_movements
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return rows, err
}
