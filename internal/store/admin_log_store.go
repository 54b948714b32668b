package store

import (
	"context"

	"github.com/n14-py/tusinitusineli/internal/models"
)

// AdminLogStore is the append-only audit trail for privileged mutations.
// Rows are never updated or deleted.
type AdminLogStore struct {
	db DB
}

func NewAdminLogStore(db DB) *AdminLogStore {
	return &AdminLogStore{db: db}
}

func (s *AdminLogStore) Log(ctx context.Context, tx Execer, adminID *string, action string, targetUserID *string, details string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO admin_logs (id, admin_id, action, target_user_id, details)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4)
	`, adminID, action, targetUserID, details)
	return err
}

func (s *AdminLogStore) List(ctx context.Context, limit, offset int) ([]models.AdminLog, error) {
	var rows []models.AdminLog
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, admin_id, action, target_user_id, details, created_at
		FROM admin_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}
