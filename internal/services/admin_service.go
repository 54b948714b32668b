package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/n14-py/tusinitusineli/internal/db"
	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrTargetIsAdmin = errors.New("cannot ban an administrator")

type AdminUserStore interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
	AdjustBalance(ctx context.Context, tx store.Execer, userID string, delta int64) (int64, error)
	SetBanned(ctx context.Context, tx store.Execer, userID string, banned bool) error
}

// AdminService covers the privileged mutations that are not escrow
// resolutions: direct credits and ban toggles. Both are audited in the same
// unit as the mutation.
type AdminService struct {
	txRunner  db.TxRunner
	users     AdminUserStore
	movements MovementStore
	adminLog  AdminLogStore
}

func NewAdminService(txRunner db.TxRunner, users AdminUserStore, movements MovementStore, adminLog AdminLogStore) *AdminService {
	return &AdminService{
		txRunner:  txRunner,
		users:     users,
		movements: movements,
		adminLog:  adminLog,
	}
}

// GrantCurrency credits a user directly. Grants are credit-only; negative
// adjustments go through the escrow machinery or not at all.
func (s *AdminService) GrantCurrency(ctx context.Context, adminID, userID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return translateNoRows(err)
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.users.AdjustBalance(ctx, tx, userID, amount)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		if err := s.movements.Insert(ctx, tx, uuid.NewString(), userID, amount, "admin_grant"); err != nil {
			return err
		}
		details := fmt.Sprintf("Granted %d coins to %s", amount, user.Username)
		return s.adminLog.Log(ctx, tx, &adminID, "grant_currency", &userID, details)
	})
}

// ToggleBan flips the ban flag on a non-admin account.
func (s *AdminService) ToggleBan(ctx context.Context, adminID, userID string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, translateNoRows(err)
	}
	if user.Role == models.RoleAdmin {
		return false, ErrTargetIsAdmin
	}
	banned := !user.IsBanned
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.SetBanned(ctx, tx, userID, banned); err != nil {
			return err
		}
		action := "unban_user"
		if banned {
			action = "ban_user"
		}
		details := fmt.Sprintf("Set ban=%t on %s", banned, user.Username)
		return s.adminLog.Log(ctx, tx, &adminID, action, &userID, details)
	})
	if err != nil {
		return false, err
	}
	return banned, nil
}
