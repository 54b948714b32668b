package services

import (
	"context"
	"errors"
	"testing"

	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/store"
)

func TestGrantCurrencyCreditOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewAdminService(fakeTxRunner{}, stubUserStore{}, &stubMovementStore{}, &stubAdminLogStore{})

	if err := svc.GrantCurrency(ctx, "admin-1", "user-1", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := svc.GrantCurrency(ctx, "admin-1", "user-1", -50); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestGrantCurrencyRecordsMovementAndAudit(t *testing.T) {
	ctx := context.Background()
	movements := &stubMovementStore{}
	adminLog := &stubAdminLogStore{}
	var credited int64
	svc := NewAdminService(fakeTxRunner{}, stubUserStore{
		adjustBalanceFn: func(_ context.Context, _ store.Execer, _ string, delta int64) (int64, error) {
			credited = delta
			return 1, nil
		},
	}, movements, adminLog)

	if err := svc.GrantCurrency(ctx, "admin-1", "user-1", 300); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if credited != 300 {
		t.Fatalf("unexpected credit: %d", credited)
	}
	if len(movements.inserted) != 1 || movements.inserted[0] != "admin_grant" {
		t.Fatalf("unexpected movements: %#v", movements.inserted)
	}
	if len(adminLog.entries) != 1 || adminLog.entries[0] != "grant_currency" {
		t.Fatalf("unexpected audit entries: %#v", adminLog.entries)
	}
}

func TestToggleBanRefusesAdmins(t *testing.T) {
	ctx := context.Background()
	svc := NewAdminService(fakeTxRunner{}, stubUserStore{
		getByIDFn: func(_ context.Context, userID string) (models.User, error) {
			return models.User{ID: userID, Role: models.RoleAdmin}, nil
		},
	}, &stubMovementStore{}, &stubAdminLogStore{})

	if _, err := svc.ToggleBan(ctx, "admin-1", "admin-2"); !errors.Is(err, ErrTargetIsAdmin) {
		t.Fatalf("expected ErrTargetIsAdmin, got %v", err)
	}
}

func TestToggleBanFlipsAndAudits(t *testing.T) {
	ctx := context.Background()
	adminLog := &stubAdminLogStore{}
	var setTo bool
	svc := NewAdminService(fakeTxRunner{}, stubUserStore{
		getByIDFn: func(_ context.Context, userID string) (models.User, error) {
			return models.User{ID: userID, Role: models.RoleUser, IsBanned: false}, nil
		},
		setBannedFn: func(_ context.Context, _ store.Execer, _ string, banned bool) error {
			setTo = banned
			return nil
		},
	}, &stubMovementStore{}, adminLog)

	banned, err := svc.ToggleBan(ctx, "admin-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !banned || !setTo {
		t.Fatalf("expected ban to flip on, got banned=%t setTo=%t", banned, setTo)
	}
	if len(adminLog.entries) != 1 || adminLog.entries[0] != "ban_user" {
		t.Fatalf("unexpected audit entries: %#v", adminLog.entries)
	}
}
