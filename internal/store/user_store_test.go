package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/n14-py/tusinitusineli/internal/models"
)

func TestUserStoreCreateLowercases(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO users") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[1] != "brainlord" || args[2] != "brain@lord.dev" {
				t.Fatalf("identifiers not lowercased: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	if err := store.Create(ctx, execer, "user-1", "BrainLord", "Brain@Lord.dev", "hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserStoreAdjustBalanceGuard(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "balance + $1 >= 0") {
				t.Fatalf("missing balance guard in query: %s", query)
			}
			if args[0] != int64(-500) || args[1] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 0}, nil
		},
	}
	store := NewUserStore(stubDB{})
	rows, err := store.AdjustBalance(ctx, execer, "user-1", -500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected zero rows for an overdraft, got %d", rows)
	}
}

func TestUserStoreCreditReturningBalance(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "RETURNING balance") {
				t.Fatalf("missing RETURNING clause in query: %s", query)
			}
			if !strings.Contains(query, "balance + $1 >= 0") {
				t.Fatalf("missing balance guard in query: %s", query)
			}
			if args[0] != int64(200) || args[1] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*int64) = 250
			return nil
		},
	}
	store := NewUserStore(stubDB{})
	balance, err := store.CreditReturning(ctx, getter, "user-1", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 250 {
		t.Fatalf("unexpected balance: %d", balance)
	}
}

func TestUserStoreGetForUpdate(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.User) = models.User{ID: "user-1", Balance: 750}
			return nil
		},
	}
	store := NewUserStore(stubDB{})
	row, err := store.GetForUpdate(ctx, getter, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Balance != 750 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestUserStoreExistsLowercases(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "SELECT EXISTS") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "brainlord" {
				t.Fatalf("username not lowercased: %#v", args)
			}
			*dest.(*bool) = true
			return nil
		},
	})
	exists, err := store.Exists(ctx, "BrainLord")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists")
	}
}
