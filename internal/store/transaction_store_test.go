package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/n14-py/tusinitusineli/internal/models"
)

func TestTransactionStoreUpdateStatusFrom(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "AND status = $3") {
				t.Fatalf("missing status guard: %s", query)
			}
			if args[0] != models.TransactionCompleted || args[2] != models.TransactionPendingDelivery {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 0}, nil
		},
	}
	store := NewTransactionStore(stubDB{})
	rows, err := store.UpdateStatusFrom(ctx, execer, "tx-1", models.TransactionPendingDelivery, models.TransactionCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected zero rows for a lost race, got %d", rows)
	}
}

func TestTransactionStoreFindOpenByListing(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") || !strings.Contains(query, "status IN ($2, $3)") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "listing-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*models.Transaction) = models.Transaction{ID: "tx-1", Status: models.TransactionPendingDelivery}
			return nil
		},
	}
	store := NewTransactionStore(stubDB{})
	row, err := store.FindOpenByListing(ctx, getter, "listing-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ID != "tx-1" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestTransactionStoreFindOpenByListingNoRows(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, _ any, _ string, _ ...any) error {
			return sql.ErrNoRows
		},
	}
	store := NewTransactionStore(stubDB{})
	_, err := store.FindOpenByListing(ctx, getter, "listing-1")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestTransactionStoreGetByIDWithoutListing(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM transactions") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*models.Transaction) = models.Transaction{
				ID: "tx-1", BuyerID: "buyer-1", SellerID: "seller-1",
				ListingID: nil, Amount: 500, Status: models.TransactionCancelled,
			}
			return nil
		},
	})
	row, err := store.GetByID(ctx, "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ListingID != nil {
		t.Fatalf("expected no listing reference, got %v", row.ListingID)
	}
	if row.Amount != 500 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestTransactionStoreSumPendingForSeller(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "COALESCE(SUM(amount), 0)") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[1] != models.TransactionPendingDelivery {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*int64) = 420
			return nil
		},
	})
	total, err := store.SumPendingForSeller(ctx, "seller-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 420 {
		t.Fatalf("unexpected total: %d", total)
	}
}
