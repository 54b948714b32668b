package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/n14-py/tusinitusineli/internal/models"
)

type TransactionStore struct {
	db DB
}

type TransactionInput struct {
	ID        string
	BuyerID   string
	SellerID  string
	ListingID string
	Amount    int64
	Status    models.TransactionStatus
}

// TransactionDetail joins the usernames and listing title the transaction
// page renders alongside the raw row.
type TransactionDetail struct {
	models.Transaction
	BuyerUsername  string  `db:"buyer_username"`
	SellerUsername string  `db:"seller_username"`
	ListingTitle   *string `db:"listing_title"`
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, buyer_id, seller_id, listing_id, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, input.ID, input.BuyerID, input.SellerID, input.ListingID, input.Amount, input.Status)
	return err
}

func (s *TransactionStore) GetByID(ctx context.Context, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := s.db.GetContext(ctx, &row, `
		SELECT id, buyer_id, seller_id, listing_id, amount, status, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`, transactionID)
	return row, err
}

func (s *TransactionStore) GetForUpdate(ctx context.Context, tx Getter, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := tx.GetContext(ctx, &row, `
		SELECT id, buyer_id, seller_id, listing_id, amount, status, created_at, updated_at
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`, transactionID)
	return row, err
}

// UpdateStatusFrom flips status only when the stored status still matches
// from, and reports the rows changed. A zero count means another operation
// won the race; callers surface that as an invalid-state failure.
func (s *TransactionStore) UpdateStatusFrom(ctx context.Context, tx Execer, transactionID string, from, to models.TransactionStatus) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, transactionID, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindOpenByListing returns the single non-terminal transaction holding the
// listing, or sql.ErrNoRows when the listing is unencumbered.
func (s *TransactionStore) FindOpenByListing(ctx context.Context, tx Getter, listingID string) (models.Transaction, error) {
	var row models.Transaction
	err := tx.GetContext(ctx, &row, `
		SELECT id, buyer_id, seller_id, listing_id, amount, status, created_at, updated_at
		FROM transactions
		WHERE listing_id = $1 AND status IN ($2, $3)
		FOR UPDATE
	`, listingID, models.TransactionPendingDelivery, models.TransactionInDispute)
	return row, err
}

func (s *TransactionStore) ListByBuyer(ctx context.Context, buyerID string) ([]TransactionDetail, error) {
	return s.listDetailed(ctx, `WHERE t.buyer_id = $1`, buyerID)
}

func (s *TransactionStore) ListBySeller(ctx context.Context, sellerID string) ([]TransactionDetail, error) {
	return s.listDetailed(ctx, `WHERE t.seller_id = $1`, sellerID)
}

func (s *TransactionStore) ListByStatus(ctx context.Context, status models.TransactionStatus) ([]TransactionDetail, error) {
	return s.listDetailed(ctx, `WHERE t.status = $1`, status)
}

func (s *TransactionStore) ListAll(ctx context.Context, limit, offset int) ([]TransactionDetail, error) {
	var rows []TransactionDetail
	err := s.db.SelectContext(ctx, &rows, detailQuery+`
		ORDER BY t.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

const detailQuery = `
	SELECT t.id, t.buyer_id, t.seller_id, t.listing_id, t.amount, t.status,
	       t.created_at, t.updated_at,
	       b.username AS buyer_username,
	       s.username AS seller_username,
	       l.title AS listing_title
	FROM transactions t
	JOIN users b ON b.id = t.buyer_id
	JOIN users s ON s.id = t.seller_id
	LEFT JOIN listings l ON l.id = t.listing_id
`

func (s *TransactionStore) listDetailed(ctx context.Context, where string, args ...any) ([]TransactionDetail, error) {
	var rows []TransactionDetail
	err := s.db.SelectContext(ctx, &rows, detailQuery+where+` ORDER BY t.created_at DESC`, args...)
	return rows, err
}

func (s *TransactionStore) GetDetail(ctx context.Context, transactionID string) (TransactionDetail, error) {
	var row TransactionDetail
	err := s.db.GetContext(ctx, &row, detailQuery+`WHERE t.id = $1`, transactionID)
	return row, err
}

// SumSpentByBuyer totals completed purchases for the statement page.
func (s *TransactionStore) SumSpentByBuyer(ctx context.Context, buyerID string) (int64, error) {
	return s.sumAmount(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE buyer_id = $1 AND status = $2
	`, buyerID, models.TransactionCompleted)
}

func (s *TransactionStore) SumEarnedBySeller(ctx context.Context, sellerID string) (int64, error) {
	return s.sumAmount(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE seller_id = $1 AND status = $2
	`, sellerID, models.TransactionCompleted)
}

func (s *TransactionStore) SumPendingForSeller(ctx context.Context, sellerID string) (int64, error) {
	return s.sumAmount(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE seller_id = $1 AND status = $2
	`, sellerID, models.TransactionPendingDelivery)
}

func (s *TransactionStore) sumAmount(ctx context.Context, query string, args ...any) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, query, args...)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return total, nil
}
