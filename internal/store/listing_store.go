package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/n14-py/tusinitusineli/internal/models"
)

type ListingStore struct {
	db DB
}

type ListingInput struct {
	ID          string
	SellerID    string
	Title       string
	Description string
	ImageURL    string
	Price       int64
	Category    string
	Rarity      string
}

type ListingFilter struct {
	Query    string
	Category string
	Rarity   string
	Status   models.ListingStatus
	Limit    int
	Offset   int
}

// ListingWithSeller carries the seller columns the browse pages render.
type ListingWithSeller struct {
	models.Listing
	SellerUsername string `db:"seller_username"`
	SellerRating   string `db:"seller_rating"`
}

func NewListingStore(db DB) *ListingStore {
	return &ListingStore{db: db}
}

const listingColumns = `id, seller_id, title, description, image_url, listing_type, price,
	status, category, rarity, views, start_bid, current_bid, highest_bidder_id,
	auction_ends_at, created_at, updated_at`

func (s *ListingStore) Create(ctx context.Context, tx Execer, input ListingInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO listings (id, seller_id, title, description, image_url, listing_type, price, category, rarity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, input.ID, input.SellerID, input.Title, input.Description, input.ImageURL,
		models.ListingFixedPrice, input.Price, input.Category, input.Rarity)
	return err
}

func (s *ListingStore) GetByID(ctx context.Context, listingID string) (models.Listing, error) {
	var row models.Listing
	err := s.db.GetContext(ctx, &row, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE id = $1
	`, listingID)
	return row, err
}

func (s *ListingStore) GetForUpdate(ctx context.Context, tx Getter, listingID string) (models.Listing, error) {
	var row models.Listing
	err := tx.GetContext(ctx, &row, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE id = $1
		FOR UPDATE
	`, listingID)
	return row, err
}

// Reserve flips an available listing into in_transaction. It reports the rows
// changed; two concurrent buyers racing for the same listing see exactly one
// row changed between them.
func (s *ListingStore) Reserve(ctx context.Context, tx Execer, listingID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE listings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.ListingInTransaction, listingID, models.ListingAvailable)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Release puts a reserved listing back on the market after a refund.
func (s *ListingStore) Release(ctx context.Context, tx Execer, listingID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE listings
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, models.ListingAvailable, listingID)
	return err
}

func (s *ListingStore) Delete(ctx context.Context, tx Execer, listingID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, listingID)
	return err
}

func (s *ListingStore) IncrementViews(ctx context.Context, listingID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE listings SET views = views + 1 WHERE id = $1
	`, listingID)
	return err
}

func (s *ListingStore) List(ctx context.Context, filter ListingFilter) ([]ListingWithSeller, int, error) {
	where := []string{"l.status = $1"}
	args := []any{filter.Status}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = append(where, fmt.Sprintf("l.title ILIKE $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("l.category = $%d", len(args)))
	}
	if filter.Rarity != "" {
		args = append(args, filter.Rarity)
		where = append(where, fmt.Sprintf("l.rarity = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := s.db.GetContext(ctx, &total, `
		SELECT COUNT(*) FROM listings l WHERE `+whereClause, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT l.id, l.seller_id, l.title, l.description, l.image_url, l.listing_type,
		       l.price, l.status, l.category, l.rarity, l.views, l.start_bid,
		       l.current_bid, l.highest_bidder_id, l.auction_ends_at, l.created_at,
		       l.updated_at,
		       u.username AS seller_username,
		       u.average_rating AS seller_rating
		FROM listings l
		JOIN users u ON u.id = l.seller_id
		WHERE %s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)-1, len(args))
	var rows []ListingWithSeller
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *ListingStore) ListBySeller(ctx context.Context, sellerID string) ([]models.Listing, error) {
	var rows []models.Listing
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE seller_id = $1
		ORDER BY created_at DESC
	`, sellerID)
	return rows, err
}

func (s *ListingStore) ListBySellerAndStatus(ctx context.Context, sellerID string, status models.ListingStatus) ([]models.Listing, error) {
	var rows []models.Listing
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE seller_id = $1 AND status = $2
		ORDER BY created_at DESC
	`, sellerID, status)
	return rows, err
}

func (s *ListingStore) ListAllWithSellers(ctx context.Context, limit, offset int) ([]ListingWithSeller, error) {
	var rows []ListingWithSeller
	err := s.db.SelectContext(ctx, &rows, `
		SELECT l.id, l.seller_id, l.title, l.description, l.image_url, l.listing_type,
		       l.price, l.status, l.category, l.rarity, l.views, l.start_bid,
		       l.current_bid, l.highest_bidder_id, l.auction_ends_at, l.created_at,
		       l.updated_at,
		       u.username AS seller_username,
		       u.average_rating AS seller_rating
		FROM listings l
		JOIN users u ON u.id = l.seller_id
		ORDER BY l.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}
