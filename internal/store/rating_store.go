package store

import (
	"context"

	"github.com/n14-py/tusinitusineli/internal/models"
)

type RatingStore struct {
	db DB
}

type RatingInput struct {
	ID            string
	TransactionID string
	RaterID       string
	RatedUserID   string
	Stars         int
	Comment       string
}

type RatingWithRater struct {
	models.Rating
	RaterUsername string `db:"rater_username"`
}

func NewRatingStore(db DB) *RatingStore {
	return &RatingStore{db: db}
}

// Create inserts a rating; the unique index on (transaction_id, rater_id)
// rejects a second rating by the same rater with a 23505.
func (s *RatingStore) Create(ctx context.Context, tx Execer, input RatingInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ratings (id, transaction_id, rater_id, rated_user_id, stars, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, input.ID, input.TransactionID, input.RaterID, input.RatedUserID, input.Stars, input.Comment)
	return err
}

// AverageFor recomputes the mean over every star the user has received, so the
// stored average can never drift from the rating set.
func (s *RatingStore) AverageFor(ctx context.Context, tx Getter, ratedUserID string) (float64, int, error) {
	var row struct {
		Average float64 `db:"average"`
		Count   int     `db:"count"`
	}
	err := tx.GetContext(ctx, &row, `
		SELECT COALESCE(AVG(stars), 0) AS average, COUNT(*) AS count
		FROM ratings
		WHERE rated_user_id = $1
	`, ratedUserID)
	if err != nil {
		return 0, 0, err
	}
	return row.Average, row.Count, nil
}

func (s *RatingStore) ListForUser(ctx context.Context, ratedUserID string) ([]RatingWithRater, error) {
	var rows []RatingWithRater
	err := s.db.SelectContext(ctx, &rows, `
		SELECT r.id, r.transaction_id, r.rater_id, r.rated_user_id, r.stars, r.comment, r.created_at,
		       u.username AS rater_username
		FROM ratings r
		JOIN users u ON u.id = r.rater_id
		WHERE r.rated_user_id = $1
		ORDER BY r.created_at DESC
	`, ratedUserID)
	return rows, err
}
