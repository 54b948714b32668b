package services

import (
	"context"
	"errors"

	"github.com/n14-py/tusinitusineli/internal/db"
	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/store"
	"github.com/n14-py/tusinitusineli/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyRated    = errors.New("transaction already rated by this user")
	ErrSelfRating      = errors.New("cannot rate yourself")
	ErrNotCompleted    = errors.New("only completed transactions can be rated")
	ErrInvalidStars    = errors.New("stars must be between 1 and 5")
	ErrCommentTooLong  = errors.New("comment exceeds the allowed length")
	ErrRatedNotCounter = errors.New("rated user is not the counterparty")
)

type RatingStore interface {
	Create(ctx context.Context, tx store.Execer, input store.RatingInput) error
	AverageFor(ctx context.Context, tx store.Getter, ratedUserID string) (float64, int, error)
}

type RatingTransactionStore interface {
	GetByID(ctx context.Context, transactionID string) (models.Transaction, error)
}

type RatingUserStore interface {
	SetAverageRating(ctx context.Context, tx store.Execer, userID, average string) error
}

// RatingService aggregates post-completion reputation. The stored average is
// always recomputed from the full rating set inside the same unit as the
// insert, so it can never drift.
type RatingService struct {
	txRunner     db.TxRunner
	ratings      RatingStore
	transactions RatingTransactionStore
	users        RatingUserStore
}

func NewRatingService(txRunner db.TxRunner, ratings RatingStore, transactions RatingTransactionStore, users RatingUserStore) *RatingService {
	return &RatingService{
		txRunner:     txRunner,
		ratings:      ratings,
		transactions: transactions,
		users:        users,
	}
}

type RateRequest struct {
	RaterID       string
	TransactionID string
	RatedUserID   string
	Stars         int
	Comment       string
}

func (s *RatingService) Rate(ctx context.Context, req RateRequest) error {
	if err := validator.ValidateStars(req.Stars); err != nil {
		return ErrInvalidStars
	}
	if err := validator.ValidateComment(req.Comment); err != nil {
		return ErrCommentTooLong
	}
	txn, err := s.transactions.GetByID(ctx, req.TransactionID)
	if err != nil {
		return translateNoRows(err)
	}
	if txn.Status != models.TransactionCompleted {
		return ErrNotCompleted
	}
	if txn.BuyerID != req.RaterID && txn.SellerID != req.RaterID {
		return ErrNotParticipant
	}
	if req.RatedUserID == req.RaterID {
		return ErrSelfRating
	}
	if txn.BuyerID != req.RatedUserID && txn.SellerID != req.RatedUserID {
		return ErrRatedNotCounter
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.ratings.Create(ctx, tx, store.RatingInput{
			ID:            uuid.NewString(),
			TransactionID: req.TransactionID,
			RaterID:       req.RaterID,
			RatedUserID:   req.RatedUserID,
			Stars:         req.Stars,
			Comment:       req.Comment,
		}); err != nil {
			return err
		}
		average, _, err := s.ratings.AverageFor(ctx, tx, req.RatedUserID)
		if err != nil {
			return err
		}
		rounded := decimal.NewFromFloat(average).Round(1).StringFixed(1)
		return s.users.SetAverageRating(ctx, tx, req.RatedUserID, rounded)
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyRated
		}
		return err
	}
	return nil
}
