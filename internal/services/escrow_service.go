package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/n14-py/tusinitusineli/internal/db"
	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/store"
	"github.com/n14-py/tusinitusineli/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotAvailable      = errors.New("listing not available")
	ErrOwnListing        = errors.New("cannot buy your own listing")
	ErrInvalidState      = errors.New("transaction not in required state")
	ErrNotParticipant    = errors.New("not a participant of this transaction")
	ErrNotFound          = errors.New("not found")
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (models.User, error)
	AdjustBalance(ctx context.Context, tx store.Execer, userID string, delta int64) (int64, error)
	IncrementSales(ctx context.Context, tx store.Execer, userID string) error
	IncrementPurchases(ctx context.Context, tx store.Execer, userID string) error
}

type ListingStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, listingID string) (models.Listing, error)
	Reserve(ctx context.Context, tx store.Execer, listingID string) (int64, error)
	Release(ctx context.Context, tx store.Execer, listingID string) error
	Delete(ctx context.Context, tx store.Execer, listingID string) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	GetForUpdate(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	UpdateStatusFrom(ctx context.Context, tx store.Execer, transactionID string, from, to models.TransactionStatus) (int64, error)
	FindOpenByListing(ctx context.Context, tx store.Getter, listingID string) (models.Transaction, error)
}

type MessageStore interface {
	Append(ctx context.Context, tx store.Execer, input store.MessageInput) error
}

type AdminLogStore interface {
	Log(ctx context.Context, tx store.Execer, adminID *string, action string, targetUserID *string, details string) error
}

type ChatHub interface {
	BroadcastMessage(transactionID string, event websocket.MessageEvent)
}

// EscrowService owns the transaction state machine. Every transition that
// moves coins and flips a status runs in one serializable unit through the
// TxRunner; the status column itself is the optimistic guard, so a racing
// transition sees zero rows changed and fails with ErrInvalidState.
type EscrowService struct {
	txRunner     db.TxRunner
	users        UserStore
	listings     ListingStore
	transactions TransactionStore
	messages     MessageStore
	adminLog     AdminLogStore
	hub          ChatHub
}

func NewEscrowService(txRunner db.TxRunner, users UserStore, listings ListingStore, transactions TransactionStore, messages MessageStore, adminLog AdminLogStore, hub ChatHub) *EscrowService {
	return &EscrowService{
		txRunner:     txRunner,
		users:        users,
		listings:     listings,
		transactions: transactions,
		messages:     messages,
		adminLog:     adminLog,
		hub:          hub,
	}
}

// Purchase opens an escrow transaction: the price leaves the buyer's balance
// and is held by the transaction row until settlement.
func (s *EscrowService) Purchase(ctx context.Context, buyerID, listingID string) (string, error) {
	transactionID := uuid.NewString()
	var pending []store.MessageInput
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		listing, err := s.listings.GetForUpdate(ctx, tx, listingID)
		if err != nil {
			return translateNoRows(err)
		}
		if listing.Status != models.ListingAvailable {
			return ErrNotAvailable
		}
		if listing.SellerID == buyerID {
			return ErrOwnListing
		}
		if listing.ListingType != models.ListingFixedPrice || listing.Price <= 0 {
			return ErrNotAvailable
		}
		buyer, err := s.users.GetForUpdate(ctx, tx, buyerID)
		if err != nil {
			return translateNoRows(err)
		}
		if buyer.Balance < listing.Price {
			return ErrInsufficientFunds
		}
		seller, err := s.users.GetByID(ctx, listing.SellerID)
		if err != nil {
			return translateNoRows(err)
		}

		rows, err := s.listings.Reserve(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotAvailable
		}
		rows, err = s.users.AdjustBalance(ctx, tx, buyerID, -listing.Price)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientFunds
		}
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:        transactionID,
			BuyerID:   buyerID,
			SellerID:  listing.SellerID,
			ListingID: listingID,
			Amount:    listing.Price,
			Status:    models.TransactionPendingDelivery,
		}); err != nil {
			return err
		}
		msg := systemMessage(transactionID, fmt.Sprintf(
			"Transaction started! The buyer (%s) and the seller (%s) must coordinate the delivery.",
			buyer.Username, seller.Username))
		if err := s.messages.Append(ctx, tx, msg); err != nil {
			return err
		}
		pending = append(pending, msg)
		return nil
	})
	if err != nil {
		return "", err
	}
	s.broadcast(transactionID, pending)
	return transactionID, nil
}

// ConfirmDelivery settles the escrow in the seller's favor. Only the buyer
// may confirm, and only from pending_delivery.
func (s *EscrowService) ConfirmDelivery(ctx context.Context, actorID, transactionID string) error {
	var pending []store.MessageInput
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		txn, err := s.transactions.GetForUpdate(ctx, tx, transactionID)
		if err != nil {
			return translateNoRows(err)
		}
		if txn.BuyerID != actorID {
			return ErrNotParticipant
		}
		rows, err := s.transactions.UpdateStatusFrom(ctx, tx, transactionID, models.TransactionPendingDelivery, models.TransactionCompleted)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidState
		}
		if err := s.settleToSeller(ctx, tx, txn); err != nil {
			return err
		}
		msg := systemMessage(transactionID, fmt.Sprintf(
			"Delivery confirmed! %d coins have been released to the seller. The transaction is complete.",
			txn.Amount))
		if err := s.messages.Append(ctx, tx, msg); err != nil {
			return err
		}
		pending = append(pending, msg)
		return nil
	})
	if err != nil {
		return err
	}
	s.broadcast(transactionID, pending)
	return nil
}

// RaiseDispute freezes the escrow until an administrator resolves it. Either
// participant may raise it while delivery is pending.
func (s *EscrowService) RaiseDispute(ctx context.Context, actorID, transactionID string) error {
	var pending []store.MessageInput
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		txn, err := s.transactions.GetForUpdate(ctx, tx, transactionID)
		if err != nil {
			return translateNoRows(err)
		}
		if txn.BuyerID != actorID && txn.SellerID != actorID {
			return ErrNotParticipant
		}
		actor, err := s.users.GetByID(ctx, actorID)
		if err != nil {
			return translateNoRows(err)
		}
		rows, err := s.transactions.UpdateStatusFrom(ctx, tx, transactionID, models.TransactionPendingDelivery, models.TransactionInDispute)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidState
		}
		msg := systemMessage(transactionID, fmt.Sprintf(
			"%s has opened a dispute. An administrator will review the case.", actor.Username))
		if err := s.messages.Append(ctx, tx, msg); err != nil {
			return err
		}
		pending = append(pending, msg)
		return nil
	})
	if err != nil {
		return err
	}
	s.broadcast(transactionID, pending)
	return nil
}

// AdminRefund resolves a dispute in the buyer's favor: refund the held amount
// and put the listing back on the market.
func (s *EscrowService) AdminRefund(ctx context.Context, adminID, transactionID string) error {
	var pending []store.MessageInput
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		txn, err := s.transactions.GetForUpdate(ctx, tx, transactionID)
		if err != nil {
			return translateNoRows(err)
		}
		rows, err := s.transactions.UpdateStatusFrom(ctx, tx, transactionID, models.TransactionInDispute, models.TransactionCancelled)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidState
		}
		if _, err := s.users.AdjustBalance(ctx, tx, txn.BuyerID, txn.Amount); err != nil {
			return err
		}
		if txn.ListingID != nil {
			if err := s.listings.Release(ctx, tx, *txn.ListingID); err != nil {
				return err
			}
		}
		msg := systemMessage(transactionID,
			"Dispute resolved by an administrator. The payment has been refunded to the buyer.")
		if err := s.messages.Append(ctx, tx, msg); err != nil {
			return err
		}
		pending = append(pending, msg)
		details := fmt.Sprintf("Refunded %d coins to the buyer in transaction %s", txn.Amount, transactionID)
		return s.adminLog.Log(ctx, tx, &adminID, "refund", &txn.BuyerID, details)
	})
	if err != nil {
		return err
	}
	s.broadcast(transactionID, pending)
	return nil
}

// AdminRelease resolves a dispute in the seller's favor.
func (s *EscrowService) AdminRelease(ctx context.Context, adminID, transactionID string) error {
	var pending []store.MessageInput
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		txn, err := s.transactions.GetForUpdate(ctx, tx, transactionID)
		if err != nil {
			return translateNoRows(err)
		}
		rows, err := s.transactions.UpdateStatusFrom(ctx, tx, transactionID, models.TransactionInDispute, models.TransactionCompleted)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInvalidState
		}
		if err := s.settleToSeller(ctx, tx, txn); err != nil {
			return err
		}
		msg := systemMessage(transactionID,
			"Dispute resolved by an administrator. The payment has been released to the seller.")
		if err := s.messages.Append(ctx, tx, msg); err != nil {
			return err
		}
		pending = append(pending, msg)
		details := fmt.Sprintf("Released %d coins to the seller in transaction %s", txn.Amount, transactionID)
		return s.adminLog.Log(ctx, tx, &adminID, "release_payment", &txn.SellerID, details)
	})
	if err != nil {
		return err
	}
	s.broadcast(transactionID, pending)
	return nil
}

// DeleteListing force-removes a listing. An open transaction against it is
// cancelled with a refund in the same unit before the row goes away.
func (s *EscrowService) DeleteListing(ctx context.Context, adminID, listingID string) error {
	var cancelledTxID string
	var pending []store.MessageInput
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		cancelledTxID = ""
		pending = nil
		listing, err := s.listings.GetForUpdate(ctx, tx, listingID)
		if err != nil {
			return translateNoRows(err)
		}
		txn, err := s.transactions.FindOpenByListing(ctx, tx, listingID)
		switch {
		case err == nil:
			rows, err := s.transactions.UpdateStatusFrom(ctx, tx, txn.ID, txn.Status, models.TransactionCancelled)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrInvalidState
			}
			if _, err := s.users.AdjustBalance(ctx, tx, txn.BuyerID, txn.Amount); err != nil {
				return err
			}
			msg := systemMessage(txn.ID,
				"The transaction was cancelled by an administrator because the item was removed.")
			if err := s.messages.Append(ctx, tx, msg); err != nil {
				return err
			}
			cancelledTxID = txn.ID
			pending = append(pending, msg)
		case errors.Is(err, sql.ErrNoRows):
			// nothing holds the listing
		default:
			return err
		}
		if err := s.listings.Delete(ctx, tx, listingID); err != nil {
			return err
		}
		details := fmt.Sprintf("Deleted listing %q (%s)", listing.Title, listingID)
		return s.adminLog.Log(ctx, tx, &adminID, "delete_listing", nil, details)
	})
	if err != nil {
		return err
	}
	if cancelledTxID != "" {
		s.broadcast(cancelledTxID, pending)
	}
	return nil
}

func (s *EscrowService) settleToSeller(ctx context.Context, tx *sqlx.Tx, txn models.Transaction) error {
	if _, err := s.users.AdjustBalance(ctx, tx, txn.SellerID, txn.Amount); err != nil {
		return err
	}
	if err := s.users.IncrementSales(ctx, tx, txn.SellerID); err != nil {
		return err
	}
	return s.users.IncrementPurchases(ctx, tx, txn.BuyerID)
}

func (s *EscrowService) broadcast(transactionID string, messages []store.MessageInput) {
	if s.hub == nil {
		return
	}
	for _, msg := range messages {
		s.hub.BroadcastMessage(transactionID, websocket.MessageEvent{
			Type:          "new_message",
			TransactionID: msg.TransactionID,
			MessageID:     msg.ID,
			Body:          msg.Body,
			ImageURL:      msg.ImageURL,
			CreatedAt:     time.Now().UTC(),
		})
	}
}

func systemMessage(transactionID, text string) store.MessageInput {
	return store.MessageInput{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		Body:          &text,
	}
}

func translateNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
