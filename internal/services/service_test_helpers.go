package services

import (
	"context"
	"sync"

	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/store"
	"github.com/n14-py/tusinitusineli/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubUserStore struct {
	getByIDFn       func(ctx context.Context, userID string) (models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (models.User, error)
	getForUpdateFn  func(ctx context.Context, tx store.Getter, userID string) (models.User, error)
	adjustBalanceFn func(ctx context.Context, tx store.Execer, userID string, delta int64) (int64, error)
	creditFn        func(ctx context.Context, tx store.Getter, userID string, delta int64) (int64, error)
	incSalesFn      func(ctx context.Context, tx store.Execer, userID string) error
	incPurchasesFn  func(ctx context.Context, tx store.Execer, userID string) error
	setBannedFn     func(ctx context.Context, tx store.Execer, userID string, banned bool) error
	setAverageFn    func(ctx context.Context, tx store.Execer, userID, average string) error
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if s.getByUsernameFn == nil {
		return models.User{Username: username}, nil
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) GetForUpdate(ctx context.Context, tx store.Getter, userID string) (models.User, error) {
	if s.getForUpdateFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getForUpdateFn(ctx, tx, userID)
}

func (s stubUserStore) AdjustBalance(ctx context.Context, tx store.Execer, userID string, delta int64) (int64, error) {
	if s.adjustBalanceFn == nil {
		return 1, nil
	}
	return s.adjustBalanceFn(ctx, tx, userID, delta)
}

func (s stubUserStore) CreditReturning(ctx context.Context, tx store.Getter, userID string, delta int64) (int64, error) {
	if s.creditFn == nil {
		return delta, nil
	}
	return s.creditFn(ctx, tx, userID, delta)
}

func (s stubUserStore) IncrementSales(ctx context.Context, tx store.Execer, userID string) error {
	if s.incSalesFn == nil {
		return nil
	}
	return s.incSalesFn(ctx, tx, userID)
}

func (s stubUserStore) IncrementPurchases(ctx context.Context, tx store.Execer, userID string) error {
	if s.incPurchasesFn == nil {
		return nil
	}
	return s.incPurchasesFn(ctx, tx, userID)
}

func (s stubUserStore) SetBanned(ctx context.Context, tx store.Execer, userID string, banned bool) error {
	if s.setBannedFn == nil {
		return nil
	}
	return s.setBannedFn(ctx, tx, userID, banned)
}

func (s stubUserStore) SetAverageRating(ctx context.Context, tx store.Execer, userID, average string) error {
	if s.setAverageFn == nil {
		return nil
	}
	return s.setAverageFn(ctx, tx, userID, average)
}

type stubListingStore struct {
	getForUpdateFn func(ctx context.Context, tx store.Getter, listingID string) (models.Listing, error)
	reserveFn      func(ctx context.Context, tx store.Execer, listingID string) (int64, error)
	releaseFn      func(ctx context.Context, tx store.Execer, listingID string) error
	deleteFn       func(ctx context.Context, tx store.Execer, listingID string) error
}

func (s stubListingStore) GetForUpdate(ctx context.Context, tx store.Getter, listingID string) (models.Listing, error) {
	return s.getForUpdateFn(ctx, tx, listingID)
}

func (s stubListingStore) Reserve(ctx context.Context, tx store.Execer, listingID string) (int64, error) {
	if s.reserveFn == nil {
		return 1, nil
	}
	return s.reserveFn(ctx, tx, listingID)
}

func (s stubListingStore) Release(ctx context.Context, tx store.Execer, listingID string) error {
	if s.releaseFn == nil {
		return nil
	}
	return s.releaseFn(ctx, tx, listingID)
}

func (s stubListingStore) Delete(ctx context.Context, tx store.Execer, listingID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, tx, listingID)
}

type stubTransactionStore struct {
	createFn           func(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	getByIDFn          func(ctx context.Context, transactionID string) (models.Transaction, error)
	getForUpdateFn     func(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	updateStatusFromFn func(ctx context.Context, tx store.Execer, transactionID string, from, to models.TransactionStatus) (int64, error)
	findOpenFn         func(ctx context.Context, tx store.Getter, listingID string) (models.Transaction, error)
}

func (s stubTransactionStore) Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubTransactionStore) GetByID(ctx context.Context, transactionID string) (models.Transaction, error) {
	return s.getByIDFn(ctx, transactionID)
}

func (s stubTransactionStore) GetForUpdate(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error) {
	return s.getForUpdateFn(ctx, tx, transactionID)
}

func (s stubTransactionStore) UpdateStatusFrom(ctx context.Context, tx store.Execer, transactionID string, from, to models.TransactionStatus) (int64, error) {
	if s.updateStatusFromFn == nil {
		return 1, nil
	}
	return s.updateStatusFromFn(ctx, tx, transactionID, from, to)
}

func (s stubTransactionStore) FindOpenByListing(ctx context.Context, tx store.Getter, listingID string) (models.Transaction, error) {
	return s.findOpenFn(ctx, tx, listingID)
}

type stubMessageStore struct {
	mu       sync.Mutex
	appended []store.MessageInput
	appendFn func(ctx context.Context, tx store.Execer, input store.MessageInput) error
}

func (s *stubMessageStore) Append(ctx context.Context, tx store.Execer, input store.MessageInput) error {
	if s.appendFn != nil {
		return s.appendFn(ctx, tx, input)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append(s.appended, input)
	return nil
}

func (s *stubMessageStore) ListByTransaction(ctx context.Context, transactionID string) ([]store.MessageWithSender, error) {
	return nil, nil
}

type stubAdminLogStore struct {
	mu      sync.Mutex
	entries []string
	logFn   func(ctx context.Context, tx store.Execer, adminID *string, action string, targetUserID *string, details string) error
}

func (s *stubAdminLogStore) Log(ctx context.Context, tx store.Execer, adminID *string, action string, targetUserID *string, details string) error {
	if s.logFn != nil {
		return s.logFn(ctx, tx, adminID, action, targetUserID, details)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, action)
	return nil
}

type stubHub struct {
	mu     sync.Mutex
	events []websocket.MessageEvent
}

func (s *stubHub) BroadcastMessage(transactionID string, event websocket.MessageEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

type stubMovementStore struct {
	mu       sync.Mutex
	inserted []string
	insertFn func(ctx context.Context, tx store.Execer, id, userID string, amount int64, source string) error
}

func (s *stubMovementStore) Insert(ctx context.Context, tx store.Execer, id, userID string, amount int64, source string) error {
	if s.insertFn != nil {
		return s.insertFn(ctx, tx, id, userID, amount, source)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, source)
	return nil
}

type stubWithdrawalStore struct {
	createFn           func(ctx context.Context, tx store.Execer, input store.WithdrawalInput) error
	getForUpdateFn     func(ctx context.Context, tx store.Getter, withdrawalID string) (models.Withdrawal, error)
	updateStatusFromFn func(ctx context.Context, tx store.Execer, withdrawalID string, from, to models.WithdrawalStatus) (int64, error)
}

func (s stubWithdrawalStore) Create(ctx context.Context, tx store.Execer, input store.WithdrawalInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubWithdrawalStore) GetForUpdate(ctx context.Context, tx store.Getter, withdrawalID string) (models.Withdrawal, error) {
	return s.getForUpdateFn(ctx, tx, withdrawalID)
}

func (s stubWithdrawalStore) UpdateStatusFrom(ctx context.Context, tx store.Execer, withdrawalID string, from, to models.WithdrawalStatus) (int64, error) {
	if s.updateStatusFromFn == nil {
		return 1, nil
	}
	return s.updateStatusFromFn(ctx, tx, withdrawalID, from, to)
}

type stubRatingStore struct {
	createFn     func(ctx context.Context, tx store.Execer, input store.RatingInput) error
	averageForFn func(ctx context.Context, tx store.Getter, ratedUserID string) (float64, int, error)
}

func (s stubRatingStore) Create(ctx context.Context, tx store.Execer, input store.RatingInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubRatingStore) AverageFor(ctx context.Context, tx store.Getter, ratedUserID string) (float64, int, error) {
	if s.averageForFn == nil {
		return 0, 0, nil
	}
	return s.averageForFn(ctx, tx, ratedUserID)
}
