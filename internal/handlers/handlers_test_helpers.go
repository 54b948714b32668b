package handlers

import (
	"context"

	"github.com/n14-py/tusinitusineli/internal/config"
	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/services"
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
	createFn        func(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	getByIDFn       func(ctx context.Context, userID string) (models.User, error)
	getByEmailFn    func(ctx context.Context, email string) (models.User, error)
	getByUsernameFn func(ctx context.Context, username string) (models.User, error)
	existsFn        func(ctx context.Context, username string) (bool, error)
	listAllFn       func(ctx context.Context, limit, offset int) ([]models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{Email: email}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if s.getByUsernameFn == nil {
		return models.User{Username: username}, nil
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) Exists(ctx context.Context, username string) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, username)
}

func (s stubUserStore) ListAll(ctx context.Context, limit, offset int) ([]models.User, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubEscrowService struct {
	purchaseFn        func(ctx context.Context, buyerID, listingID string) (string, error)
	confirmDeliveryFn func(ctx context.Context, actorID, transactionID string) error
	raiseDisputeFn    func(ctx context.Context, actorID, transactionID string) error
	adminRefundFn     func(ctx context.Context, adminID, transactionID string) error
	adminReleaseFn    func(ctx context.Context, adminID, transactionID string) error
	deleteListingFn   func(ctx context.Context, adminID, listingID string) error
}

func (s stubEscrowService) Purchase(ctx context.Context, buyerID, listingID string) (string, error) {
	return s.purchaseFn(ctx, buyerID, listingID)
}

func (s stubEscrowService) ConfirmDelivery(ctx context.Context, actorID, transactionID string) error {
	return s.confirmDeliveryFn(ctx, actorID, transactionID)
}

func (s stubEscrowService) RaiseDispute(ctx context.Context, actorID, transactionID string) error {
	return s.raiseDisputeFn(ctx, actorID, transactionID)
}

func (s stubEscrowService) AdminRefund(ctx context.Context, adminID, transactionID string) error {
	return s.adminRefundFn(ctx, adminID, transactionID)
}

func (s stubEscrowService) AdminRelease(ctx context.Context, adminID, transactionID string) error {
	return s.adminReleaseFn(ctx, adminID, transactionID)
}

func (s stubEscrowService) DeleteListing(ctx context.Context, adminID, listingID string) error {
	return s.deleteListingFn(ctx, adminID, listingID)
}

type stubChatService struct {
	postFn         func(ctx context.Context, senderID, transactionID string, body, imageURL *string) error
	historyFn      func(ctx context.Context, requesterID string, isAdmin bool, transactionID string) ([]store.MessageWithSender, error)
	canSubscribeFn func(ctx context.Context, userID, transactionID string) (bool, error)
}

func (s stubChatService) Post(ctx context.Context, senderID, transactionID string, body, imageURL *string) error {
	return s.postFn(ctx, senderID, transactionID, body, imageURL)
}

func (s stubChatService) History(ctx context.Context, requesterID string, isAdmin bool, transactionID string) ([]store.MessageWithSender, error) {
	return s.historyFn(ctx, requesterID, isAdmin, transactionID)
}

func (s stubChatService) CanSubscribe(ctx context.Context, userID, transactionID string) (bool, error) {
	return s.canSubscribeFn(ctx, userID, transactionID)
}

type stubWalletService struct {
	robloxCreditFn      func(ctx context.Context, username string, amount int64) (int64, error)
	requestWithdrawalFn func(ctx context.Context, userID string, amountCoins int64) (string, error)
	processWithdrawalFn func(ctx context.Context, adminID, withdrawalID string) error
	rejectWithdrawalFn  func(ctx context.Context, adminID, withdrawalID string) error
}

func (s stubWalletService) RobloxCredit(ctx context.Context, username string, amount int64) (int64, error) {
	return s.robloxCreditFn(ctx, username, amount)
}

func (s stubWalletService) RequestWithdrawal(ctx context.Context, userID string, amountCoins int64) (string, error) {
	return s.requestWithdrawalFn(ctx, userID, amountCoins)
}

func (s stubWalletService) ProcessWithdrawal(ctx context.Context, adminID, withdrawalID string) error {
	return s.processWithdrawalFn(ctx, adminID, withdrawalID)
}

func (s stubWalletService) RejectWithdrawal(ctx context.Context, adminID, withdrawalID string) error {
	return s.rejectWithdrawalFn(ctx, adminID, withdrawalID)
}

type stubRatingService struct {
	rateFn func(ctx context.Context, req services.RateRequest) error
}

func (s stubRatingService) Rate(ctx context.Context, req services.RateRequest) error {
	return s.rateFn(ctx, req)
}

type stubAdminService struct {
	grantFn     func(ctx context.Context, adminID, userID string, amount int64) error
	toggleBanFn func(ctx context.Context, adminID, userID string) (bool, error)
}

func (s stubAdminService) GrantCurrency(ctx context.Context, adminID, userID string, amount int64) error {
	return s.grantFn(ctx, adminID, userID, amount)
}

func (s stubAdminService) ToggleBan(ctx context.Context, adminID, userID string) (bool, error) {
	return s.toggleBanFn(ctx, adminID, userID)
}

func newTestHandler(cfg config.Config, users UserStore, escrow EscrowService, chat ChatService, rating RatingService, wallet WalletService, admin AdminService) *Handler {
	return New(fakeTxRunner{}, cfg, users, nil, nil, nil, nil, nil, nil, nil, escrow, chat, rating, wallet, admin, websocket.NewHub())
}
