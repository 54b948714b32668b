package handlers

import (
	"context"

	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/services"
	"github.com/n14-py/tusinitusineli/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.User, error)
}

type ListingStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ListingInput) error
	GetByID(ctx context.Context, listingID string) (models.Listing, error)
	IncrementViews(ctx context.Context, listingID string) error
	List(ctx context.Context, filter store.ListingFilter) ([]store.ListingWithSeller, int, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Listing, error)
	ListBySellerAndStatus(ctx context.Context, sellerID string, status models.ListingStatus) ([]models.Listing, error)
	ListAllWithSellers(ctx context.Context, limit, offset int) ([]store.ListingWithSeller, error)
}

type TransactionStore interface {
	GetDetail(ctx context.Context, transactionID string) (store.TransactionDetail, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]store.TransactionDetail, error)
	ListBySeller(ctx context.Context, sellerID string) ([]store.TransactionDetail, error)
	ListByStatus(ctx context.Context, status models.TransactionStatus) ([]store.TransactionDetail, error)
	ListAll(ctx context.Context, limit, offset int) ([]store.TransactionDetail, error)
	SumSpentByBuyer(ctx context.Context, buyerID string) (int64, error)
	SumEarnedBySeller(ctx context.Context, sellerID string) (int64, error)
	SumPendingForSeller(ctx context.Context, sellerID string) (int64, error)
}

type RatingStore interface {
	ListForUser(ctx context.Context, ratedUserID string) ([]store.RatingWithRater, error)
}

type AdminLogStore interface {
	List(ctx context.Context, limit, offset int) ([]models.AdminLog, error)
}

type MovementStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.CoinMovement, error)
}

type WithdrawalStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Withdrawal, error)
	ListByStatus(ctx context.Context, status models.WithdrawalStatus) ([]store.WithdrawalWithUser, error)
}

type StatsStore interface {
	Economic(ctx context.Context) (store.EconomicStats, error)
	Dashboard(ctx context.Context) (store.DashboardStats, error)
}

type EscrowService interface {
	Purchase(ctx context.Context, buyerID, listingID string) (string, error)
	ConfirmDelivery(ctx context.Context, actorID, transactionID string) error
	RaiseDispute(ctx context.Context, actorID, transactionID string) error
	AdminRefund(ctx context.Context, adminID, transactionID string) error
	AdminRelease(ctx context.Context, adminID, transactionID string) error
	DeleteListing(ctx context.Context, adminID, listingID string) error
}

type ChatService interface {
	Post(ctx context.Context, senderID, transactionID string, body, imageURL *string) error
	History(ctx context.Context, requesterID string, isAdmin bool, transactionID string) ([]store.MessageWithSender, error)
	CanSubscribe(ctx context.Context, userID, transactionID string) (bool, error)
}

type RatingService interface {
	Rate(ctx context.Context, req services.RateRequest) error
}

type WalletService interface {
	RobloxCredit(ctx context.Context, username string, amount int64) (int64, error)
	RequestWithdrawal(ctx context.Context, userID string, amountCoins int64) (string, error)
	ProcessWithdrawal(ctx context.Context, adminID, withdrawalID string) error
	RejectWithdrawal(ctx context.Context, adminID, withdrawalID string) error
}

type AdminService interface {
	GrantCurrency(ctx context.Context, adminID, userID string, amount int64) error
	ToggleBan(ctx context.Context, adminID, userID string) (bool, error)
}
