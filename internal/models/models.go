package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID             string    `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Balance        int64     `db:"balance" json:"balance"`
	ProfilePic     string    `db:"profile_pic" json:"profile_pic"`
	IsBanned       bool      `db:"is_banned" json:"is_banned"`
	Role           Role      `db:"role" json:"role"`
	AverageRating  string    `db:"average_rating" json:"average_rating"`
	TotalSales     int       `db:"total_sales" json:"total_sales"`
	TotalPurchases int       `db:"total_purchases" json:"total_purchases"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type ListingStatus string

const (
	ListingAvailable     ListingStatus = "available"
	ListingInTransaction ListingStatus = "in_transaction"
	// ListingSold is reserved; the current flow leaves a sold listing in
	// in_transaction once its transaction completes.
	ListingSold     ListingStatus = "sold"
	ListingDelisted ListingStatus = "delisted"
)

type ListingType string

const (
	ListingFixedPrice ListingType = "fixed_price"
	// ListingAuction is reserved; no bidding logic exists yet.
	ListingAuction ListingType = "auction"
)

type Listing struct {
	ID          string        `db:"id" json:"id"`
	SellerID    string        `db:"seller_id" json:"seller_id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	ImageURL    string        `db:"image_url" json:"image_url"`
	ListingType ListingType   `db:"listing_type" json:"listing_type"`
	Price       int64         `db:"price" json:"price"`
	Status      ListingStatus `db:"status" json:"status"`
	Category    string        `db:"category" json:"category"`
	Rarity      string        `db:"rarity" json:"rarity"`
	Views       int           `db:"views" json:"views"`

	// Auction fields, dormant until bidding ships.
	StartBid        *int64     `db:"start_bid" json:"start_bid,omitempty"`
	CurrentBid      *int64     `db:"current_bid" json:"current_bid,omitempty"`
	HighestBidderID *string    `db:"highest_bidder_id" json:"highest_bidder_id,omitempty"`
	AuctionEndsAt   *time.Time `db:"auction_ends_at" json:"auction_ends_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type TransactionStatus string

const (
	TransactionPendingDelivery TransactionStatus = "pending_delivery"
	// TransactionDeliveryConfirmed is reserved; the current flow settles
	// directly from pending_delivery.
	TransactionDeliveryConfirmed TransactionStatus = "delivery_confirmed"
	TransactionCompleted         TransactionStatus = "completed"
	TransactionInDispute         TransactionStatus = "in_dispute"
	TransactionCancelled         TransactionStatus = "cancelled"
)

// Terminal reports whether no further transition is defined from s.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionCompleted || s == TransactionCancelled
}

// Transaction is the escrow record. ListingID goes NULL when an administrator
// deletes the listing; the transaction itself is never deleted and stays
// readable.
type Transaction struct {
	ID        string            `db:"id" json:"id"`
	BuyerID   string            `db:"buyer_id" json:"buyer_id"`
	SellerID  string            `db:"seller_id" json:"seller_id"`
	ListingID *string           `db:"listing_id" json:"listing_id,omitempty"`
	Amount    int64             `db:"amount" json:"amount"`
	Status    TransactionStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// Message is one entry in a transaction's append-only chat log.
// A nil SenderID marks a system message.
type Message struct {
	ID            string    `db:"id" json:"id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	SenderID      *string   `db:"sender_id" json:"sender_id,omitempty"`
	Body          *string   `db:"body" json:"body,omitempty"`
	ImageURL      *string   `db:"image_url" json:"image_url,omitempty"`
	Seq           int64     `db:"seq" json:"seq"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

func (m Message) IsSystem() bool {
	return m.SenderID == nil
}

type Rating struct {
	ID            string    `db:"id" json:"id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	RaterID       string    `db:"rater_id" json:"rater_id"`
	RatedUserID   string    `db:"rated_user_id" json:"rated_user_id"`
	Stars         int       `db:"stars" json:"stars"`
	Comment       string    `db:"comment" json:"comment"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type AdminLog struct {
	ID           string    `db:"id" json:"id"`
	AdminID      *string   `db:"admin_id" json:"admin_id,omitempty"`
	Action       string    `db:"action" json:"action"`
	TargetUserID *string   `db:"target_user_id" json:"target_user_id,omitempty"`
	Details      string    `db:"details" json:"details"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CoinMovement records an external credit for statements; the authoritative
// balance is users.balance.
type CoinMovement struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Amount    int64     `db:"amount" json:"amount"`
	Source    string    `db:"source" json:"source"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalProcessed WithdrawalStatus = "processed"
	WithdrawalRejected  WithdrawalStatus = "rejected"
)

type Withdrawal struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"user_id"`
	AmountCoins int64            `db:"amount_coins" json:"amount_coins"`
	Robux       int64            `db:"robux" json:"robux"`
	Status      WithdrawalStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
