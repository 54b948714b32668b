package store

import (
	"context"

	"github.com/n14-py/tusinitusineli/internal/models"
)

// StatsStore recomputes dashboard aggregates from source of truth on every
// read instead of maintaining denormalized counters.
type StatsStore struct {
	db DB
}

type EconomicStats struct {
	TotalCurrency    int64 `db:"total_currency" json:"total_currency"`
	CurrencyInEscrow int64 `db:"currency_in_escrow" json:"currency_in_escrow"`
	Volume24h        int64 `db:"volume_24h" json:"volume_24h"`
	NewUsersToday    int64 `db:"new_users_today" json:"new_users_today"`
	NewListingsToday int64 `db:"new_listings_today" json:"new_listings_today"`
}

type DashboardStats struct {
	TotalUsers        int64 `db:"total_users" json:"total_users"`
	TotalListings     int64 `db:"total_listings" json:"total_listings"`
	CompletedSales    int64 `db:"completed_sales" json:"completed_sales"`
	OpenDisputes      int64 `db:"open_disputes" json:"open_disputes"`
	PendingWithdrawal int64 `db:"pending_withdrawals" json:"pending_withdrawals"`
}

func NewStatsStore(db DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) Economic(ctx context.Context) (EconomicStats, error) {
	var stats EconomicStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COALESCE(SUM(balance), 0) FROM users) AS total_currency,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE status IN ($1, $2)) AS currency_in_escrow,
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE status = $3 AND updated_at >= date_trunc('day', NOW())) AS volume_24h,
			(SELECT COUNT(*) FROM users WHERE created_at >= date_trunc('day', NOW())) AS new_users_today,
			(SELECT COUNT(*) FROM listings WHERE created_at >= date_trunc('day', NOW())) AS new_listings_today
	`, models.TransactionPendingDelivery, models.TransactionInDispute, models.TransactionCompleted)
	return stats, err
}

func (s *StatsStore) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM listings) AS total_listings,
			(SELECT COUNT(*) FROM transactions WHERE status = $1) AS completed_sales,
			(SELECT COUNT(*) FROM transactions WHERE status = $2) AS open_disputes,
			(SELECT COUNT(*) FROM withdrawals WHERE status = $3) AS pending_withdrawals
	`, models.TransactionCompleted, models.TransactionInDispute, models.WithdrawalPending)
	return stats, err
}
