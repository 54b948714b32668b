package handlers

import (
	"net/http"

	"github.com/n14-py/tusinitusineli/internal/config"
	"github.com/n14-py/tusinitusineli/internal/db"
	"github.com/n14-py/tusinitusineli/internal/middleware"
	"github.com/n14-py/tusinitusineli/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner    db.TxRunner
	cfg         config.Config
	users       UserStore
	listings    ListingStore
	txs         TransactionStore
	ratings     RatingStore
	adminLogs   AdminLogStore
	movements   MovementStore
	withdrawals WithdrawalStore
	stats       StatsStore
	escrow      EscrowService
	chat        ChatService
	rating      RatingService
	wallet      WalletService
	admin       AdminService
	hub         *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, listings ListingStore, txs TransactionStore, ratings RatingStore, adminLogs AdminLogStore, movements MovementStore, withdrawals WithdrawalStore, stats StatsStore, escrow EscrowService, chat ChatService, rating RatingService, wallet WalletService, admin AdminService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:    txRunner,
		cfg:         cfg,
		users:       users,
		listings:    listings,
		txs:         txs,
		ratings:     ratings,
		adminLogs:   adminLogs,
		movements:   movements,
		withdrawals: withdrawals,
		stats:       stats,
		escrow:      escrow,
		chat:        chat,
		rating:      rating,
		wallet:      wallet,
		admin:       admin,
		hub:         hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := func(r chi.Router) chi.Router {
		return r.With(middleware.Auth(h.cfg.JWTSecret), middleware.RequireActive(h.users))
	}

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})

	router.Get("/listings", h.ListListings)
	router.Get("/listings/{id}", h.GetListing)
	router.Get("/profiles/{username}", h.GetProfile)
	authed(router).Post("/listings", h.CreateListing)
	authed(router).Post("/listings/{id}/buy", h.Buy)

	authed(router).Get("/transactions/{id}", h.GetTransaction)
	authed(router).Post("/transactions/{id}/confirm-delivery", h.ConfirmDelivery)
	authed(router).Post("/transactions/{id}/raise-dispute", h.RaiseDispute)
	authed(router).Post("/transactions/{id}/rate", h.Rate)
	authed(router).Get("/transactions/{id}/messages", h.ListMessages)
	authed(router).Post("/transactions/{id}/messages", h.PostMessage)
	router.Get("/ws/transactions/{id}", h.WSTransaction)

	authed(router).Get("/my/listings", h.MyListings)
	authed(router).Get("/my/purchases", h.MyPurchases)
	authed(router).Get("/my/sales", h.MySales)
	authed(router).Get("/my/movements", h.MyMovements)
	authed(router).Post("/withdrawals", h.RequestWithdrawal)
	authed(router).Get("/withdrawals", h.MyWithdrawals)

	// Inbound bridge from the game platform; guarded by a shared secret
	// instead of a session.
	router.Post("/api/roblox/credit", h.RobloxCredit)
	router.Get("/api/roblox/users/{username}/exists", h.RobloxUserExists)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Use(middleware.RequireAdmin(h.users))
		r.Get("/stats", h.AdminStats)
		r.Get("/users", h.AdminListUsers)
		r.Post("/users/{id}/grant", h.AdminGrantCurrency)
		r.Post("/users/{id}/toggle-ban", h.AdminToggleBan)
		r.Get("/disputes", h.AdminListDisputes)
		r.Post("/transactions/{id}/refund", h.AdminRefund)
		r.Post("/transactions/{id}/release-payment", h.AdminReleasePayment)
		r.Get("/transactions", h.AdminListTransactions)
		r.Delete("/listings/{id}", h.AdminDeleteListing)
		r.Get("/listings", h.AdminListListings)
		r.Get("/withdrawals", h.AdminListWithdrawals)
		r.Post("/withdrawals/{id}/process", h.AdminProcessWithdrawal)
		r.Post("/withdrawals/{id}/reject", h.AdminRejectWithdrawal)
		r.Get("/logs", h.AdminListLogs)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
