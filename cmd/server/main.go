package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/n14-py/tusinitusineli/internal/config"
	"github.com/n14-py/tusinitusineli/internal/db"
	"github.com/n14-py/tusinitusineli/internal/handlers"
	"github.com/n14-py/tusinitusineli/internal/services"
	"github.com/n14-py/tusinitusineli/internal/store"
	"github.com/n14-py/tusinitusineli/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	listings := store.NewListingStore(database)
	transactions := store.NewTransactionStore(database)
	messages := store.NewMessageStore(database)
	ratings := store.NewRatingStore(database)
	adminLogs := store.NewAdminLogStore(database)
	movements := store.NewMovementStore(database)
	withdrawals := store.NewWithdrawalStore(database)
	stats := store.NewStatsStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	escrow := services.NewEscrowService(txRunner, users, listings, transactions, messages, adminLogs, hub)
	chat := services.NewChatService(txRunner, transactions, messages, users, hub)
	rating := services.NewRatingService(txRunner, ratings, transactions, users)
	wallet := services.NewWalletService(txRunner, users, movements, withdrawals, adminLogs, cfg.WithdrawalRate, cfg.WithdrawalMinCoins)
	admin := services.NewAdminService(txRunner, users, movements, adminLogs)

	handler := handlers.New(txRunner, cfg, users, listings, transactions, ratings, adminLogs, movements, withdrawals, stats, escrow, chat, rating, wallet, admin, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("marketplace API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
