package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/n14-py/tusinitusineli/internal/middleware"
	"github.com/n14-py/tusinitusineli/internal/services"

	"github.com/go-chi/chi/v5"
)

type withdrawalRequest struct {
	AmountCoins int64 `json:"amount_coins"`
}

func (h *Handler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	withdrawalID, err := h.wallet.RequestWithdrawal(r.Context(), userID, req.AmountCoins)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": withdrawalID})
}

func (h *Handler) MyWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.withdrawals.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list withdrawals")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"withdrawals": rows})
}

type robloxCreditRequest struct {
	Secret   string `json:"secret"`
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
}

// RobloxCredit is the inbound half of the recharge bridge. The game server
// calls it after a player pays in-experience; the shared secret is the only
// authentication.
func (h *Handler) RobloxCredit(w http.ResponseWriter, r *http.Request) {
	var req robloxCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if h.cfg.RobloxAPISecret == "" || req.Secret != h.cfg.RobloxAPISecret {
		respondError(w, http.StatusForbidden, "invalid secret")
		return
	}
	newBalance, err := h.wallet.RobloxCredit(r.Context(), req.Username, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case errors.Is(err, services.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "user_not_found")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "credited",
		"new_balance": newBalance,
	})
}

// RobloxUserExists lets the game server check a username before charging a
// player. It always answers 200 with a boolean so the caller never has to
// special-case a miss.
func (h *Handler) RobloxUserExists(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	exists, err := h.users.Exists(r.Context(), username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}
