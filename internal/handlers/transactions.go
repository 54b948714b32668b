package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/n14-py/tusinitusineli/internal/auth"
	"github.com/n14-py/tusinitusineli/internal/middleware"
	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/services"
	"github.com/n14-py/tusinitusineli/internal/websocket"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	listingID := chi.URLParam(r, "id")
	transactionID, err := h.escrow.Purchase(r.Context(), buyerID, listingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"transaction_id": transactionID})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	transactionID := chi.URLParam(r, "id")
	detail, err := h.txs.GetDetail(r.Context(), transactionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if detail.BuyerID != userID && detail.SellerID != userID {
		user, err := h.users.GetByID(r.Context(), userID)
		if err != nil || user.Role != models.RoleAdmin {
			respondError(w, http.StatusForbidden, "not_a_participant")
			return
		}
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *Handler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.escrow.ConfirmDelivery(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.TransactionCompleted)})
}

func (h *Handler) RaiseDispute(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.escrow.RaiseDispute(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.TransactionInDispute)})
}

type rateRequest struct {
	RatedUserID string `json:"rated_user_id"`
	Stars       int    `json:"stars"`
	Comment     string `json:"comment"`
}

func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.rating.Rate(r.Context(), services.RateRequest{
		RaterID:       userID,
		TransactionID: chi.URLParam(r, "id"),
		RatedUserID:   req.RatedUserID,
		Stars:         req.Stars,
		Comment:       req.Comment,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "rated"})
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to verify account")
		return
	}
	messages, err := h.chat.History(r.Context(), userID, user.Role == models.RoleAdmin, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

type postMessageRequest struct {
	Body     *string `json:"body"`
	ImageURL *string `json:"image_url"`
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.chat.Post(r.Context(), userID, chi.URLParam(r, "id"), req.Body, req.ImageURL); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "sent"})
}

// WSTransaction upgrades a participant onto the transaction's chat room.
// Browsers cannot set an Authorization header on a websocket dial, so the
// token rides in the query string.
func (h *Handler) WSTransaction(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	transactionID := chi.URLParam(r, "id")
	allowed, err := h.chat.CanSubscribe(r.Context(), claims.UserID, transactionID)
	if err != nil {
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if !allowed {
		respondError(w, http.StatusForbidden, "not_a_participant")
		return
	}
	ctx := r.Context()
	post := func(userID string, in websocket.Inbound) {
		_ = h.chat.Post(ctx, userID, transactionID, in.Body, in.ImageURL)
	}
	websocket.ServeWS(w, r, h.hub, transactionID, claims.UserID, post)
}

func (h *Handler) MyPurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.txs.ListByBuyer(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list purchases")
		return
	}
	spent, err := h.txs.SumSpentByBuyer(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to total purchases")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": rows,
		"total_spent":  spent,
	})
}

func (h *Handler) MySales(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.txs.ListBySeller(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}
	earned, err := h.txs.SumEarnedBySeller(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to total sales")
		return
	}
	pending, err := h.txs.SumPendingForSeller(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to total escrow")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions":   rows,
		"total_earned":   earned,
		"pending_escrow": pending,
	})
}

func (h *Handler) MyMovements(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.movements.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list movements")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"movements": rows})
}
