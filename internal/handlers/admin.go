package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/n14-py/tusinitusineli/internal/middleware"
	"github.com/n14-py/tusinitusineli/internal/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	economic, err := h.stats.Economic(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load economic stats")
		return
	}
	dashboard, err := h.stats.Dashboard(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"economy":   economic,
		"dashboard": dashboard,
	})
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)
	rows, err := h.users.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": rows})
}

type grantRequest struct {
	Amount int64 `json:"amount"`
}

func (h *Handler) AdminGrantCurrency(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.admin.GrantCurrency(r.Context(), adminID, chi.URLParam(r, "id"), req.Amount); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "granted"})
}

func (h *Handler) AdminToggleBan(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	banned, err := h.admin.ToggleBan(r.Context(), adminID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"is_banned": banned})
}

func (h *Handler) AdminListDisputes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.txs.ListByStatus(r.Context(), models.TransactionInDispute)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list disputes")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"disputes": rows})
}

func (h *Handler) AdminRefund(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.escrow.AdminRefund(r.Context(), adminID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.TransactionCancelled)})
}

func (h *Handler) AdminReleasePayment(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.escrow.AdminRelease(r.Context(), adminID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.TransactionCompleted)})
}

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)
	rows, err := h.txs.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": rows})
}

func (h *Handler) AdminDeleteListing(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.escrow.DeleteListing(r.Context(), adminID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AdminListListings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)
	rows, err := h.listings.ListAllWithSellers(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list listings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"listings": rows})
}

func (h *Handler) AdminListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := models.WithdrawalStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.WithdrawalPending
	}
	rows, err := h.withdrawals.ListByStatus(r.Context(), status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list withdrawals")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"withdrawals": rows})
}

func (h *Handler) AdminProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.wallet.ProcessWithdrawal(r.Context(), adminID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.WithdrawalProcessed)})
}

func (h *Handler) AdminRejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.wallet.RejectWithdrawal(r.Context(), adminID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.WithdrawalRejected)})
}

func (h *Handler) AdminListLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)
	rows, err := h.adminLogs.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"logs": rows})
}
