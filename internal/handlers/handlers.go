package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/n14-py/tusinitusineli/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service sentinels onto the HTTP surface.
// ErrInvalidState gets 409 so clients can tell a lost race from a bad request.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "insufficient_funds")
	case errors.Is(err, services.ErrNotAvailable):
		respondError(w, http.StatusBadRequest, "listing_not_available")
	case errors.Is(err, services.ErrOwnListing):
		respondError(w, http.StatusBadRequest, "cannot_buy_own_listing")
	case errors.Is(err, services.ErrBelowMinimum):
		respondError(w, http.StatusBadRequest, "below_withdrawal_minimum")
	case errors.Is(err, services.ErrNotMultiple):
		respondError(w, http.StatusBadRequest, "not_a_conversion_multiple")
	case errors.Is(err, services.ErrInvalidStars):
		respondError(w, http.StatusBadRequest, "invalid_stars")
	case errors.Is(err, services.ErrCommentTooLong):
		respondError(w, http.StatusBadRequest, "comment_too_long")
	case errors.Is(err, services.ErrNotCompleted):
		respondError(w, http.StatusBadRequest, "transaction_not_completed")
	case errors.Is(err, services.ErrSelfRating):
		respondError(w, http.StatusBadRequest, "cannot_rate_yourself")
	case errors.Is(err, services.ErrRatedNotCounter):
		respondError(w, http.StatusBadRequest, "rated_user_not_counterparty")
	case errors.Is(err, services.ErrNotParticipant):
		respondError(w, http.StatusForbidden, "not_a_participant")
	case errors.Is(err, services.ErrTargetIsAdmin):
		respondError(w, http.StatusForbidden, "cannot_ban_admin")
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, services.ErrInvalidState):
		respondError(w, http.StatusConflict, "invalid_state")
	case errors.Is(err, services.ErrAlreadyRated):
		respondError(w, http.StatusConflict, "already_rated")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error")
	}
}

func parsePage(r *http.Request) (limit, offset int) {
	limit = 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return limit, (page - 1) * limit
}
