package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/n14-py/tusinitusineli/internal/middleware"
	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/store"
	"github.com/n14-py/tusinitusineli/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type createListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity"`
}

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateTitle(req.Title); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price <= 0 {
		respondError(w, http.StatusBadRequest, "price must be positive")
		return
	}
	listingID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.listings.Create(r.Context(), tx, store.ListingInput{
			ID:          listingID,
			SellerID:    userID,
			Title:       req.Title,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			Price:       req.Price,
			Category:    req.Category,
			Rarity:      req.Rarity,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": listingID})
}

func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)
	query := r.URL.Query()
	rows, total, err := h.listings.List(r.Context(), store.ListingFilter{
		Query:    query.Get("q"),
		Category: query.Get("category"),
		Rarity:   query.Get("rarity"),
		Status:   models.ListingAvailable,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list listings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"listings": rows,
		"total":    total,
	})
}

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	listing, err := h.listings.GetByID(r.Context(), listingID)
	if err != nil {
		respondError(w, http.StatusNotFound, "listing not found")
		return
	}
	if err := h.listings.IncrementViews(r.Context(), listingID); err == nil {
		listing.Views++
	}
	seller, err := h.users.GetByID(r.Context(), listing.SellerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load seller")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"listing": listing,
		"seller": map[string]any{
			"id":             seller.ID,
			"username":       seller.Username,
			"average_rating": seller.AverageRating,
			"total_sales":    seller.TotalSales,
		},
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	listings, err := h.listings.ListBySellerAndStatus(r.Context(), user.ID, models.ListingAvailable)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load listings")
		return
	}
	ratings, err := h.ratings.ListForUser(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load ratings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"profile": map[string]any{
			"id":              user.ID,
			"username":        user.Username,
			"average_rating":  user.AverageRating,
			"total_sales":     user.TotalSales,
			"total_purchases": user.TotalPurchases,
			"created_at":      user.CreatedAt,
		},
		"listings": listings,
		"ratings":  ratings,
	})
}

func (h *Handler) MyListings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.listings.ListBySeller(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list listings")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"listings": rows})
}
