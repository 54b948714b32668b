package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/n14-py/tusinitusineli/internal/auth"
	"github.com/n14-py/tusinitusineli/internal/config"
	"github.com/n14-py/tusinitusineli/internal/middleware"
	"github.com/n14-py/tusinitusineli/internal/services"

	"github.com/go-chi/chi/v5"
)

func authedRequest(method, target, userID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestBuySuccess(t *testing.T) {
	handler := newTestHandler(config.Config{}, stubUserStore{}, stubEscrowService{
		purchaseFn: func(_ context.Context, buyerID, listingID string) (string, error) {
			if buyerID != "buyer-1" || listingID != "listing-1" {
				t.Fatalf("unexpected call: %s %s", buyerID, listingID)
			}
			return "tx-1", nil
		},
	}, nil, nil, nil, nil)

	req := withURLParam(authedRequest(http.MethodPost, "/listings/listing-1/buy", "buyer-1"), "id", "listing-1")
	rr := httptest.NewRecorder()
	handler.Buy(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
}

func TestBuyErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{services.ErrInsufficientFunds, http.StatusBadRequest},
		{services.ErrNotAvailable, http.StatusBadRequest},
		{services.ErrOwnListing, http.StatusBadRequest},
		{services.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		handler := newTestHandler(config.Config{}, stubUserStore{}, stubEscrowService{
			purchaseFn: func(context.Context, string, string) (string, error) {
				return "", tc.err
			},
		}, nil, nil, nil, nil)
		req := withURLParam(authedRequest(http.MethodPost, "/listings/listing-1/buy", "buyer-1"), "id", "listing-1")
		rr := httptest.NewRecorder()
		handler.Buy(rr, req)
		if rr.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rr.Code)
		}
	}
}

func TestConfirmDeliveryLostRaceIsConflict(t *testing.T) {
	handler := newTestHandler(config.Config{}, stubUserStore{}, stubEscrowService{
		confirmDeliveryFn: func(context.Context, string, string) error {
			return services.ErrInvalidState
		},
	}, nil, nil, nil, nil)

	req := withURLParam(authedRequest(http.MethodPost, "/transactions/tx-1/confirm-delivery", "buyer-1"), "id", "tx-1")
	rr := httptest.NewRecorder()
	handler.ConfirmDelivery(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestRateDuplicateIsConflict(t *testing.T) {
	handler := newTestHandler(config.Config{}, stubUserStore{}, nil, nil, stubRatingService{
		rateFn: func(context.Context, services.RateRequest) error {
			return services.ErrAlreadyRated
		},
	}, nil, nil)

	body := []byte(`{"rated_user_id":"seller-1","stars":5,"comment":"great"}`)
	req := httptest.NewRequest(http.MethodPost, "/transactions/tx-1/rate", bytes.NewReader(body))
	req = withURLParam(req.WithContext(middleware.WithUserID(req.Context(), "buyer-1")), "id", "tx-1")
	rr := httptest.NewRecorder()
	handler.Rate(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func mustToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(secret, userID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestWSTransactionMissingToken(t *testing.T) {
	handler := newTestHandler(config.Config{JWTSecret: "secret"}, stubUserStore{}, nil, stubChatService{}, nil, nil, nil)
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/ws/transactions/tx-1", nil), "id", "tx-1")
	rr := httptest.NewRecorder()
	handler.WSTransaction(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestWSTransactionNonParticipantForbidden(t *testing.T) {
	handler := newTestHandler(config.Config{JWTSecret: "secret"}, stubUserStore{}, nil, stubChatService{
		canSubscribeFn: func(context.Context, string, string) (bool, error) {
			return false, nil
		},
	}, nil, nil, nil)

	token := mustToken(t, "secret", "stranger")
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/ws/transactions/tx-1?token="+token, nil), "id", "tx-1")
	rr := httptest.NewRecorder()
	handler.WSTransaction(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}
