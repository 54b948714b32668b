package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/n14-py/tusinitusineli/internal/config"
	"github.com/n14-py/tusinitusineli/internal/services"
)

func walletTestHandler(wallet WalletService, users UserStore) *Handler {
	cfg := config.Config{RobloxAPISecret: "game-secret"}
	return newTestHandler(cfg, users, nil, nil, nil, wallet, nil)
}

func postCredit(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/roblox/credit", bytes.NewReader([]byte(body)))
	rr := httptest.NewRecorder()
	handler.RobloxCredit(rr, req)
	return rr
}

func TestRobloxCreditBadSecret(t *testing.T) {
	handler := walletTestHandler(stubWalletService{}, stubUserStore{})
	rr := postCredit(t, handler, `{"secret":"wrong","username":"brainlord","amount":100}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRobloxCreditInvalidAmount(t *testing.T) {
	handler := walletTestHandler(stubWalletService{
		robloxCreditFn: func(context.Context, string, int64) (int64, error) {
			return 0, services.ErrInvalidAmount
		},
	}, stubUserStore{})
	rr := postCredit(t, handler, `{"secret":"game-secret","username":"brainlord","amount":-5}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRobloxCreditUnknownUser(t *testing.T) {
	handler := walletTestHandler(stubWalletService{
		robloxCreditFn: func(context.Context, string, int64) (int64, error) {
			return 0, services.ErrUserNotFound
		},
	}, stubUserStore{})
	rr := postCredit(t, handler, `{"secret":"game-secret","username":"ghost","amount":100}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestRobloxCreditSuccess(t *testing.T) {
	handler := walletTestHandler(stubWalletService{
		robloxCreditFn: func(_ context.Context, username string, amount int64) (int64, error) {
			if username != "brainlord" || amount != 100 {
				t.Fatalf("unexpected call: %s %d", username, amount)
			}
			return 350, nil
		},
	}, stubUserStore{})
	rr := postCredit(t, handler, `{"secret":"game-secret","username":"brainlord","amount":100}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp["new_balance"].(float64) != 350 {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestRobloxCreditEmptyConfiguredSecret(t *testing.T) {
	handler := newTestHandler(config.Config{}, stubUserStore{}, nil, nil, nil, stubWalletService{}, nil)
	rr := postCredit(t, handler, `{"secret":"","username":"brainlord","amount":100}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("an unset secret must reject everything, got %d", rr.Code)
	}
}

func TestRobloxUserExistsAlways200(t *testing.T) {
	for username, want := range map[string]bool{"brainlord": true, "ghost": false} {
		handler := walletTestHandler(stubWalletService{}, stubUserStore{
			existsFn: func(_ context.Context, u string) (bool, error) {
				return u == "brainlord", nil
			},
		})
		router := handler.Routes()
		req := httptest.NewRequest(http.MethodGet, "/api/roblox/users/"+username+"/exists", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", username, rr.Code)
		}
		var resp map[string]bool
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if resp["exists"] != want {
			t.Fatalf("%s: expected exists=%t, got %#v", username, want, resp)
		}
	}
}
