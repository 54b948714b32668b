package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/n14-py/tusinitusineli/internal/auth"
	"github.com/n14-py/tusinitusineli/internal/config"
	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/store"

	"github.com/lib/pq"
)

func authTestHandler(users UserStore) *Handler {
	return newTestHandler(config.Config{JWTSecret: "secret", TokenTTL: time.Minute}, users, nil, nil, nil, nil, nil)
}

func TestRegisterSuccess(t *testing.T) {
	handler := authTestHandler(stubUserStore{})
	body := []byte(`{"username":"brainlord","email":"brain@lord.dev","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp["token"] == "" {
		t.Fatal("expected a token")
	}
}

func TestRegisterValidation(t *testing.T) {
	handler := authTestHandler(stubUserStore{})
	cases := []string{
		`{"username":"x","email":"brain@lord.dev","password":"secret1"}`,
		`{"username":"brainlord","email":"not-an-email","password":"secret1"}`,
		`{"username":"brainlord","email":"brain@lord.dev","password":"short"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte(body)))
		rr := httptest.NewRecorder()
		handler.Register(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, rr.Code)
		}
	}
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	handler := authTestHandler(stubUserStore{
		createFn: func(context.Context, store.Execer, string, string, string, string) error {
			return &pq.Error{Code: "23505"}
		},
	})
	body := []byte(`{"username":"brainlord","email":"brain@lord.dev","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	handler := authTestHandler(stubUserStore{
		getByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	})
	body := []byte(`{"email":"brain@lord.dev","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginBannedAccount(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	handler := authTestHandler(stubUserStore{
		getByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{ID: "user-1", Email: email, PasswordHash: hash, IsBanned: true}, nil
		},
	})
	body := []byte(`{"email":"brain@lord.dev","password":"correct-horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	handler := authTestHandler(stubUserStore{
		getByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	})
	body := []byte(`{"email":"brain@lord.dev","password":"correct-horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	claims, err := auth.ParseToken("secret", resp["token"])
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected subject: %s", claims.UserID)
	}
}
