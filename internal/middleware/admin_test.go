package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/n14-py/tusinitusineli/internal/models"
)

type stubUsers struct {
	user models.User
	err  error
}

func (s stubUsers) GetByID(context.Context, string) (models.User, error) {
	return s.user, s.err
}

func serveWithUser(t *testing.T, mw func(http.Handler) http.Handler, userID string) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != "" {
		req = req.WithContext(WithUserID(req.Context(), userID))
	}
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)
	return rr
}

func TestRequireActiveBannedAccount(t *testing.T) {
	mw := RequireActive(stubUsers{user: models.User{ID: "user-1", IsBanned: true}})
	if rr := serveWithUser(t, mw, "user-1"); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireActivePassesActiveAccount(t *testing.T) {
	mw := RequireActive(stubUsers{user: models.User{ID: "user-1"}})
	if rr := serveWithUser(t, mw, "user-1"); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequireActiveNoContext(t *testing.T) {
	mw := RequireActive(stubUsers{})
	if rr := serveWithUser(t, mw, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	mw := RequireAdmin(stubUsers{user: models.User{ID: "user-1", Role: models.RoleUser}})
	if rr := serveWithUser(t, mw, "user-1"); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireAdminPassesAdmin(t *testing.T) {
	mw := RequireAdmin(stubUsers{user: models.User{ID: "admin-1", Role: models.RoleAdmin}})
	if rr := serveWithUser(t, mw, "admin-1"); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
