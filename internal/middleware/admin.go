package middleware

import (
	"context"
	"net/http"

	"github.com/n14-py/tusinitusineli/internal/models"
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
}

// RequireActive rejects banned accounts. It sits behind Auth on every route
// that mutates state; a ban takes effect on the next request, not the next
// login.
func RequireActive(users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				http.Error(w, "unable to verify account", http.StatusInternalServerError)
				return
			}
			if user.IsBanned {
				http.Error(w, "account suspended", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				http.Error(w, "unable to verify admin", http.StatusInternalServerError)
				return
			}
			if user.Role != models.RoleAdmin {
				http.Error(w, "admin privileges required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
