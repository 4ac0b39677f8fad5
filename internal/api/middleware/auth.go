package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/collabhub/hub/internal/authz"
	"github.com/collabhub/hub/internal/models"
	"github.com/collabhub/hub/internal/repository"
	"github.com/collabhub/hub/internal/services"
)

type actorKeyType string

const ActorKey actorKeyType = "actor"

// Auth validates a Bearer JWT and resolves the full actor from the account
// table. A token whose user no longer exists is rejected, so deleted
// accounts lose access immediately.
func Auth(hmacSecret []byte, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimSpace(ah[len("Bearer "):])
			userID, err := services.ParseSubject(tokenStr, hmacSecret)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			var u models.User
			if err := users.GetWithProfile(r.Context(), userID, &u); err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			actor := &authz.Actor{
				ID:          u.ID,
				Username:    u.Username,
				Email:       u.Email,
				IsSuperuser: u.IsSuperuser,
			}
			if u.Profile != nil {
				actor.DisplayName = u.Profile.DisplayName
			}
			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor returns the authenticated actor from context, or nil.
func GetActor(ctx context.Context) *authz.Actor {
	if v := ctx.Value(ActorKey); v != nil {
		if a, ok := v.(*authz.Actor); ok {
			return a
		}
	}
	return nil
}
