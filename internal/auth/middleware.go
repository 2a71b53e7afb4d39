package auth

import (
	"canteen-service/internal/canteen"
	"canteen-service/internal/models"
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
)

type contextKey struct{}

func WithActor(ctx context.Context, actor canteen.Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFrom returns the actor stored by Authenticate.
func ActorFrom(ctx context.Context) (canteen.Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(canteen.Actor)
	return actor, ok
}

// Authenticate requires a valid "Bearer <token>" Authorization header and
// stores the caller in the request context.
func (t *Tokens) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			deny(w, http.StatusUnauthorized, "unauthorized", "no authorization header provided")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			deny(w, http.StatusUnauthorized, "unauthorized", "invalid authorization format")
			return
		}

		claims, err := t.ParseToken(token)
		if err != nil {
			deny(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		ctx := WithActor(r.Context(), canteen.Actor{ID: claims.UserID, Role: claims.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets through only authenticated callers holding one of roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			if !slices.Contains(roles, actor.Role) {
				deny(w, http.StatusForbidden, "forbidden", "role not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}
