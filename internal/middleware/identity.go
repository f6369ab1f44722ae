package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"eventip/internal/models"
)

type contextKey string

const (
	IdentityContextKey contextKey = "identity"
)

// IdentitySource reads the signed-in identity from a request
type IdentitySource interface {
	Current(r *http.Request) *models.Identity
}

// IdentityMiddleware loads the session identity and adds it to the request context
func IdentityMiddleware(source IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := source.Current(r)
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetIdentityContext(r.Context(), identity)))
		})
	}
}

// RequireAdmin rejects requests without an admin identity
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetIdentityFromContext(r.Context()).IsAdmin() {
			writeJSONError(w, http.StatusUnauthorized, "Admin sign-in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentityFromContext retrieves the identity from request context
func GetIdentityFromContext(ctx context.Context) *models.Identity {
	identity, ok := ctx.Value(IdentityContextKey).(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

// SetIdentityContext sets the identity in the context
func SetIdentityContext(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
