package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/atinyakov/TodoKeeper/internal/autherr"
	"github.com/atinyakov/TodoKeeper/internal/service"
)

type ctxKey string

const (
	userKey   ctxKey = "user"
	tokenKey  ctxKey = "token"
	expiryKey ctxKey = "expiry"
)

// Authenticator verifies bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}

// TokenAuth rejects requests without a valid bearer token. On success the
// user id, the token id and the token expiry are stored in the request
// context.
func TokenAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeError(w, http.StatusUnauthorized, autherr.New(autherr.InvalidToken, "missing bearer token"))
				return
			}

			claims, err := auth.Authenticate(r.Context(), strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				var aerr *autherr.Error
				if !errors.As(err, &aerr) {
					writeError(w, http.StatusInternalServerError, autherr.New(autherr.Internal, "internal error"))
					return
				}
				writeError(w, http.StatusUnauthorized, aerr)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, claims.Subject)
			ctx = context.WithValue(ctx, tokenKey, claims.ID)
			if claims.ExpiresAt != nil {
				ctx = context.WithValue(ctx, expiryKey, claims.ExpiresAt.Time)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, e *autherr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}

// GetUserIDFromContext extracts the authenticated user id from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(userKey).(string); ok {
		return s
	}
	return ""
}

// GetTokenFromContext returns the id and expiry of the bearer token that
// authenticated the request.
func GetTokenFromContext(ctx context.Context) (string, time.Time) {
	jti, _ := ctx.Value(tokenKey).(string)
	exp, _ := ctx.Value(expiryKey).(time.Time)
	return jti, exp
}
