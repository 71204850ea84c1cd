package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dpavlenko/regvault/internal/common"
	"github.com/dpavlenko/regvault/internal/server/auth"
)

type contextKey string

const userIDKey contextKey = "userID"

// Authenticator verifies the bearer token on protected routes and puts
// the authenticated user id into the request context.
func Authenticator(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AccessTokenHeaderName)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, err := auth.GetUserIDFromToken(token, secret)
			if err != nil {
				writeServiceError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userIDFromContext returns the id stored by Authenticator. The empty
// string means the route was reached without the middleware.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
