package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-shop/permissions"
	"go-shop/tokens"
	"go-shop/utils"
)

// Key type for context
type contextKey string

const claimsContextKey = contextKey("claims")

// ClaimsFromContext returns the verified identity attached by AuthPermission.
// The second result is false on public routes reached without a token.
func ClaimsFromContext(ctx context.Context) (*tokens.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*tokens.Claims)
	return claims, ok
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthPermission admits a request when the verified caller holds the required
// permission, holds the admin wildcard, or the route is self-scoped (the
// identity itself is the authorization). Routes marked public pass through
// without a token; everything else without one is rejected.
func AuthPermission(ts *tokens.Service, required string, authMe, isPublic bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				if isPublic {
					next.ServeHTTP(w, r)
					return
				}
				utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
				return
			}

			claims, err := ts.Verify(r.Context(), token, tokens.Access)
			if err != nil {
				utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
				return
			}

			if permissions.Has(claims.Permissions, required) ||
				permissions.IsAdmin(claims.Permissions) ||
				authMe {
				ctx := context.WithValue(r.Context(), claimsContextKey, claims)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		})
	}
}
