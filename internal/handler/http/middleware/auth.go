package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/upstream"
	"github.com/go-chi/jwtauth/v5"
)

type claimsKey struct{}

// AuthRequired rejects requests without a verified access token. The portal
// claims are stored on the context and the raw bearer token is forwarded to
// upstream calls made with the request context.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, raw, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.Unauthorized(w, "Missing access token")
			return
		}

		if tokenType, ok := raw["type"].(string); ok && tokenType != "access" {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		claims, err := jwt.ClaimsFromMap(raw)
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		if bearer := jwtauth.TokenFromHeader(r); bearer != "" {
			ctx = upstream.WithToken(ctx, bearer)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by AuthRequired.
func ClaimsFromContext(ctx context.Context) (jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(jwt.Claims)
	return claims, ok
}
