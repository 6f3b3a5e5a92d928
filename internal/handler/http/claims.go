package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-portal/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/jwt"
)

// callerClaims returns the authenticated caller or writes a 401.
func callerClaims(w http.ResponseWriter, r *http.Request) (jwt.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing access token")
		return jwt.Claims{}, false
	}
	return claims, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}
