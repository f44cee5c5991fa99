package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
)

// identityFromContext extracts the authenticated user's id and role from the
// verified JWT claims.
func identityFromContext(r *http.Request) (userID string, role user.Role, ok bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", false
	}

	userID, okID := claims["user_id"].(string)
	roleStr, okRole := claims["role"].(string)
	if !okID || !okRole || userID == "" {
		return "", "", false
	}

	return userID, user.Role(roleStr), true
}
