package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
)

func requestWithRole(t *testing.T, role string) *http.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/", nil)

	token := jwt.New()
	require.NoError(t, token.Set("user_id", "user-1"))
	require.NoError(t, token.Set("role", role))
	return r.WithContext(jwtauth.NewContext(r.Context(), token, nil))
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequirePermission(t *testing.T) {
	t.Run("role holds permission", func(t *testing.T) {
		var called bool
		w := httptest.NewRecorder()
		RequirePermission(user.PermissionTimesheetApprove)(okHandler(&called)).
			ServeHTTP(w, requestWithRole(t, string(user.RolePayroll)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("role lacks permission", func(t *testing.T) {
		var called bool
		w := httptest.NewRecorder()
		RequirePermission(user.PermissionTimesheetApprove)(okHandler(&called)).
			ServeHTTP(w, requestWithRole(t, string(user.RoleRN)))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, called)
	})
}

func TestRequireAnyPermission(t *testing.T) {
	anyView := RequireAnyPermission(user.PermissionTimeclockViewOwn, user.PermissionTimeclockViewAll)

	t.Run("own-scope permission passes", func(t *testing.T) {
		var called bool
		w := httptest.NewRecorder()
		anyView(okHandler(&called)).ServeHTTP(w, requestWithRole(t, string(user.RoleCNA)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("all-scope permission passes", func(t *testing.T) {
		var called bool
		w := httptest.NewRecorder()
		anyView(okHandler(&called)).ServeHTTP(w, requestWithRole(t, string(user.RolePayroll)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		var called bool
		w := httptest.NewRecorder()
		anyView(okHandler(&called)).ServeHTTP(w, requestWithRole(t, "contractor"))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, called)
	})

	t.Run("missing claims rejected", func(t *testing.T) {
		var called bool
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		anyView(okHandler(&called)).ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, called)
	})
}
