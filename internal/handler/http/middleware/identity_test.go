package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/jwt"
	"github.com/retailhr/hr-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T, jwtSvc jwt.Service, employees employee.EmployeeRepository) (http.Handler, *user.Identity) {
	t.Helper()
	var seen user.Identity
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := user.IdentityFromContext(r.Context()); id != nil {
			seen = *id
		}
		w.WriteHeader(http.StatusNoContent)
	})
	h := jwtauth.Verifier(jwtSvc.JWTAuth())(AuthRequired(Identity(employees)(final)))
	return h, &seen
}

func TestIdentity(t *testing.T) {
	db := memory.NewDB()
	storeID := db.PutStore(store.Store{Name: "Andheri"}, store.Calendar{WeeklyOff: "Sunday"})
	emp := db.PutEmployee(employee.Employee{Name: "Asha", StoreID: &storeID, Profile: user.ProfileCoordinator})
	employees := memory.NewEmployeeRepository(db)
	jwtSvc := jwt.NewJWTService("test-secret", time.Hour)

	h, seen := chain(t, jwtSvc, employees)

	t.Run("resolves profile and store from the employee row", func(t *testing.T) {
		token, _, err := jwtSvc.GenerateAccessToken("user-1", emp, user.RoleHR)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, emp, seen.EmployeeID)
		assert.Equal(t, user.RoleHR, seen.Role)
		assert.Equal(t, user.ProfileCoordinator, seen.Profile)
		require.NotNil(t, seen.StoreID)
		assert.Equal(t, storeID, *seen.StoreID)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("stream token is not an access token", func(t *testing.T) {
		token, _, err := jwtSvc.GenerateSSEToken(emp)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown employee", func(t *testing.T) {
		token, _, err := jwtSvc.GenerateAccessToken("user-2", "00000000-0000-0000-0000-000000000000", user.RoleEmployee)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown role falls back to employee", func(t *testing.T) {
		assert.Equal(t, user.RoleEmployee, parseRole("owner"))
		assert.Equal(t, user.RoleEmployee, parseRole(nil))
		assert.Equal(t, user.RoleAdmin, parseRole("admin"))
	})
}
