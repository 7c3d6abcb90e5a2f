package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
	"github.com/retailhr/hr-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token. It runs
// after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, user.ErrUnauthorized)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, user.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
