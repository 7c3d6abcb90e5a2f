package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
)

// Identity resolves the caller from the token claims and the employees table
// and stores it with user.WithIdentity. The profile, store and reporting
// manager always come from the employee row, never from the token.
func Identity(employees employee.EmployeeRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, user.ErrUnauthorized)
				return
			}

			employeeID, _ := claims["employee_id"].(string)
			if employeeID == "" {
				response.HandleError(w, user.ErrEmployeeNotLinked)
				return
			}
			userID, _ := claims["user_id"].(string)

			emp, err := employees.GetByID(r.Context(), employeeID)
			if err != nil {
				if errors.Is(err, employee.ErrEmployeeNotFound) {
					response.HandleError(w, user.ErrEmployeeNotLinked)
					return
				}
				slog.Error("failed to load caller", "employee_id", employeeID, "error", err)
				response.HandleError(w, err)
				return
			}

			identity := emp.Identity(userID, parseRole(claims["role"]))
			next.ServeHTTP(w, r.WithContext(user.WithIdentity(r.Context(), identity)))
		})
	}
}

func parseRole(v interface{}) user.Role {
	s, _ := v.(string)
	switch role := user.Role(s); role {
	case user.RoleAdmin, user.RoleHR:
		return role
	default:
		return user.RoleEmployee
	}
}
