package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/zonoapp/workforce/internal"
	"github.com/zonoapp/workforce/internal/auth"
	employeeDatamodel "github.com/zonoapp/workforce/internal/core/datamodel/employee"
	"github.com/zonoapp/workforce/pkg/logger"
)

// TokenValidator validates an access token and returns its claims.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*auth.Claims, error)
}

// EmployeeResolver maps a user to their employee record in the tenant,
// nil when none exists.
type EmployeeResolver interface {
	FindByUser(tenantID, userID int64) (*employeeDatamodel.Employee, error)
}

// Authentication validates the bearer token and puts the resolved
// Actor on the request context. The employee link is looked up per
// request, so an employee created after login is picked up without a
// new token.
func Authentication(validator TokenValidator, employees EmployeeResolver, lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "missing authorization token", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				lg.Warn("token validation failed", "error", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			actor := &internal.Actor{
				UserID:   claims.UserID,
				TenantID: claims.TenantID,
				Role:     claims.Role,
			}

			emp, err := employees.FindByUser(claims.TenantID, claims.UserID)
			if err != nil {
				lg.Error("failed to resolve employee for user", "error", err, "user_id", claims.UserID)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			if emp != nil {
				actor.EmployeeID = emp.ID
			}

			ctx := internal.ContextWithActor(r.Context(), actor)
			ctx = logger.With(ctx,
				"user_id", actor.UserID,
				"tenant_id", actor.TenantID,
				"role", actor.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		// Websocket clients cannot set headers from the browser, so the
		// token may ride in the query string instead.
		return r.URL.Query().Get("token")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
