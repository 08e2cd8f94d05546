package auth

import (
	"log/slog"
	"net/http"

	"github.com/zonoapp/workforce/internal"
)

// RBACAuthorization wraps handlers with a permission-table check against
// the actor resolved by the authentication middleware.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := internal.ActorFromContext(r.Context())
		if !ok || actor == nil {
			ra.logger.Warn("authorization check failed: actor not found in context")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !Can(actor.Role, action) {
			ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
				"user_id", actor.UserID,
				"role", actor.Role,
				"required_action", action)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RBACAuthorization) Middleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, action)
	}
}
