package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/budget-approval/internal"
	"github.com/frahmantamala/budget-approval/internal/transport"
	"github.com/frahmantamala/budget-approval/internal/user"
	"github.com/frahmantamala/budget-approval/pkg/logger"
)

// RoleAuthorization gates routes on the caller's role.
type RoleAuthorization struct {
	*transport.BaseHandler
}

func NewRoleAuthorization(lg *slog.Logger) *RoleAuthorization {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &RoleAuthorization{BaseHandler: transport.NewBaseHandler(lg)}
}

// Require allows the request through only when the session user holds
// one of the given roles. Runs after AuthMiddleware.
func (ra *RoleAuthorization) Require(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionUser, ok := UserFromContext(r.Context())
			if !ok {
				ra.Logger.Warn("role check without session user", "path", r.URL.Path)
				ra.HandleServiceError(w, internal.ErrMissingSession)
				return
			}

			for _, role := range roles {
				if sessionUser.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			ra.Logger.Warn("role check failed",
				"user_id", sessionUser.ID,
				"role", sessionUser.Role,
				"path", r.URL.Path)
			ra.WriteError(w, http.StatusForbidden, "Forbidden: insufficient role")
		})
	}
}

// RequireManager permits managers only.
func (ra *RoleAuthorization) RequireManager() func(http.Handler) http.Handler {
	return ra.Require(user.RoleManager)
}

// RequireAdmin permits admins only.
func (ra *RoleAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Require(user.RoleAdmin)
}
