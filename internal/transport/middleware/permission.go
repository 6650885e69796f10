package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/permission"
)

// PermissionGuard builds route middleware on top of the permission resolver.
// It expects AuthMiddleware to have stored the caller's identity in the
// request context; requests without one are rejected as unauthorized.
type PermissionGuard struct {
	resolver *permission.Resolver
	logger   *slog.Logger
}

func NewPermissionGuard(resolver *permission.Resolver, logger *slog.Logger) *PermissionGuard {
	return &PermissionGuard{
		resolver: resolver,
		logger:   logger,
	}
}

// RequirePage refuses the request unless the caller's resolved set contains
// every listed page id.
func (g *PermissionGuard) RequirePage(pages ...string) func(http.Handler) http.Handler {
	return g.require(func(set permission.EffectiveSet) bool {
		return set.HasAllPages(pages)
	}, "pages", pages)
}

// RequireAnyPage refuses unless at least one listed page id is granted.
func (g *PermissionGuard) RequireAnyPage(pages ...string) func(http.Handler) http.Handler {
	return g.require(func(set permission.EffectiveSet) bool {
		return set.HasAnyPage(pages)
	}, "pages", pages)
}

// RequireButton refuses unless every listed button id is granted.
func (g *PermissionGuard) RequireButton(buttons ...string) func(http.Handler) http.Handler {
	return g.require(func(set permission.EffectiveSet) bool {
		return set.HasAllButtons(buttons)
	}, "buttons", buttons)
}

func (g *PermissionGuard) require(allowed func(permission.EffectiveSet) bool, axis string, ids []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := internal.IdentityFromContext(r.Context())
			if !ok || identity == nil {
				writeGuardError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			set := g.resolver.Resolve(*identity)
			if !allowed(set) {
				g.logger.Warn("request refused by permission guard",
					"user_id", identity.ID,
					"department", identity.Department,
					"role", identity.Role,
					axis, ids,
					"path", r.URL.Path)
				writeGuardError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeGuardError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
	})
}
