package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/permission"
	"github.com/frahmantamala/workorder-management/internal/transport"
	"github.com/frahmantamala/workorder-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetByID(userID int64) (*User, error)
	Assignable(department string) ([]User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Resolver *permission.Resolver
}

func NewHandler(svc ServiceAPI, resolver *permission.Resolver) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Resolver:    resolver,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(identity.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	set := h.Resolver.Resolve(u.Identity())
	h.WriteJSON(w, http.StatusOK, CurrentUserView{
		User:        u,
		Permissions: permission.NewEffectiveSetView(set),
	})
}

// GetUser handles GET /users/{id}. Callers can always read their own
// profile; reading others requires admin.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if userID != identity.ID && !identity.IsAdmin() {
		h.HandleServiceError(w, internal.ErrInsufficientRights)
		return
	}

	u, err := h.Service.GetByID(userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// ListAssignable handles GET /users?assignable=true&department=X. The
// assignable scope is the only user listing the API offers.
func (h *Handler) ListAssignable(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("assignable") != "true" {
		h.WriteError(w, http.StatusBadRequest, "only assignable=true listings are supported")
		return
	}

	department := r.URL.Query().Get("department")

	users, err := h.Service.Assignable(department)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	views := make([]AssignableUserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewAssignableUserView(u))
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": views,
	})
}
