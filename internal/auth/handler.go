package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/transport"
	"github.com/frahmantamala/workorder-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Login: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// RefreshToken handles POST /auth/refresh
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RefreshToken: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout. Tokens are stateless, so logout is a
// client-side discard; the endpoint exists so clients have a uniform flow.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// AuthMiddleware validates the bearer token and loads the caller's identity
// tuple into the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := h.ExtractTokenFromHeader(r)
		if tokenString == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		claims, err := h.Service.ValidateAccessToken(tokenString)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		identity, err := h.Service.Identity(claims.UserID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
