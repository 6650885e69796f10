package permission

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workorder-management/internal/transport"
	"github.com/frahmantamala/workorder-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Departments() []Profile
	Department(name string) (Profile, error)
	CreateDepartment(dto DepartmentDTO) (Profile, error)
	UpdateDepartment(name string, dto DepartmentDTO) (Profile, error)
	DeleteDepartment(name string) error
}

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

// GetCatalog handles GET /permissions/catalog
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"modules": CatalogByModule(),
	})
}

// GetDepartments handles GET /departments
func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"departments": h.Service.Departments(),
	})
}

// GetDepartment handles GET /departments/{name}
func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	profile, err := h.Service.Department(name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

// CreateDepartment handles POST /departments
func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto DepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateDepartment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.CreateDepartment(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, profile)
}

// UpdateDepartment handles PUT /departments/{name}
func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var dto DepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateDepartment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.UpdateDepartment(name, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

// DeleteDepartment handles DELETE /departments/{name}; built-ins are refused.
func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Service.DeleteDepartment(name); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
