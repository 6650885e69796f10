package workorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/transport"
	"github.com/frahmantamala/workorder-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, identity internal.Identity, dto CreateWorkOrderDTO) (*WorkOrder, error)
	Get(identity internal.Identity, workOrderID int64) (*DetailView, error)
	List(q ListQuery) (*ListResult, error)
	Mine(identity internal.Identity, q ListQuery) (*ListResult, error)
	Update(identity internal.Identity, workOrderID int64, dto UpdateWorkOrderDTO) (*WorkOrder, error)
	Delete(ctx context.Context, identity internal.Identity, workOrderID int64) error
	Assign(ctx context.Context, identity internal.Identity, workOrderID int64, dto AssignDTO) (*WorkOrder, error)
	Process(ctx context.Context, identity internal.Identity, workOrderID int64, dto CommentDTO) (*WorkOrder, error)
	Finish(ctx context.Context, identity internal.Identity, workOrderID int64, dto CommentDTO) (*WorkOrder, error)
	Close(ctx context.Context, identity internal.Identity, workOrderID int64, dto CommentDTO) (*WorkOrder, error)
	Return(ctx context.Context, identity internal.Identity, workOrderID int64, dto CommentDTO) (*WorkOrder, error)
	Logs(workOrderID int64) ([]*LogEntry, error)
	Actions(identity internal.Identity, workOrderID int64) ([]Action, error)
	Stats() (*StatsView, error)
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

// CreateWorkOrder handles POST /work-orders
func (h *Handler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CreateWorkOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateWorkOrder: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.Service.Create(r.Context(), identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, wo)
}

// ListWorkOrders handles GET /work-orders
func (h *Handler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.List(parseListQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// MyWorkOrders handles GET /work-orders/my
func (h *Handler) MyWorkOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	result, err := h.Service.Mine(identity, parseListQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// GetStats handles GET /work-orders/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

// GetWorkOrder handles GET /work-orders/{id}
func (h *Handler) GetWorkOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.workOrderID(w, r)
	if !ok {
		return
	}

	view, err := h.Service.Get(identity, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// UpdateWorkOrder handles PUT /work-orders/{id}
func (h *Handler) UpdateWorkOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.workOrderID(w, r)
	if !ok {
		return
	}

	var dto UpdateWorkOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateWorkOrder: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.Service.Update(identity, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, wo)
}

// DeleteWorkOrder handles DELETE /work-orders/{id}
func (h *Handler) DeleteWorkOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.workOrderID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), identity, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AssignWorkOrder handles POST /work-orders/{id}/assign
func (h *Handler) AssignWorkOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.workOrderID(w, r)
	if !ok {
		return
	}

	var dto AssignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AssignWorkOrder: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wo, err := h.Service.Assign(r.Context(), identity, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, wo)
}

// ProcessWorkOrder handles POST /work-orders/{id}/process
func (h *Handler) ProcessWorkOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Process)
}

// FinishWorkOrder handles POST /work-orders/{id}/finish
func (h *Handler) FinishWorkOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Finish)
}

// CloseWorkOrder handles POST /work-orders/{id}/close
func (h *Handler) CloseWorkOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Close)
}

// ReturnWorkOrder handles POST /work-orders/{id}/return
func (h *Handler) ReturnWorkOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Return)
}

// GetLogs handles GET /work-orders/{id}/logs
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workOrderID(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.Logs(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"logs": entries})
}

// GetActions handles GET /work-orders/{id}/actions
func (h *Handler) GetActions(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.workOrderID(w, r)
	if !ok {
		return
	}

	actions, err := h.Service.Actions(identity, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if actions == nil {
		actions = []Action{}
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"actions": actions})
}

type transitionFunc func(ctx context.Context, identity internal.Identity, workOrderID int64, dto CommentDTO) (*WorkOrder, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	id, ok := h.workOrderID(w, r)
	if !ok {
		return
	}

	var dto CommentDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Error("transition: invalid request body", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	wo, err := fn(r.Context(), identity, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, wo)
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (internal.Identity, bool) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return internal.Identity{}, false
	}
	return *identity, true
}

func (h *Handler) workOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid work order id")
		return 0, false
	}
	return id, true
}

func parseListQuery(r *http.Request) ListQuery {
	q := ListQuery{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Category: r.URL.Query().Get("category"),
		Keyword:  r.URL.Query().Get("keyword"),
		Type:     r.URL.Query().Get("type"),
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("creator_id"), 10, 64); err == nil {
		q.CreatorID = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("assign_to_id"), 10, 64); err == nil {
		q.AssignToID = v
	}
	q.StartDate = parseQueryDate(r.URL.Query().Get("start_date"), false)
	q.EndDate = parseQueryDate(r.URL.Query().Get("end_date"), true)
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		q.PageSize = v
	}
	return q
}

// parseQueryDate accepts RFC 3339 timestamps and bare dates. A bare date on
// the end of a range is widened to the following midnight so the whole day
// is covered; unparseable input is treated as no filter.
func parseQueryDate(raw string, widen bool) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	if widen {
		t = t.Add(24 * time.Hour)
	}
	return &t
}
