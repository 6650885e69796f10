package workorder

import (
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	workorderDatamodel "github.com/frahmantamala/workorder-management/internal/core/datamodel/workorder"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusProcessing Status = "processing"
	StatusFinished   Status = "finished"
	StatusClosed     Status = "closed"
	StatusReturned   Status = "returned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusProcessing, StatusFinished, StatusClosed, StatusReturned:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle transition can leave s.
func (s Status) Terminal() bool {
	return s == StatusClosed
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Action string

const (
	ActionCreate  Action = "create"
	ActionAssign  Action = "assign"
	ActionProcess Action = "process"
	ActionFinish  Action = "finish"
	ActionClose   Action = "close"
	ActionReturn  Action = "return"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
)

type WorkOrder struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatorID   int64      `json:"creator_id"`
	AssignToID  *int64     `json:"assign_to_id,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Attachments []string   `json:"attachments,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LogEntry is one line of a work order's append-only history.
type LogEntry struct {
	ID           int64     `json:"id"`
	WorkOrderID  int64     `json:"work_order_id"`
	Action       Action    `json:"action"`
	OperatorID   int64     `json:"operator_id"`
	OperatorName string    `json:"operator_name,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAssignee reports whether id is the current assignee.
func (w *WorkOrder) IsAssignee(id internal.Identity) bool {
	return w.AssignToID != nil && *w.AssignToID == id.ID
}

// IsCreator reports whether id created the work order.
func (w *WorkOrder) IsCreator(id internal.Identity) bool {
	return w.CreatorID == id.ID
}

// Lifecycle guards. Each one is a pure predicate of the work order snapshot
// and the caller's identity; the service refuses any transition whose guard
// is false before touching storage.

func CanAssign(w *WorkOrder, id internal.Identity) bool {
	return id.IsAdmin() && (w.Status == StatusPending || w.Status == StatusReturned)
}

func CanProcess(w *WorkOrder, id internal.Identity) bool {
	return w.IsAssignee(id) && w.Status == StatusAssigned
}

func CanFinish(w *WorkOrder, id internal.Identity) bool {
	return w.IsAssignee(id) && w.Status == StatusProcessing
}

func CanClose(w *WorkOrder, id internal.Identity) bool {
	return id.IsAdmin() && w.Status == StatusFinished
}

func CanReturn(w *WorkOrder, id internal.Identity) bool {
	return (id.IsAdmin() || w.IsAssignee(id)) && (w.Status == StatusAssigned || w.Status == StatusProcessing)
}

func CanUpdate(w *WorkOrder, id internal.Identity) bool {
	return (w.IsCreator(id) || id.IsAdmin()) && !w.Status.Terminal()
}

func CanDelete(w *WorkOrder, id internal.Identity) bool {
	return w.IsCreator(id) || id.IsAdmin()
}

// VisibleActions lists the lifecycle actions id may currently invoke, in a
// stable order. The UI drives its buttons from this, but the service
// re-checks the guard on every call regardless.
func VisibleActions(w *WorkOrder, id internal.Identity) []Action {
	var actions []Action
	if CanAssign(w, id) {
		actions = append(actions, ActionAssign)
	}
	if CanProcess(w, id) {
		actions = append(actions, ActionProcess)
	}
	if CanFinish(w, id) {
		actions = append(actions, ActionFinish)
	}
	if CanClose(w, id) {
		actions = append(actions, ActionClose)
	}
	if CanReturn(w, id) {
		actions = append(actions, ActionReturn)
	}
	if CanUpdate(w, id) {
		actions = append(actions, ActionUpdate)
	}
	if CanDelete(w, id) {
		actions = append(actions, ActionDelete)
	}
	return actions
}

func ToDataModel(w *WorkOrder) *workorderDatamodel.WorkOrder {
	return &workorderDatamodel.WorkOrder{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Category:    w.Category,
		Status:      string(w.Status),
		Priority:    string(w.Priority),
		CreatorID:   w.CreatorID,
		AssignToID:  w.AssignToID,
		Deadline:    w.Deadline,
		Attachments: w.Attachments,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func FromDataModel(w *workorderDatamodel.WorkOrder) *WorkOrder {
	return &WorkOrder{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Category:    w.Category,
		Status:      Status(w.Status),
		Priority:    Priority(w.Priority),
		CreatorID:   w.CreatorID,
		AssignToID:  w.AssignToID,
		Deadline:    w.Deadline,
		Attachments: w.Attachments,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func LogFromDataModel(l *workorderDatamodel.WorkOrderLog) *LogEntry {
	return &LogEntry{
		ID:          l.ID,
		WorkOrderID: l.WorkOrderID,
		Action:      Action(l.Action),
		OperatorID:  l.OperatorID,
		Comment:     l.Comment,
		CreatedAt:   l.CreatedAt,
	}
}

func LogToDataModel(l *LogEntry) *workorderDatamodel.WorkOrderLog {
	return &workorderDatamodel.WorkOrderLog{
		ID:          l.ID,
		WorkOrderID: l.WorkOrderID,
		Action:      string(l.Action),
		OperatorID:  l.OperatorID,
		Comment:     l.Comment,
		CreatedAt:   l.CreatedAt,
	}
}
