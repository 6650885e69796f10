package workorder

import (
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/core/common/validation"
)

// CreateWorkOrderDTO is the payload for opening a new work order.
type CreateWorkOrderDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Attachments []string   `json:"attachments,omitempty"`
}

func (dto CreateWorkOrderDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(128)
	v.Field("description", dto.Description).Required().MaxLength(2000)
	v.Field("category", dto.Category).Required().MaxLength(64)
	v.Field("priority", dto.Priority).Required().
		OneOf(string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityUrgent))
	v.Field("deadline", dto.Deadline).NotPast()
	return v.Validate()
}

// UpdateWorkOrderDTO carries field-level edits. Nil pointers leave the
// corresponding field untouched; status is never editable this way.
type UpdateWorkOrderDTO struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Attachments []string   `json:"attachments,omitempty"`
}

func (dto UpdateWorkOrderDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.Title != nil {
		v.Field("title", *dto.Title).Required().MaxLength(128)
	}
	if dto.Description != nil {
		v.Field("description", *dto.Description).Required().MaxLength(2000)
	}
	if dto.Category != nil {
		v.Field("category", *dto.Category).Required().MaxLength(64)
	}
	if dto.Priority != nil {
		v.Field("priority", *dto.Priority).Required().
			OneOf(string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityUrgent))
	}
	return v.Validate()
}

// AssignDTO is the payload for the assign transition.
type AssignDTO struct {
	AssignToID int64 `json:"assign_to_id"`
}

func (dto AssignDTO) Validate() *internal.AppError {
	if dto.AssignToID == 0 {
		return internal.NewValidationError("assign_to_id is required", internal.ErrCodeMissingAssignee)
	}
	return nil
}

// CommentDTO is the payload for the process, finish, close and return
// transitions. The comment is optional for process and mandatory for the
// rest; the service decides which.
type CommentDTO struct {
	Comment string `json:"comment"`
}

func (dto CommentDTO) ValidateRequired(action Action) *internal.AppError {
	if dto.Comment == "" {
		return internal.NewValidationError(string(action)+" requires a comment", internal.ErrCodeMissingComment)
	}
	return nil
}

// Scopes for the my-work-orders listing; anything else means the union of
// created and assigned.
const (
	MineCreated  = "created"
	MineAssigned = "assigned"
)

// ListQuery captures the list endpoint's filters and pagination. StartDate
// is inclusive and EndDate exclusive; the handler widens bare dates on
// end_date to cover the whole day.
type ListQuery struct {
	Status     string
	Priority   string
	Category   string
	Keyword    string
	CreatorID  int64
	AssignToID int64
	StartDate  *time.Time
	EndDate    *time.Time
	Type       string
	Page       int
	PageSize   int
}

func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ListResult pairs a page of work orders with the total match count.
type ListResult struct {
	Items    []*WorkOrder `json:"items"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// StatsView is the per-status breakdown returned by the stats endpoint.
type StatsView struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Assigned   int64 `json:"assigned"`
	Processing int64 `json:"processing"`
	Finished   int64 `json:"finished"`
	Closed     int64 `json:"closed"`
	Returned   int64 `json:"returned"`
}

// DetailView decorates a work order with the actions the caller may invoke.
type DetailView struct {
	*WorkOrder
	AvailableActions []Action `json:"available_actions"`
}
