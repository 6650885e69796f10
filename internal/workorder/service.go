package workorder

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/core/events"
	"github.com/frahmantamala/workorder-management/internal/permission"
)

// Repository defines the data access methods for work orders. Transition is
// the only write path for status changes: it must update the status and
// append the log entry atomically, guarded on the expected from-status.
type Repository interface {
	Create(wo *WorkOrder) error
	GetByID(id int64) (*WorkOrder, error)
	List(q ListQuery) ([]*WorkOrder, int64, error)
	ListForUser(userID int64, q ListQuery) ([]*WorkOrder, int64, error)
	UpdateFields(id int64, updates map[string]interface{}) error
	Delete(id int64) error
	Transition(id int64, from, to Status, entry *LogEntry, updates map[string]interface{}) error
	Logs(workOrderID int64) ([]*LogEntry, error)
	CountByStatus() (map[Status]int64, error)
}

// PermissionChecker guards creation on the create-page permission.
type PermissionChecker interface {
	HasPagePermission(id internal.Identity, page string) bool
}

// UserDirectory resolves operator ids to display names for log rendering.
type UserDirectory interface {
	DisplayNames(userIDs []int64) (map[int64]string, error)
}

// EventPublisher is the slice of the event bus the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	perms     PermissionChecker
	directory UserDirectory
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, perms PermissionChecker, directory UserDirectory, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		perms:     perms,
		directory: directory,
		publisher: publisher,
		logger:    logger,
	}
}

// Create opens a new work order in Pending. The caller needs the
// create-page permission regardless of what the UI offered.
func (s *Service) Create(ctx context.Context, identity internal.Identity, dto CreateWorkOrderDTO) (*WorkOrder, error) {
	if !s.perms.HasPagePermission(identity, permission.PageWorkOrderCreate) {
		s.logger.Warn("work order creation denied",
			"user_id", identity.ID,
			"department", identity.Department)
		return nil, internal.ErrInsufficientRights
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("work order validation failed", "error", err, "user_id", identity.ID)
		return nil, err
	}

	now := time.Now()
	wo := &WorkOrder{
		Title:       dto.Title,
		Description: dto.Description,
		Category:    dto.Category,
		Status:      StatusPending,
		Priority:    Priority(dto.Priority),
		CreatorID:   identity.ID,
		Deadline:    dto.Deadline,
		Attachments: dto.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(wo); err != nil {
		s.logger.Error("failed to create work order", "error", err, "user_id", identity.ID)
		return nil, err
	}

	s.logger.Info("work order created",
		"work_order_id", wo.ID,
		"creator_id", identity.ID,
		"priority", wo.Priority)

	s.publish(ctx, events.NewWorkOrderCreatedEvent(wo.ID, identity.ID, string(wo.Priority), wo.Category))
	return wo, nil
}

// Get returns a work order decorated with the caller's available actions.
func (s *Service) Get(identity internal.Identity, workOrderID int64) (*DetailView, error) {
	wo, err := s.load(workOrderID)
	if err != nil {
		return nil, err
	}
	return &DetailView{
		WorkOrder:        wo,
		AvailableActions: VisibleActions(wo, identity),
	}, nil
}

func (s *Service) List(q ListQuery) (*ListResult, error) {
	q.Normalize()
	items, total, err := s.repo.List(q)
	if err != nil {
		s.logger.Error("failed to list work orders", "error", err)
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// Mine lists work orders the caller created or is assigned to.
func (s *Service) Mine(identity internal.Identity, q ListQuery) (*ListResult, error) {
	q.Normalize()
	items, total, err := s.repo.ListForUser(identity.ID, q)
	if err != nil {
		s.logger.Error("failed to list user work orders", "error", err, "user_id", identity.ID)
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// Update edits non-lifecycle fields. Terminal work orders are immutable.
func (s *Service) Update(identity internal.Identity, workOrderID int64, dto UpdateWorkOrderDTO) (*WorkOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	wo, err := s.load(workOrderID)
	if err != nil {
		return nil, err
	}

	if !wo.IsCreator(identity) && !identity.IsAdmin() {
		s.logger.Warn("work order update denied",
			"work_order_id", workOrderID,
			"user_id", identity.ID)
		return nil, internal.ErrForbiddenAction
	}
	if wo.Status.Terminal() {
		return nil, internal.ErrInvalidStatus
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if dto.Priority != nil {
		updates["priority"] = *dto.Priority
	}
	if dto.Deadline != nil {
		updates["deadline"] = *dto.Deadline
	}
	if dto.Attachments != nil {
		updates["attachments"] = dto.Attachments
	}

	if err := s.repo.UpdateFields(workOrderID, updates); err != nil {
		s.logger.Error("failed to update work order", "error", err, "work_order_id", workOrderID)
		return nil, err
	}

	s.logger.Info("work order updated", "work_order_id", workOrderID, "user_id", identity.ID)
	return s.load(workOrderID)
}

// Delete removes a work order permanently, from any state.
func (s *Service) Delete(ctx context.Context, identity internal.Identity, workOrderID int64) error {
	wo, err := s.load(workOrderID)
	if err != nil {
		return err
	}

	if !wo.IsCreator(identity) && !identity.IsAdmin() {
		s.logger.Warn("work order delete denied",
			"work_order_id", workOrderID,
			"user_id", identity.ID)
		return internal.ErrForbiddenAction
	}

	if wo.Status == StatusClosed {
		s.logger.Warn("deleting closed work order",
			"work_order_id", workOrderID,
			"user_id", identity.ID)
	}

	if err := s.repo.Delete(workOrderID); err != nil {
		s.logger.Error("failed to delete work order", "error", err, "work_order_id", workOrderID)
		return err
	}

	s.logger.Info("work order deleted",
		"work_order_id", workOrderID,
		"user_id", identity.ID,
		"last_status", wo.Status)

	s.publish(ctx, events.NewWorkOrderDeletedEvent(workOrderID, identity.ID, string(wo.Status)))
	return nil
}

// Assign hands a pending or returned work order to an assignee.
func (s *Service) Assign(ctx context.Context, identity internal.Identity, workOrderID int64, dto AssignDTO) (*WorkOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	wo, err := s.load(workOrderID)
	if err != nil {
		return nil, err
	}

	if !identity.IsAdmin() {
		return nil, s.refuse(wo, identity, ActionAssign, internal.ErrForbiddenAction)
	}
	if wo.Status != StatusPending && wo.Status != StatusReturned {
		return nil, s.refuse(wo, identity, ActionAssign, internal.ErrInvalidStatus)
	}

	return s.commit(ctx, wo, identity, ActionAssign, StatusAssigned, "",
		map[string]interface{}{"assign_to_id": dto.AssignToID})
}

// Process moves an assigned work order into processing. Only the assignee
// may start work; the comment is optional.
func (s *Service) Process(ctx context.Context, identity internal.Identity, workOrderID int64, dto CommentDTO) (*WorkOrder, error) {
	wo, err := s.load(workOrderID)
	if err != nil {
		return nil, err
	}

	if !wo.IsAssignee(identity) {
		return nil, s.refuse(wo, identity, ActionProcess, internal.ErrForbiddenAction)
	}
	if wo.Status != StatusAssigned {
		return nil, s.refuse(wo, identity, ActionProcess, internal.ErrInvalidStatus)
	}

	return s.commit(ctx, wo, identity, ActionProcess, StatusProcessing, dto.Comment, nil)
}

// Finish completes the work; only the assignee, with a mandatory comment.
func (s *Service) Finish(ctx context.Context, identity internal.Identity, workOrderID int64, dto CommentDTO) (*WorkOrder, error) {
	if err := dto.ValidateRequired(ActionFinish); err != nil {
		return nil, err
	}

	wo, err := s.load(workOrderID)
	if err != nil {
		return nil, err
	}

	if !wo.IsAssignee(identity) {
		return nil, s.refuse(wo, identity, ActionFinish, internal.ErrForbiddenAction)
	}
	if wo.Status != StatusProcessing {
		return nil, s.refuse(wo, identity, ActionFinish, internal.ErrInvalidStatus)
	}

	return s.commit(ctx, wo, identity, ActionFinish, StatusFinished, dto.Comment, nil)
}

// Close accepts finished work and seals the order. Admin only.
func (s *Service) Close(ctx context.Context, identity internal.Identity, workOrderID int64, dto CommentDTO) (*WorkOrder, error) {
	if err := dto.ValidateRequired(ActionClose); err != nil {
		return nil, err
	}

	wo, err := s.load(workOrderID)
	if err != nil {
		return nil, err
	}

	if !identity.IsAdmin() {
		return nil, s.refuse(wo, identity, ActionClose, internal.ErrForbiddenAction)
	}
	if wo.Status != StatusFinished {
		return nil, s.refuse(wo, identity, ActionClose, internal.ErrInvalidStatus)
	}

	return s.commit(ctx, wo, identity, ActionClose, StatusClosed, dto.Comment, nil)
}

// Return sends an assigned or in-progress work order back to the pool.
// Admins and the current assignee may return; a reason is mandatory.
func (s *Service) Return(ctx context.Context, identity internal.Identity, workOrderID int64, dto CommentDTO) (*WorkOrder, error) {
	if err := dto.ValidateRequired(ActionReturn); err != nil {
		return nil, err
	}

	wo, err := s.load(workOrderID)
	if err != nil {
		return nil, err
	}

	if !identity.IsAdmin() && !wo.IsAssignee(identity) {
		return nil, s.refuse(wo, identity, ActionReturn, internal.ErrForbiddenAction)
	}
	if wo.Status != StatusAssigned && wo.Status != StatusProcessing {
		return nil, s.refuse(wo, identity, ActionReturn, internal.ErrInvalidStatus)
	}

	return s.commit(ctx, wo, identity, ActionReturn, StatusReturned, dto.Comment,
		map[string]interface{}{"assign_to_id": nil})
}

// Logs returns the ordered history with operator names resolved. A failed
// name lookup degrades to ids rather than failing the read.
func (s *Service) Logs(workOrderID int64) ([]*LogEntry, error) {
	if _, err := s.load(workOrderID); err != nil {
		return nil, err
	}

	entries, err := s.repo.Logs(workOrderID)
	if err != nil {
		s.logger.Error("failed to load work order logs", "error", err, "work_order_id", workOrderID)
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	seen := make(map[int64]bool, len(entries))
	for _, e := range entries {
		if !seen[e.OperatorID] {
			seen[e.OperatorID] = true
			ids = append(ids, e.OperatorID)
		}
	}

	names, err := s.directory.DisplayNames(ids)
	if err != nil {
		s.logger.Warn("operator name resolution failed, returning ids only",
			"error", err, "work_order_id", workOrderID)
		return entries, nil
	}

	for _, e := range entries {
		if name, ok := names[e.OperatorID]; ok {
			e.OperatorName = name
		}
	}
	return entries, nil
}

// Actions returns the lifecycle actions the caller may invoke right now.
func (s *Service) Actions(identity internal.Identity, workOrderID int64) ([]Action, error) {
	wo, err := s.load(workOrderID)
	if err != nil {
		return nil, err
	}
	return VisibleActions(wo, identity), nil
}

func (s *Service) Stats() (*StatsView, error) {
	counts, err := s.repo.CountByStatus()
	if err != nil {
		s.logger.Error("failed to count work orders", "error", err)
		return nil, err
	}

	stats := &StatsView{
		Pending:    counts[StatusPending],
		Assigned:   counts[StatusAssigned],
		Processing: counts[StatusProcessing],
		Finished:   counts[StatusFinished],
		Closed:     counts[StatusClosed],
		Returned:   counts[StatusReturned],
	}
	stats.Total = stats.Pending + stats.Assigned + stats.Processing + stats.Finished + stats.Closed + stats.Returned
	return stats, nil
}

func (s *Service) load(workOrderID int64) (*WorkOrder, error) {
	wo, err := s.repo.GetByID(workOrderID)
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// refuse logs and returns the given refusal without touching storage.
func (s *Service) refuse(wo *WorkOrder, identity internal.Identity, action Action, err error) error {
	s.logger.Warn("work order transition refused",
		"work_order_id", wo.ID,
		"action", action,
		"status", wo.Status,
		"user_id", identity.ID,
		"reason", err)
	return err
}

// commit performs the guarded transition and re-fetches the canonical state.
func (s *Service) commit(ctx context.Context, wo *WorkOrder, identity internal.Identity, action Action, to Status, comment string, updates map[string]interface{}) (*WorkOrder, error) {
	entry := &LogEntry{
		WorkOrderID: wo.ID,
		Action:      action,
		OperatorID:  identity.ID,
		Comment:     comment,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Transition(wo.ID, wo.Status, to, entry, updates); err != nil {
		s.logger.Error("work order transition failed",
			"error", err,
			"work_order_id", wo.ID,
			"action", action,
			"from", wo.Status,
			"to", to)
		return nil, err
	}

	s.logger.Info("work order transitioned",
		"work_order_id", wo.ID,
		"action", action,
		"from", wo.Status,
		"to", to,
		"operator_id", identity.ID)

	s.publish(ctx, events.NewWorkOrderTransitionedEvent(wo.ID, string(action), string(wo.Status), string(to), identity.ID))
	return s.load(wo.ID)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "error", err, "event_type", event.EventType())
	}
}
