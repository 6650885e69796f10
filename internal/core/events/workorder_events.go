package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeWorkOrderCreated      = "workorder.created"
	EventTypeWorkOrderTransitioned = "workorder.transitioned"
	EventTypeWorkOrderDeleted      = "workorder.deleted"
)

type WorkOrderCreatedEvent struct {
	BaseEvent
	WorkOrderID int64  `json:"work_order_id"`
	CreatorID   int64  `json:"creator_id"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

func NewWorkOrderCreatedEvent(workOrderID, creatorID int64, priority, category string) *WorkOrderCreatedEvent {
	return &WorkOrderCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeWorkOrderCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"work_order_id": workOrderID,
				"creator_id":    creatorID,
				"priority":      priority,
				"category":      category,
			},
		},
		WorkOrderID: workOrderID,
		CreatorID:   creatorID,
		Priority:    priority,
		Category:    category,
	}
}

type WorkOrderTransitionedEvent struct {
	BaseEvent
	WorkOrderID int64  `json:"work_order_id"`
	Action      string `json:"action"`
	FromStatus  string `json:"from_status"`
	ToStatus    string `json:"to_status"`
	OperatorID  int64  `json:"operator_id"`
}

func NewWorkOrderTransitionedEvent(workOrderID int64, action, fromStatus, toStatus string, operatorID int64) *WorkOrderTransitionedEvent {
	return &WorkOrderTransitionedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeWorkOrderTransitioned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"work_order_id": workOrderID,
				"action":        action,
				"from_status":   fromStatus,
				"to_status":     toStatus,
				"operator_id":   operatorID,
			},
		},
		WorkOrderID: workOrderID,
		Action:      action,
		FromStatus:  fromStatus,
		ToStatus:    toStatus,
		OperatorID:  operatorID,
	}
}

type WorkOrderDeletedEvent struct {
	BaseEvent
	WorkOrderID int64  `json:"work_order_id"`
	OperatorID  int64  `json:"operator_id"`
	LastStatus  string `json:"last_status"`
}

func NewWorkOrderDeletedEvent(workOrderID, operatorID int64, lastStatus string) *WorkOrderDeletedEvent {
	return &WorkOrderDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeWorkOrderDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"work_order_id": workOrderID,
				"operator_id":   operatorID,
				"last_status":   lastStatus,
			},
		},
		WorkOrderID: workOrderID,
		OperatorID:  operatorID,
		LastStatus:  lastStatus,
	}
}
