package workorder

import "time"

type WorkOrder struct {
	ID          int64      `gorm:"primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description;not null"`
	Category    string     `gorm:"column:category"`
	Status      string     `gorm:"column:status;not null;default:pending;index"`
	Priority    string     `gorm:"column:priority;not null;default:medium"`
	CreatorID   int64      `gorm:"column:creator_id;not null;index"`
	AssignToID  *int64     `gorm:"column:assign_to_id;index"`
	Deadline    *time.Time `gorm:"column:deadline"`
	Attachments []string   `gorm:"column:attachments;serializer:json"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}

type WorkOrderLog struct {
	ID          int64     `gorm:"primaryKey"`
	WorkOrderID int64     `gorm:"column:work_order_id;not null;index"`
	Action      string    `gorm:"column:action;not null"`
	OperatorID  int64     `gorm:"column:operator_id;not null"`
	Comment     string    `gorm:"column:comment"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (WorkOrderLog) TableName() string {
	return "work_order_logs"
}
