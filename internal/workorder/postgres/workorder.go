package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	workorderDatamodel "github.com/frahmantamala/workorder-management/internal/core/datamodel/workorder"
	"github.com/frahmantamala/workorder-management/internal/workorder"
	"gorm.io/gorm"
)

// WorkOrderRepository implements workorder.Repository using GORM.
type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) workorder.Repository {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) Create(wo *workorder.WorkOrder) error {
	dm := workorder.ToDataModel(wo)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	wo.ID = dm.ID
	return nil
}

func (r *WorkOrderRepository) GetByID(id int64) (*workorder.WorkOrder, error) {
	var dm workorderDatamodel.WorkOrder
	if err := r.db.First(&dm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrWorkOrderNotFound
		}
		return nil, err
	}
	return workorder.FromDataModel(&dm), nil
}

func (r *WorkOrderRepository) List(q workorder.ListQuery) ([]*workorder.WorkOrder, int64, error) {
	return r.list(r.filtered(q), q)
}

func (r *WorkOrderRepository) ListForUser(userID int64, q workorder.ListQuery) ([]*workorder.WorkOrder, int64, error) {
	query := r.filtered(q)
	switch q.Type {
	case workorder.MineCreated:
		query = query.Where("creator_id = ?", userID)
	case workorder.MineAssigned:
		query = query.Where("assign_to_id = ?", userID)
	default:
		query = query.Where("creator_id = ? OR assign_to_id = ?", userID, userID)
	}
	return r.list(query, q)
}

func (r *WorkOrderRepository) filtered(q workorder.ListQuery) *gorm.DB {
	query := r.db.Model(&workorderDatamodel.WorkOrder{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Priority != "" {
		query = query.Where("priority = ?", q.Priority)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+q.Keyword+"%")
	}
	if q.CreatorID != 0 {
		query = query.Where("creator_id = ?", q.CreatorID)
	}
	if q.AssignToID != 0 {
		query = query.Where("assign_to_id = ?", q.AssignToID)
	}
	if q.StartDate != nil {
		query = query.Where("created_at >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		query = query.Where("created_at < ?", *q.EndDate)
	}
	return query
}

func (r *WorkOrderRepository) list(query *gorm.DB, q workorder.ListQuery) ([]*workorder.WorkOrder, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dms []*workorderDatamodel.WorkOrder
	err := query.Order("created_at DESC").
		Limit(q.PageSize).
		Offset(q.Offset()).
		Find(&dms).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]*workorder.WorkOrder, len(dms))
	for i, dm := range dms {
		items[i] = workorder.FromDataModel(dm)
	}
	return items, total, nil
}

func (r *WorkOrderRepository) UpdateFields(id int64, updates map[string]interface{}) error {
	result := r.db.Model(&workorderDatamodel.WorkOrder{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrWorkOrderNotFound
	}
	return nil
}

// Delete removes the work order row only. Log rows stay behind so the
// transition history outlives the order.
func (r *WorkOrderRepository) Delete(id int64) error {
	result := r.db.Delete(&workorderDatamodel.WorkOrder{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrWorkOrderNotFound
	}
	return nil
}

// Transition updates the status guarded on the expected from-status and
// appends exactly one log entry, atomically. A guard miss on a live row
// means someone else moved the work order first.
func (r *WorkOrderRepository) Transition(id int64, from, to workorder.Status, entry *workorder.LogEntry, updates map[string]interface{}) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		}
		for k, v := range updates {
			fields[k] = v
		}

		result := tx.Model(&workorderDatamodel.WorkOrder{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&workorderDatamodel.WorkOrder{}).
				Where("id = ?", id).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return internal.ErrWorkOrderNotFound
			}
			return internal.ErrTransitionConflict
		}

		dm := workorder.LogToDataModel(entry)
		if err := tx.Create(dm).Error; err != nil {
			return err
		}
		entry.ID = dm.ID
		return nil
	})
}

func (r *WorkOrderRepository) Logs(workOrderID int64) ([]*workorder.LogEntry, error) {
	var dms []*workorderDatamodel.WorkOrderLog
	err := r.db.Where("work_order_id = ?", workOrderID).
		Order("created_at ASC, id ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*workorder.LogEntry, len(dms))
	for i, dm := range dms {
		entries[i] = workorder.LogFromDataModel(dm)
	}
	return entries, nil
}

func (r *WorkOrderRepository) CountByStatus() (map[workorder.Status]int64, error) {
	type statusCount struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var rows []statusCount
	err := r.db.Model(&workorderDatamodel.WorkOrder{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[workorder.Status]int64, len(rows))
	for _, row := range rows {
		counts[workorder.Status(row.Status)] = row.Count
	}
	return counts, nil
}
