package workorder_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/core/events"
	"github.com/frahmantamala/workorder-management/internal/workorder"
)

type mockRepository struct {
	orders     map[int64]*workorder.WorkOrder
	logs       map[int64][]*workorder.LogEntry
	nextID     int64
	nextLogID  int64
	createErr  error
	getErr     error
	listErr    error
	updateErr  error
	deleteErr  error
	transErr   error
	logsErr    error
	countsErr  error
	statusCnts map[workorder.Status]int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		orders:    make(map[int64]*workorder.WorkOrder),
		logs:      make(map[int64][]*workorder.LogEntry),
		nextID:    1,
		nextLogID: 1,
	}
}

func (m *mockRepository) Create(wo *workorder.WorkOrder) error {
	if m.createErr != nil {
		return m.createErr
	}
	wo.ID = m.nextID
	m.nextID++
	copied := *wo
	m.orders[wo.ID] = &copied
	return nil
}

func (m *mockRepository) GetByID(id int64) (*workorder.WorkOrder, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	wo, ok := m.orders[id]
	if !ok {
		return nil, internal.ErrWorkOrderNotFound
	}
	copied := *wo
	return &copied, nil
}

func (m *mockRepository) List(q workorder.ListQuery) ([]*workorder.WorkOrder, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var items []*workorder.WorkOrder
	for _, wo := range m.orders {
		items = append(items, wo)
	}
	return items, int64(len(items)), nil
}

func (m *mockRepository) ListForUser(userID int64, q workorder.ListQuery) ([]*workorder.WorkOrder, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var items []*workorder.WorkOrder
	for _, wo := range m.orders {
		created := wo.CreatorID == userID
		assigned := wo.AssignToID != nil && *wo.AssignToID == userID
		switch q.Type {
		case workorder.MineCreated:
			if !created {
				continue
			}
		case workorder.MineAssigned:
			if !assigned {
				continue
			}
		default:
			if !created && !assigned {
				continue
			}
		}
		items = append(items, wo)
	}
	return items, int64(len(items)), nil
}

func (m *mockRepository) UpdateFields(id int64, updates map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	wo, ok := m.orders[id]
	if !ok {
		return internal.ErrWorkOrderNotFound
	}
	if title, ok := updates["title"].(string); ok {
		wo.Title = title
	}
	if priority, ok := updates["priority"].(string); ok {
		wo.Priority = workorder.Priority(priority)
	}
	return nil
}

func (m *mockRepository) Delete(id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.orders[id]; !ok {
		return internal.ErrWorkOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockRepository) Transition(id int64, from, to workorder.Status, entry *workorder.LogEntry, updates map[string]interface{}) error {
	if m.transErr != nil {
		return m.transErr
	}
	wo, ok := m.orders[id]
	if !ok {
		return internal.ErrWorkOrderNotFound
	}
	if wo.Status != from {
		return internal.ErrTransitionConflict
	}
	wo.Status = to
	if raw, ok := updates["assign_to_id"]; ok {
		if assignee, ok := raw.(int64); ok {
			wo.AssignToID = &assignee
		} else {
			wo.AssignToID = nil
		}
	}
	entry.ID = m.nextLogID
	m.nextLogID++
	m.logs[id] = append(m.logs[id], entry)
	return nil
}

func (m *mockRepository) Logs(workOrderID int64) ([]*workorder.LogEntry, error) {
	if m.logsErr != nil {
		return nil, m.logsErr
	}
	return m.logs[workOrderID], nil
}

func (m *mockRepository) CountByStatus() (map[workorder.Status]int64, error) {
	if m.countsErr != nil {
		return nil, m.countsErr
	}
	return m.statusCnts, nil
}

type mockPermissionChecker struct {
	allow bool
}

func (m *mockPermissionChecker) HasPagePermission(id internal.Identity, page string) bool {
	return m.allow
}

type mockUserDirectory struct {
	names map[int64]string
	err   error
}

func (m *mockUserDirectory) DisplayNames(userIDs []int64) (map[int64]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.names, nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("WorkOrder Service", func() {
	var (
		repo      *mockRepository
		perms     *mockPermissionChecker
		directory *mockUserDirectory
		publisher *mockPublisher
		service   *workorder.Service
		ctx       context.Context

		admin    internal.Identity
		creator  internal.Identity
		assignee internal.Identity
		stranger internal.Identity
	)

	seed := func(status workorder.Status, withAssignee bool) *workorder.WorkOrder {
		wo := &workorder.WorkOrder{
			Title:       "二沉池出水浊度异常",
			Description: "浊度持续超过 5 NTU",
			Category:    "水质",
			Status:      status,
			Priority:    workorder.PriorityHigh,
			CreatorID:   creator.ID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if withAssignee {
			id := assignee.ID
			wo.AssignToID = &id
		}
		wo.ID = repo.nextID
		repo.nextID++
		repo.orders[wo.ID] = wo
		return wo
	}

	BeforeEach(func() {
		repo = newMockRepository()
		perms = &mockPermissionChecker{allow: true}
		directory = &mockUserDirectory{names: map[int64]string{}}
		publisher = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = workorder.NewService(repo, perms, directory, publisher, logger)
		ctx = context.Background()

		admin = internal.Identity{ID: 1, Name: "张伟", Role: internal.AdminRoleName}
		creator = internal.Identity{ID: 5, Name: "王芳", Role: "操作员"}
		assignee = internal.Identity{ID: 7, Name: "刘洋", Role: "维修工"}
		stranger = internal.Identity{ID: 9, Name: "李娜", Role: "工程师"}
	})

	Describe("Create", func() {
		dto := workorder.CreateWorkOrderDTO{
			Title:       "曝气风机异响",
			Description: "1号风机轴承异响，需检查",
			Category:    "设备",
			Priority:    "high",
		}

		It("opens the work order in pending and publishes the event", func() {
			wo, err := service.Create(ctx, creator, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(wo.Status).To(Equal(workorder.StatusPending))
			Expect(wo.CreatorID).To(Equal(creator.ID))
			Expect(wo.AssignToID).To(BeNil())
			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeWorkOrderCreated))
		})

		It("refuses callers without the create page permission", func() {
			perms.allow = false

			_, err := service.Create(ctx, stranger, dto)

			Expect(err).To(Equal(internal.ErrInsufficientRights))
			Expect(repo.orders).To(BeEmpty())
			Expect(publisher.published).To(BeEmpty())
		})

		It("rejects an invalid priority before storage is touched", func() {
			bad := dto
			bad.Priority = "extreme"

			_, err := service.Create(ctx, creator, bad)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(repo.orders).To(BeEmpty())
		})
	})

	Describe("Assign", func() {
		It("moves a pending order to assigned and records the operator", func() {
			wo := seed(workorder.StatusPending, false)

			updated, err := service.Assign(ctx, admin, wo.ID, workorder.AssignDTO{AssignToID: assignee.ID})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(workorder.StatusAssigned))
			Expect(updated.AssignToID).NotTo(BeNil())
			Expect(*updated.AssignToID).To(Equal(assignee.ID))
			Expect(repo.logs[wo.ID]).To(HaveLen(1))
			Expect(repo.logs[wo.ID][0].Action).To(Equal(workorder.ActionAssign))
			Expect(repo.logs[wo.ID][0].OperatorID).To(Equal(admin.ID))
		})

		It("refuses non-admins before checking the status", func() {
			wo := seed(workorder.StatusPending, false)

			_, err := service.Assign(ctx, creator, wo.ID, workorder.AssignDTO{AssignToID: assignee.ID})

			Expect(err).To(Equal(internal.ErrForbiddenAction))
			Expect(repo.orders[wo.ID].Status).To(Equal(workorder.StatusPending))
			Expect(repo.logs[wo.ID]).To(BeEmpty())
		})

		It("refuses assignment outside pending and returned", func() {
			wo := seed(workorder.StatusProcessing, true)

			_, err := service.Assign(ctx, admin, wo.ID, workorder.AssignDTO{AssignToID: assignee.ID})

			Expect(err).To(Equal(internal.ErrInvalidStatus))
		})

		It("re-assigns a returned order", func() {
			wo := seed(workorder.StatusReturned, false)

			updated, err := service.Assign(ctx, admin, wo.ID, workorder.AssignDTO{AssignToID: assignee.ID})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(workorder.StatusAssigned))
		})

		It("requires an assignee id", func() {
			wo := seed(workorder.StatusPending, false)

			_, err := service.Assign(ctx, admin, wo.ID, workorder.AssignDTO{})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingAssignee))
		})
	})

	Describe("Process", func() {
		It("lets the assignee start work", func() {
			wo := seed(workorder.StatusAssigned, true)

			updated, err := service.Process(ctx, assignee, wo.ID, workorder.CommentDTO{})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(workorder.StatusProcessing))
			Expect(repo.logs[wo.ID]).To(HaveLen(1))
			Expect(repo.logs[wo.ID][0].OperatorID).To(Equal(assignee.ID))
		})

		It("refuses everyone but the assignee, admins included", func() {
			wo := seed(workorder.StatusAssigned, true)

			_, err := service.Process(ctx, admin, wo.ID, workorder.CommentDTO{})

			Expect(err).To(Equal(internal.ErrForbiddenAction))
			Expect(repo.orders[wo.ID].Status).To(Equal(workorder.StatusAssigned))
			Expect(repo.logs[wo.ID]).To(BeEmpty())
		})
	})

	Describe("Finish", func() {
		It("completes processing work with a comment", func() {
			wo := seed(workorder.StatusProcessing, true)

			updated, err := service.Finish(ctx, assignee, wo.ID, workorder.CommentDTO{Comment: "已更换轴承"})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(workorder.StatusFinished))
		})

		It("requires a completion comment before loading the order", func() {
			wo := seed(workorder.StatusProcessing, true)

			_, err := service.Finish(ctx, assignee, wo.ID, workorder.CommentDTO{})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingComment))
			Expect(repo.orders[wo.ID].Status).To(Equal(workorder.StatusProcessing))
		})
	})

	Describe("Close", func() {
		It("seals finished work when an admin signs off", func() {
			wo := seed(workorder.StatusFinished, true)

			updated, err := service.Close(ctx, admin, wo.ID, workorder.CommentDTO{Comment: "verified"})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(workorder.StatusClosed))
			Expect(repo.logs[wo.ID][0].Comment).To(Equal("verified"))
		})

		It("refuses the assignee", func() {
			wo := seed(workorder.StatusFinished, true)

			_, err := service.Close(ctx, assignee, wo.ID, workorder.CommentDTO{Comment: "done"})

			Expect(err).To(Equal(internal.ErrForbiddenAction))
		})
	})

	Describe("Return", func() {
		It("clears the assignee when the order goes back to the pool", func() {
			wo := seed(workorder.StatusProcessing, true)

			updated, err := service.Return(ctx, assignee, wo.ID, workorder.CommentDTO{Comment: "缺少备件"})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(workorder.StatusReturned))
			Expect(updated.AssignToID).To(BeNil())
		})

		It("requires a reason", func() {
			wo := seed(workorder.StatusAssigned, true)

			_, err := service.Return(ctx, admin, wo.ID, workorder.CommentDTO{})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingComment))
		})

		It("refuses a finished order", func() {
			wo := seed(workorder.StatusFinished, true)

			_, err := service.Return(ctx, admin, wo.ID, workorder.CommentDTO{Comment: "重做"})

			Expect(err).To(Equal(internal.ErrInvalidStatus))
		})
	})

	Describe("Mine", func() {
		BeforeEach(func() {
			seed(workorder.StatusPending, false)
			handled := seed(workorder.StatusAssigned, true)
			handled.CreatorID = admin.ID
		})

		It("narrows to created orders", func() {
			result, err := service.Mine(creator, workorder.ListQuery{Type: workorder.MineCreated})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Total).To(Equal(int64(1)))
			Expect(result.Items[0].CreatorID).To(Equal(creator.ID))
		})

		It("narrows to assigned orders", func() {
			result, err := service.Mine(assignee, workorder.ListQuery{Type: workorder.MineAssigned})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Total).To(Equal(int64(1)))
			Expect(*result.Items[0].AssignToID).To(Equal(assignee.ID))
		})

		It("defaults to the union of created and assigned", func() {
			result, err := service.Mine(assignee, workorder.ListQuery{})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Total).To(Equal(int64(1)))
		})
	})

	Describe("Update", func() {
		title := "更新后的标题"

		It("edits fields for the creator", func() {
			wo := seed(workorder.StatusPending, false)

			updated, err := service.Update(creator, wo.ID, workorder.UpdateWorkOrderDTO{Title: &title})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal(title))
		})

		It("refuses strangers", func() {
			wo := seed(workorder.StatusPending, false)

			_, err := service.Update(stranger, wo.ID, workorder.UpdateWorkOrderDTO{Title: &title})

			Expect(err).To(Equal(internal.ErrForbiddenAction))
		})

		It("refuses edits on a closed order", func() {
			wo := seed(workorder.StatusClosed, true)

			_, err := service.Update(creator, wo.ID, workorder.UpdateWorkOrderDTO{Title: &title})

			Expect(err).To(Equal(internal.ErrInvalidStatus))
		})
	})

	Describe("Delete", func() {
		It("removes a closed order and publishes the deletion", func() {
			wo := seed(workorder.StatusClosed, true)

			err := service.Delete(ctx, creator, wo.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.orders).To(BeEmpty())
			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeWorkOrderDeleted))
		})

		It("refuses non-creators without the admin role", func() {
			wo := seed(workorder.StatusPending, false)

			err := service.Delete(ctx, stranger, wo.ID)

			Expect(err).To(Equal(internal.ErrForbiddenAction))
			Expect(repo.orders).To(HaveKey(wo.ID))
		})

		It("leaves the log history in place", func() {
			wo := seed(workorder.StatusAssigned, true)
			repo.logs[wo.ID] = []*workorder.LogEntry{
				{ID: 1, WorkOrderID: wo.ID, Action: workorder.ActionAssign, OperatorID: admin.ID},
			}

			err := service.Delete(ctx, admin, wo.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.orders).To(BeEmpty())
			Expect(repo.logs[wo.ID]).To(HaveLen(1))
		})
	})

	Describe("Logs", func() {
		It("resolves operator names", func() {
			wo := seed(workorder.StatusAssigned, true)
			repo.logs[wo.ID] = []*workorder.LogEntry{
				{ID: 1, WorkOrderID: wo.ID, Action: workorder.ActionCreate, OperatorID: creator.ID},
				{ID: 2, WorkOrderID: wo.ID, Action: workorder.ActionAssign, OperatorID: admin.ID},
			}
			directory.names = map[int64]string{creator.ID: "王芳", admin.ID: "张伟"}

			entries, err := service.Logs(wo.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(entries[0].OperatorName).To(Equal("王芳"))
			Expect(entries[1].OperatorName).To(Equal("张伟"))
		})

		It("degrades to ids when name resolution fails", func() {
			wo := seed(workorder.StatusAssigned, true)
			repo.logs[wo.ID] = []*workorder.LogEntry{
				{ID: 1, WorkOrderID: wo.ID, Action: workorder.ActionCreate, OperatorID: creator.ID},
			}
			directory.err = errors.New("directory unavailable")

			entries, err := service.Logs(wo.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].OperatorName).To(BeEmpty())
		})

		It("reports a missing work order", func() {
			_, err := service.Logs(404)

			Expect(err).To(Equal(internal.ErrWorkOrderNotFound))
		})
	})

	Describe("Stats", func() {
		It("sums the per-status counts", func() {
			repo.statusCnts = map[workorder.Status]int64{
				workorder.StatusPending:    3,
				workorder.StatusProcessing: 2,
				workorder.StatusClosed:     5,
			}

			stats, err := service.Stats()

			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Pending).To(Equal(int64(3)))
			Expect(stats.Processing).To(Equal(int64(2)))
			Expect(stats.Closed).To(Equal(int64(5)))
			Expect(stats.Total).To(Equal(int64(10)))
		})
	})
})
