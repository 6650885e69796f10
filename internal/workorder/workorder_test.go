package workorder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/workorder"
)

var _ = Describe("Lifecycle Guards", func() {
	var (
		admin    internal.Identity
		creator  internal.Identity
		assignee internal.Identity
		stranger internal.Identity
	)

	BeforeEach(func() {
		admin = internal.Identity{ID: 1, Role: internal.AdminRoleName}
		creator = internal.Identity{ID: 5, Role: "操作员"}
		assignee = internal.Identity{ID: 7, Role: "维修工"}
		stranger = internal.Identity{ID: 9, Role: "操作员"}
	})

	order := func(status workorder.Status) *workorder.WorkOrder {
		assigneeID := int64(7)
		wo := &workorder.WorkOrder{
			ID:        42,
			Status:    status,
			CreatorID: 5,
		}
		if status != workorder.StatusPending && status != workorder.StatusReturned {
			wo.AssignToID = &assigneeID
		}
		return wo
	}

	DescribeTable("CanAssign",
		func(status workorder.Status, id *internal.Identity, want bool) {
			Expect(workorder.CanAssign(order(status), *id)).To(Equal(want))
		},
		Entry("admin on pending", workorder.StatusPending, &admin, true),
		Entry("admin on returned", workorder.StatusReturned, &admin, true),
		Entry("admin on assigned", workorder.StatusAssigned, &admin, false),
		Entry("admin on processing", workorder.StatusProcessing, &admin, false),
		Entry("admin on closed", workorder.StatusClosed, &admin, false),
		Entry("non-admin on pending", workorder.StatusPending, &stranger, false),
		Entry("creator on pending", workorder.StatusPending, &creator, false),
	)

	DescribeTable("CanProcess",
		func(status workorder.Status, id *internal.Identity, want bool) {
			Expect(workorder.CanProcess(order(status), *id)).To(Equal(want))
		},
		Entry("assignee on assigned", workorder.StatusAssigned, &assignee, true),
		Entry("assignee on processing", workorder.StatusProcessing, &assignee, false),
		Entry("assignee on pending", workorder.StatusPending, &assignee, false),
		Entry("admin on assigned", workorder.StatusAssigned, &admin, false),
		Entry("stranger on assigned", workorder.StatusAssigned, &stranger, false),
	)

	DescribeTable("CanFinish",
		func(status workorder.Status, id *internal.Identity, want bool) {
			Expect(workorder.CanFinish(order(status), *id)).To(Equal(want))
		},
		Entry("assignee on processing", workorder.StatusProcessing, &assignee, true),
		Entry("assignee on assigned", workorder.StatusAssigned, &assignee, false),
		Entry("admin on processing", workorder.StatusProcessing, &admin, false),
		Entry("stranger on processing", workorder.StatusProcessing, &stranger, false),
	)

	DescribeTable("CanClose",
		func(status workorder.Status, id *internal.Identity, want bool) {
			Expect(workorder.CanClose(order(status), *id)).To(Equal(want))
		},
		Entry("admin on finished", workorder.StatusFinished, &admin, true),
		Entry("admin on processing", workorder.StatusProcessing, &admin, false),
		Entry("admin on closed", workorder.StatusClosed, &admin, false),
		Entry("assignee on finished", workorder.StatusFinished, &assignee, false),
		Entry("creator on finished", workorder.StatusFinished, &creator, false),
	)

	DescribeTable("CanReturn",
		func(status workorder.Status, id *internal.Identity, want bool) {
			Expect(workorder.CanReturn(order(status), *id)).To(Equal(want))
		},
		Entry("admin on assigned", workorder.StatusAssigned, &admin, true),
		Entry("admin on processing", workorder.StatusProcessing, &admin, true),
		Entry("assignee on assigned", workorder.StatusAssigned, &assignee, true),
		Entry("assignee on processing", workorder.StatusProcessing, &assignee, true),
		Entry("admin on pending", workorder.StatusPending, &admin, false),
		Entry("admin on finished", workorder.StatusFinished, &admin, false),
		Entry("stranger on assigned", workorder.StatusAssigned, &stranger, false),
		Entry("creator on processing", workorder.StatusProcessing, &creator, false),
	)

	DescribeTable("CanUpdate",
		func(status workorder.Status, id *internal.Identity, want bool) {
			Expect(workorder.CanUpdate(order(status), *id)).To(Equal(want))
		},
		Entry("creator on pending", workorder.StatusPending, &creator, true),
		Entry("creator on processing", workorder.StatusProcessing, &creator, true),
		Entry("creator on closed", workorder.StatusClosed, &creator, false),
		Entry("admin on finished", workorder.StatusFinished, &admin, true),
		Entry("admin on closed", workorder.StatusClosed, &admin, false),
		Entry("stranger on pending", workorder.StatusPending, &stranger, false),
	)

	DescribeTable("CanDelete",
		func(status workorder.Status, id *internal.Identity, want bool) {
			Expect(workorder.CanDelete(order(status), *id)).To(Equal(want))
		},
		Entry("creator on pending", workorder.StatusPending, &creator, true),
		Entry("creator on closed", workorder.StatusClosed, &creator, true),
		Entry("admin on closed", workorder.StatusClosed, &admin, true),
		Entry("assignee on assigned", workorder.StatusAssigned, &assignee, false),
		Entry("stranger on pending", workorder.StatusPending, &stranger, false),
	)

	Describe("super admin", func() {
		It("passes the admin-gated guards through the role check", func() {
			super := internal.Identity{ID: 2, Role: internal.SuperAdminRoleName}

			Expect(workorder.CanAssign(order(workorder.StatusPending), super)).To(BeTrue())
			Expect(workorder.CanClose(order(workorder.StatusFinished), super)).To(BeTrue())
			Expect(workorder.CanReturn(order(workorder.StatusAssigned), super)).To(BeTrue())
			Expect(workorder.CanDelete(order(workorder.StatusPending), super)).To(BeTrue())
		})
	})

	Describe("VisibleActions", func() {
		It("lists what the assignee can do on an assigned order", func() {
			actions := workorder.VisibleActions(order(workorder.StatusAssigned), assignee)

			Expect(actions).To(Equal([]workorder.Action{
				workorder.ActionProcess,
				workorder.ActionReturn,
			}))
		})

		It("lists what an admin can do on a finished order", func() {
			actions := workorder.VisibleActions(order(workorder.StatusFinished), admin)

			Expect(actions).To(Equal([]workorder.Action{
				workorder.ActionClose,
				workorder.ActionUpdate,
				workorder.ActionDelete,
			}))
		})

		It("offers the creator only delete on a closed order", func() {
			actions := workorder.VisibleActions(order(workorder.StatusClosed), creator)

			Expect(actions).To(Equal([]workorder.Action{workorder.ActionDelete}))
		})

		It("offers a stranger nothing", func() {
			actions := workorder.VisibleActions(order(workorder.StatusProcessing), stranger)

			Expect(actions).To(BeEmpty())
		})
	})
})

var _ = Describe("Status", func() {
	It("treats only closed as terminal", func() {
		Expect(workorder.StatusClosed.Terminal()).To(BeTrue())
		for _, s := range []workorder.Status{
			workorder.StatusPending, workorder.StatusAssigned, workorder.StatusProcessing,
			workorder.StatusFinished, workorder.StatusReturned,
		} {
			Expect(s.Terminal()).To(BeFalse(), "status %s", s)
		}
	})

	It("rejects unknown status values", func() {
		Expect(workorder.Status("archived").Valid()).To(BeFalse())
	})
})
