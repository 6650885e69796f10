package permission_test

import (
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/permission"
)

var _ = Describe("Department Service", func() {
	var (
		registry permission.Registry
		service  *permission.Service
	)

	BeforeEach(func() {
		registry = permission.NewRegistry()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = permission.NewService(registry, logger)
	})

	Describe("CreateDepartment", func() {
		It("creates a custom department with a default color", func() {
			p, err := service.CreateDepartment(permission.DepartmentDTO{
				Name:  "外包部",
				Pages: []string{permission.PageWorkOrderList},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(p.Color).To(Equal("#757575"))
			Expect(p.Builtin).To(BeFalse())
		})

		It("rejects a duplicate department name", func() {
			_, err := service.CreateDepartment(permission.DepartmentDTO{Name: "技术部"})

			Expect(err).To(Equal(internal.ErrDepartmentExists))
		})

		It("rejects unknown permission ids", func() {
			_, err := service.CreateDepartment(permission.DepartmentDTO{
				Name:  "外包部",
				Pages: []string{"not_a_page"},
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUnknownPermissionID))
		})

		It("rejects an empty name", func() {
			_, err := service.CreateDepartment(permission.DepartmentDTO{})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateDepartment", func() {
		It("replaces the grant of an existing department", func() {
			_, err := service.CreateDepartment(permission.DepartmentDTO{
				Name:  "外包部",
				Pages: []string{permission.PageWorkOrderList},
			})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpdateDepartment("外包部", permission.DepartmentDTO{
				Pages:   []string{permission.PageWorkOrderCreate},
				Buttons: []string{permission.ButtonWorkOrderAssign},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Pages).To(Equal([]string{permission.PageWorkOrderCreate}))
			Expect(updated.Buttons).To(Equal([]string{permission.ButtonWorkOrderAssign}))
		})

		It("reports unknown departments", func() {
			_, err := service.UpdateDepartment("不存在", permission.DepartmentDTO{})

			Expect(err).To(Equal(internal.ErrDepartmentNotFound))
		})
	})

	Describe("DeleteDepartment", func() {
		It("refuses built-in departments", func() {
			err := service.DeleteDepartment("财务部")

			Expect(err).To(Equal(internal.ErrBuiltinDepartment))
		})

		It("deletes custom departments", func() {
			_, err := service.CreateDepartment(permission.DepartmentDTO{Name: "外包部"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteDepartment("外包部")).To(Succeed())
			_, err = service.Department("外包部")
			Expect(err).To(Equal(internal.ErrDepartmentNotFound))
		})
	})
})
