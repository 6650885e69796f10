package permission_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/permission"
)

var _ = Describe("Registry", func() {
	var registry permission.Registry

	BeforeEach(func() {
		registry = permission.NewRegistry()
	})

	It("seeds the six built-in departments", func() {
		profiles := registry.List()

		names := make([]string, 0, len(profiles))
		for _, p := range profiles {
			names = append(names, p.Name)
			Expect(p.Builtin).To(BeTrue())
		}
		Expect(names).To(ConsistOf("技术部", "运营部", "管理部", "质检部", "财务部", "维护部"))
	})

	Describe("Put", func() {
		It("stores a custom profile as non-builtin", func() {
			err := registry.Put(permission.Profile{Name: "外包部", Builtin: true})
			Expect(err).NotTo(HaveOccurred())

			p, ok := registry.Profile("外包部")
			Expect(ok).To(BeTrue())
			Expect(p.Builtin).To(BeFalse())
		})

		It("preserves the builtin flag on update", func() {
			p, ok := registry.Profile("技术部")
			Expect(ok).To(BeTrue())

			p.Description = "updated"
			p.Builtin = false
			err := registry.Put(p)
			Expect(err).NotTo(HaveOccurred())

			updated, ok := registry.Profile("技术部")
			Expect(ok).To(BeTrue())
			Expect(updated.Description).To(Equal("updated"))
			Expect(updated.Builtin).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("refuses to delete a built-in department", func() {
			err := registry.Delete("管理部")
			Expect(err).To(Equal(internal.ErrBuiltinDepartment))

			_, ok := registry.Profile("管理部")
			Expect(ok).To(BeTrue())
		})

		It("deletes custom departments", func() {
			Expect(registry.Put(permission.Profile{Name: "外包部"})).To(Succeed())

			Expect(registry.Delete("外包部")).To(Succeed())

			_, ok := registry.Profile("外包部")
			Expect(ok).To(BeFalse())
		})

		It("reports unknown departments", func() {
			err := registry.Delete("不存在")
			Expect(err).To(Equal(internal.ErrDepartmentNotFound))
		})
	})
})
