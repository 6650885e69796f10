package permission_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/permission"
)

var _ = Describe("Resolver", func() {
	var (
		registry permission.Registry
		resolver *permission.Resolver
	)

	BeforeEach(func() {
		registry = permission.NewRegistry()
		resolver = permission.NewResolver(registry)
	})

	Describe("Resolve", func() {
		Context("for a super admin by role name", func() {
			It("returns the full catalog on both axes", func() {
				identity := internal.Identity{ID: 1, Role: internal.SuperAdminRoleName}

				set := resolver.Resolve(identity)

				Expect(set.Pages.List()).To(ConsistOf(permission.PageIDs()))
				Expect(set.Buttons.List()).To(ConsistOf(permission.ButtonIDs()))
			})
		})

		Context("for a super admin by username", func() {
			It("returns the full catalog regardless of department", func() {
				identity := internal.Identity{ID: 2, Username: internal.SuperAdminUsername, Department: "技术部", Role: "工程师"}

				set := resolver.Resolve(identity)

				Expect(set.Pages.List()).To(ConsistOf(permission.PageIDs()))
				Expect(set.Buttons.List()).To(ConsistOf(permission.ButtonIDs()))
			})
		})

		Context("for an identity without a department", func() {
			It("returns exactly the default set", func() {
				identity := internal.Identity{ID: 3, Username: "nobody"}

				set := resolver.Resolve(identity)

				Expect(set.Equal(permission.DefaultSet())).To(BeTrue())
			})
		})

		Context("for an unknown department", func() {
			It("fails open to the default set", func() {
				identity := internal.Identity{ID: 4, Department: "X部", Role: "操作员"}

				set := resolver.Resolve(identity)

				Expect(set.Equal(permission.DefaultSet())).To(BeTrue())
			})
		})

		Context("for a known department", func() {
			It("unions the department grant with the defaults per axis", func() {
				identity := internal.Identity{ID: 5, Department: "运营部", Role: "操作员"}

				set := resolver.Resolve(identity)

				profile, ok := registry.Profile("运营部")
				Expect(ok).To(BeTrue())
				for _, page := range profile.Pages {
					Expect(set.HasPage(page)).To(BeTrue(), "missing granted page %s", page)
				}
				for _, page := range permission.DefaultSet().Pages.List() {
					Expect(set.HasPage(page)).To(BeTrue(), "missing default page %s", page)
				}
			})

			It("never shrinks below the default set", func() {
				err := registry.Put(permission.Profile{Name: "空部门"})
				Expect(err).NotTo(HaveOccurred())

				identity := internal.Identity{ID: 6, Department: "空部门"}
				set := resolver.Resolve(identity)

				Expect(set.Equal(permission.DefaultSet())).To(BeTrue())
			})

			It("keeps the page and button axes independent", func() {
				err := registry.Put(permission.Profile{
					Name:    "按钮部",
					Buttons: []string{permission.ButtonWorkOrderAssign},
				})
				Expect(err).NotTo(HaveOccurred())

				identity := internal.Identity{ID: 7, Department: "按钮部"}
				set := resolver.Resolve(identity)

				Expect(set.HasButton(permission.ButtonWorkOrderAssign)).To(BeTrue())
				Expect(set.HasPage(permission.ButtonWorkOrderAssign)).To(BeFalse())
			})
		})

		Context("with role-level grants", func() {
			BeforeEach(func() {
				err := registry.Put(permission.Profile{
					Name:  "轮班部",
					Pages: []string{"data_query"},
					Roles: map[string]permission.Grant{
						"班长": {Pages: []string{"data_entry", "data_query"}},
					},
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("prefers the role bucket when the role is mapped", func() {
				identity := internal.Identity{ID: 8, Department: "轮班部", Role: "班长"}

				set := resolver.Resolve(identity)

				Expect(set.HasPage("data_entry")).To(BeTrue())
			})

			It("falls back to the department bucket for unmapped roles", func() {
				identity := internal.Identity{ID: 9, Department: "轮班部", Role: "普通员工"}

				set := resolver.Resolve(identity)

				Expect(set.HasPage("data_query")).To(BeTrue())
				Expect(set.HasPage("data_entry")).To(BeFalse())
			})
		})

		It("is deterministic for the same identity and registry state", func() {
			identity := internal.Identity{ID: 10, Department: "技术部", Role: "工程师"}

			first := resolver.Resolve(identity)
			second := resolver.Resolve(identity)

			Expect(first.Equal(second)).To(BeTrue())
		})
	})

	Describe("with overridden defaults", func() {
		It("resolves an unknown department to exactly those defaults", func() {
			defaults := permission.EffectiveSet{
				Pages:   permission.NewIDSet(permission.PageMessages),
				Buttons: permission.NewIDSet(),
			}
			r := permission.NewResolver(registry, permission.WithDefaults(defaults))

			set := r.Resolve(internal.Identity{ID: 11, Department: "X部"})

			Expect(set.Pages.List()).To(Equal([]string{permission.PageMessages}))
			Expect(set.Buttons.List()).To(BeEmpty())
		})
	})

	Describe("HasPagePermission", func() {
		It("reflects the resolved set", func() {
			identity := internal.Identity{ID: 12, Username: "nobody"}

			Expect(resolver.HasPagePermission(identity, permission.PageMessages)).To(BeTrue())
			Expect(resolver.HasPagePermission(identity, "user_management")).To(BeFalse())
		})
	})
})
