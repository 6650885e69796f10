package permission_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/permission"
)

var _ = Describe("Gate", func() {
	var (
		gate     *permission.Gate
		resolver *permission.Resolver
		operator internal.Identity
	)

	BeforeEach(func() {
		resolver = permission.NewResolver(permission.NewRegistry())
		gate = permission.NewGate(resolver)
		operator = internal.Identity{ID: 7, Department: "运营部", Role: "操作员"}
	})

	Context("while identity resolution is in flight", func() {
		It("returns Loading, never a denial", func() {
			outcome := gate.Evaluate(permission.State{Loading: true}, permission.Requirement{
				Pages: []string{permission.PageWorkOrderList},
			})

			Expect(outcome).To(Equal(permission.OutcomeLoading))
		})

		It("returns Loading even with an identity attached", func() {
			outcome := gate.Evaluate(permission.State{Loading: true, Identity: &operator}, permission.Requirement{})

			Expect(outcome).To(Equal(permission.OutcomeLoading))
		})
	})

	Context("without an authenticated identity", func() {
		It("asks for login when the reminder is enabled", func() {
			outcome := gate.Evaluate(permission.State{}, permission.Requirement{})

			Expect(outcome).To(Equal(permission.OutcomeLoginRequired))
		})

		It("falls back silently when the reminder is disabled", func() {
			gate.ShowLoginReminder = false

			outcome := gate.Evaluate(permission.State{}, permission.Requirement{})

			Expect(outcome).To(Equal(permission.OutcomeFallback))
		})
	})

	Context("with an authenticated identity", func() {
		It("grants when there is no requirement at all", func() {
			outcome := gate.Evaluate(permission.State{Identity: &operator}, permission.Requirement{})

			Expect(outcome).To(Equal(permission.OutcomeGranted))
		})

		It("grants when any required page matches in ANY mode", func() {
			outcome := gate.Evaluate(permission.State{Identity: &operator}, permission.Requirement{
				Pages:    []string{"user_management", permission.PageWorkOrderList},
				PageMode: permission.MatchAny,
			})

			Expect(outcome).To(Equal(permission.OutcomeGranted))
		})

		It("falls back when a required page is missing in ALL mode", func() {
			outcome := gate.Evaluate(permission.State{Identity: &operator}, permission.Requirement{
				Pages:    []string{permission.PageWorkOrderList, "user_management"},
				PageMode: permission.MatchAll,
			})

			Expect(outcome).To(Equal(permission.OutcomeFallback))
		})

		It("requires both axes to pass", func() {
			outcome := gate.Evaluate(permission.State{Identity: &operator}, permission.Requirement{
				Pages:   []string{permission.PageWorkOrderList},
				Buttons: []string{permission.ButtonWorkOrderDelete},
			})

			Expect(outcome).To(Equal(permission.OutcomeFallback))
		})

		It("grants a super admin any requirement", func() {
			admin := internal.Identity{ID: 1, Role: internal.SuperAdminRoleName}

			outcome := gate.Evaluate(permission.State{Identity: &admin}, permission.Requirement{
				Pages:      permission.PageIDs(),
				PageMode:   permission.MatchAll,
				Buttons:    permission.ButtonIDs(),
				ButtonMode: permission.MatchAll,
			})

			Expect(outcome).To(Equal(permission.OutcomeGranted))
		})
	})
})
