package permission

import (
	"fmt"

	"github.com/frahmantamala/workorder-management/internal"
	"github.com/frahmantamala/workorder-management/internal/core/common/validation"
)

// DepartmentDTO is the payload for creating or updating a department profile.
type DepartmentDTO struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Color       string           `json:"color"`
	Pages       []string         `json:"pages"`
	Buttons     []string         `json:"buttons"`
	Roles       map[string]Grant `json:"roles,omitempty"`
}

func (d DepartmentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(64)
	v.Field("description", d.Description).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}

	if err := validateIDs("pages", d.Pages, IsPageID); err != nil {
		return err
	}
	if err := validateIDs("buttons", d.Buttons, IsButtonID); err != nil {
		return err
	}
	for role, grant := range d.Roles {
		if err := validateIDs(fmt.Sprintf("roles.%s.pages", role), grant.Pages, IsPageID); err != nil {
			return err
		}
		if err := validateIDs(fmt.Sprintf("roles.%s.buttons", role), grant.Buttons, IsButtonID); err != nil {
			return err
		}
	}
	return nil
}

func validateIDs(field string, ids []string, known func(string) bool) *internal.AppError {
	for _, id := range ids {
		if !known(id) {
			return internal.NewValidationFieldError(field,
				fmt.Sprintf("unknown permission id %q", id),
				internal.ErrCodeUnknownPermissionID)
		}
	}
	return nil
}

// EffectiveSetView is the JSON shape of a resolved permission set.
type EffectiveSetView struct {
	Pages   []string `json:"pages"`
	Buttons []string `json:"buttons"`
}

func NewEffectiveSetView(set EffectiveSet) EffectiveSetView {
	return EffectiveSetView{
		Pages:   set.Pages.List(),
		Buttons: set.Buttons.List(),
	}
}
