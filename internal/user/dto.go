package user

import "github.com/frahmantamala/workorder-management/internal/permission"

// CurrentUserView is the /users/me response: the profile plus the resolved
// permission set the client drives its UI from.
type CurrentUserView struct {
	User        *User                       `json:"user"`
	Permissions permission.EffectiveSetView `json:"permissions"`
}

// AssignableUserView is the reduced shape returned by the assignee picker.
type AssignableUserView struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

func NewAssignableUserView(u User) AssignableUserView {
	return AssignableUserView{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		Department: u.Department,
		Role:       u.Role,
	}
}
