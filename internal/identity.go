package internal

// Reserved identifiers that mark an account as super administrator. Super
// admin status is derived from these conventions, never stored.
const (
	SuperAdminRoleName = "超级系统管理员"
	SuperAdminUsername = "superadmin"

	AdminRoleName = "admin"
)

// Identity is the authenticated caller as seen by the permission resolver and
// the work-order lifecycle. Department and Role may be empty; both are
// normalized to plain strings at the auth boundary.
type Identity struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

func (i Identity) IsSuperAdmin() bool {
	return i.Role == SuperAdminRoleName || i.Username == SuperAdminUsername
}

func (i Identity) IsAdmin() bool {
	return i.Role == AdminRoleName || i.IsSuperAdmin()
}
