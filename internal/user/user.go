package user

import (
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	userDatamodel "github.com/frahmantamala/workorder-management/internal/core/datamodel/user"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Department   string    `json:"department"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity projects the fields permission resolution cares about.
func (u *User) Identity() internal.Identity {
	return internal.Identity{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		Department: u.Department,
		Role:       u.Role,
	}
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Department:   u.Department,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Department:   u.Department,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
