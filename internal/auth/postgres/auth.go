package postgres

import (
	"errors"

	"github.com/frahmantamala/workorder-management/internal"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

type credentialRow struct {
	ID           int64  `gorm:"column:id"`
	PasswordHash string `gorm:"column:password_hash"`
	IsActive     bool   `gorm:"column:is_active"`
}

type identityRow struct {
	ID         int64  `gorm:"column:id"`
	Username   string `gorm:"column:username"`
	Name       string `gorm:"column:name"`
	Department string `gorm:"column:department"`
	Role       string `gorm:"column:role"`
	IsActive   bool   `gorm:"column:is_active"`
}

func (r *AuthRepository) GetPasswordForUsername(username string) (string, int64, error) {
	var row credentialRow
	err := r.db.Table("users").
		Select("id, password_hash, is_active").
		Where("username = ?", username).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, internal.ErrUserNotFound
		}
		return "", 0, err
	}

	if !row.IsActive {
		return "", 0, internal.ErrUserInactive
	}

	return row.PasswordHash, row.ID, nil
}

func (r *AuthRepository) GetIdentity(userID int64) (*internal.Identity, error) {
	var row identityRow
	err := r.db.Table("users").
		Select("id, username, name, department, role, is_active").
		Where("id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	if !row.IsActive {
		return nil, internal.ErrUserInactive
	}

	return &internal.Identity{
		ID:         row.ID,
		Username:   row.Username,
		Name:       row.Name,
		Department: row.Department,
		Role:       row.Role,
	}, nil
}
