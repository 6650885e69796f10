package postgres

import (
	"errors"

	"github.com/frahmantamala/workorder-management/internal"
	userDatamodel "github.com/frahmantamala/workorder-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workorder-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var dm userDatamodel.User
	if err := r.db.First(&dm, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) GetByUsername(username string) (*user.User, error) {
	var dm userDatamodel.User
	if err := r.db.Where("username = ?", username).First(&dm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) ListActive(department string) ([]user.User, error) {
	query := r.db.Where("is_active = ?", true)
	if department != "" {
		query = query.Where("department = ?", department)
	}

	var dms []userDatamodel.User
	if err := query.Order("name ASC").Find(&dms).Error; err != nil {
		return nil, err
	}

	users := make([]user.User, 0, len(dms))
	for i := range dms {
		users = append(users, *user.FromDataModel(&dms[i]))
	}
	return users, nil
}

func (r *UserRepository) DisplayNames(userIDs []int64) (map[int64]string, error) {
	if len(userIDs) == 0 {
		return map[int64]string{}, nil
	}

	type nameRow struct {
		ID   int64  `gorm:"column:id"`
		Name string `gorm:"column:name"`
	}

	var rows []nameRow
	err := r.db.Table("users").
		Select("id, name").
		Where("id IN ?", userIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
