package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Department   string    `gorm:"column:department"`
	Role         string    `gorm:"column:role"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
