package user

import (
	"time"

	"profile-service/internal/domain"
)

// Model is the gorm mapping of the users table.
type Model struct {
	ID       string  `gorm:"primaryKey;type:varchar(36)"`
	Email    string  `gorm:"uniqueIndex;size:255;not null"`
	Password string  `gorm:"column:password;size:255;not null"`
	Name     string  `gorm:"size:255;not null"`
	Bio      *string `gorm:"type:text"`
	IsActive bool    `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Model) TableName() string { return "users" }

func FromDomain(u *domain.User) *Model {
	return &Model{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Name:      u.Name,
		Bio:       u.Bio,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m *Model) ToDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.Password,
		Name:         m.Name,
		Bio:          m.Bio,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
