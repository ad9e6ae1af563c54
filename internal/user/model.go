// File: internal/user/model.go
package user

import (
	"time"

	"strategy_backend/internal/common"
	"strategy_backend/internal/shared"

	"github.com/google/uuid"
)

// User is the GORM model for the users table. Email and PasswordHash are
// pointers because OAuth accounts may carry no password and, for some
// providers, no email either.
type User struct {
	common.BaseModel
	Email        *string    `gorm:"type:varchar(255);uniqueIndex:idx_users_email"`
	PasswordHash *string    `gorm:"type:varchar(255)"`
	Name         string     `gorm:"type:varchar(100);not null"`
	AuthProvider string     `gorm:"type:varchar(50);not null;default:'email';uniqueIndex:idx_users_provider_id,priority:1"`
	ProviderID   *string    `gorm:"type:varchar(255);uniqueIndex:idx_users_provider_id,priority:2"`
	Role         string     `gorm:"type:varchar(50);not null;default:'user'"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// GetID implements shared.UserDataForToken.
func (u *User) GetID() uuid.UUID { return u.ID }

// GetEmail implements shared.UserDataForToken.
func (u *User) GetEmail() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// GetRole implements shared.UserDataForToken.
func (u *User) GetRole() string { return u.Role }

// ToSharedUser maps the persistence model to the transport representation.
func (u *User) ToSharedUser() *shared.User {
	return &shared.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.GetEmail(),
		AuthProvider: u.AuthProvider,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
	}
}
