// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"strategy_backend/internal/common"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByProvider(ctx context.Context, provider, providerID string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique index agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation detects duplicate-key failures from both the GORM error
// translation layer and the raw postgres driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

func (r *gormRepository) Create(ctx context.Context, user *User) error {
	if user.Email != nil {
		normalized := NormalizeEmail(*user.Email)
		user.Email = &normalized
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A user with this email already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found.")
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "email = ?", NormalizeEmail(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found.")
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) FindByProvider(ctx context.Context, provider, providerID string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		First(&user, "auth_provider = ? AND provider_id = ?", provider, providerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found.")
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) Update(ctx context.Context, user *User) error {
	if user.Email != nil {
		normalized := NormalizeEmail(*user.Email)
		user.Email = &normalized
	}
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A user with this email already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
