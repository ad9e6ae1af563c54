// File: internal/strategy/repository.go
package strategy

import (
	"context"
	"errors"
	"time"

	"strategy_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for strategies. All reads and
// writes are scoped to the owning user; records belonging to other users are
// indistinguishable from missing ones.
type Repository interface {
	Create(ctx context.Context, s *Strategy) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Strategy, error)
	List(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Strategy, int64, error)
	Update(ctx context.Context, s *Strategy) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	MarkExpired(ctx context.Context, asOf time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM strategy repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, s *Strategy) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("A strategy with this slug already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*Strategy, error) {
	var s Strategy
	err := r.db.WithContext(ctx).
		First(&s, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Strategy not found.")
		}
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) List(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Strategy, int64, error) {
	tx := r.db.WithContext(ctx).Model(&Strategy{}).Where("user_id = ?", userID)
	if query.Status != "" {
		tx = tx.Where("status = ?", query.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var strategies []Strategy
	err := tx.Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&strategies).Error
	if err != nil {
		return nil, 0, err
	}
	return strategies, total, nil
}

func (r *gormRepository) Update(ctx context.Context, s *Strategy) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *gormRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Strategy{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Strategy not found.")
	}
	return nil
}

// MarkExpired flips active strategies whose expiry date has passed to the
// expired status and returns how many rows changed.
func (r *gormRepository) MarkExpired(ctx context.Context, asOf time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Strategy{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", StatusActive, asOf).
		Update("status", StatusExpired)
	return result.RowsAffected, result.Error
}
