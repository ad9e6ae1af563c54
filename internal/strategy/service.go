// File: internal/strategy/service.go
package strategy

import (
	"context"
	"time"

	"strategy_backend/internal/common"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service implements the strategy business logic on top of the repository.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new strategy service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.Named("StrategyService"),
	}
}

// makeSlug derives a URL-safe identifier from the strategy name. The random
// suffix keeps slugs unique across users without a retry loop.
func makeSlug(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "strategy"
	}
	return base + "-" + uuid.NewString()[:8]
}

// Create records a new strategy for the given user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateStrategyRequest) (*Strategy, error) {
	if req.EntryDate != nil && req.ExpiryDate != nil && req.ExpiryDate.Before(*req.EntryDate) {
		return nil, common.NewValidationAPIError(map[string]string{
			"expiry_date": "The expiry date must not be before the entry date.",
		})
	}

	record := &Strategy{
		UserID:             userID,
		Name:               req.Name,
		Slug:               makeSlug(req.Name),
		StrategyType:       req.StrategyType,
		Status:             StatusActive,
		EntryDate:          req.EntryDate,
		ExpiryDate:         req.ExpiryDate,
		UnderlyingPrice:    req.UnderlyingPrice,
		Parameters:         req.Parameters,
		Legs:               req.Legs,
		HistoricalSnapshot: req.HistoricalSnapshot,
		Notes:              req.Notes,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Strategy created",
		zap.String("strategyID", record.ID.String()),
		zap.String("userID", userID.String()),
		zap.String("type", record.StrategyType))
	return record, nil
}

// Get fetches a single strategy owned by the user.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Strategy, error) {
	return s.repo.FindByID(ctx, userID, id)
}

// List returns the user's strategies, newest first, optionally filtered by
// status.
func (s *Service) List(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Strategy, *common.Pagination, error) {
	strategies, total, err := s.repo.List(ctx, userID, query)
	if err != nil {
		return nil, nil, err
	}
	pagination := common.NewPagination(total, query.Page, query.Limit())
	return strategies, pagination, nil
}

// Update applies a partial update to a strategy owned by the user. Marking a
// strategy completed stamps the exit date when the caller did not provide one.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateStrategyRequest) (*Strategy, error) {
	record, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		record.Name = *req.Name
	}
	if req.StrategyType != nil {
		record.StrategyType = *req.StrategyType
	}
	if req.Status != nil {
		record.Status = *req.Status
	}
	if req.EntryDate != nil {
		record.EntryDate = req.EntryDate
	}
	if req.ExpiryDate != nil {
		record.ExpiryDate = req.ExpiryDate
	}
	if req.ExitDate != nil {
		record.ExitDate = req.ExitDate
	}
	if req.UnderlyingPrice != nil {
		record.UnderlyingPrice = req.UnderlyingPrice
	}
	if req.ActualProfit != nil {
		record.ActualProfit = req.ActualProfit
	}
	if req.Parameters != nil {
		record.Parameters = req.Parameters
	}
	if req.Legs != nil {
		record.Legs = req.Legs
	}
	if req.HistoricalSnapshot != nil {
		record.HistoricalSnapshot = req.HistoricalSnapshot
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	if record.EntryDate != nil && record.ExpiryDate != nil && record.ExpiryDate.Before(*record.EntryDate) {
		return nil, common.NewValidationAPIError(map[string]string{
			"expiry_date": "The expiry date must not be before the entry date.",
		})
	}

	if record.Status == StatusCompleted && record.ExitDate == nil {
		now := time.Now()
		record.ExitDate = &now
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a strategy owned by the user.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("Strategy deleted",
		zap.String("strategyID", id.String()),
		zap.String("userID", userID.String()))
	return nil
}

// ExpireOverdue transitions active strategies past their expiry date.
// Invoked by the scheduled expiry job.
func (s *Service) ExpireOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	count, err := s.repo.MarkExpired(ctx, asOf)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("Expired overdue strategies", zap.Int64("count", count))
	}
	return count, nil
}
