// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"sync"
	"time"

	"strategy_backend/internal/shared"

	"github.com/patrickmn/go-cache"
)

// InMemoryBlocklistService is an in-memory implementation of
// shared.TokenBlocklistService backed by an expiring cache.
type InMemoryBlocklistService struct {
	mu    sync.RWMutex
	cache *cache.Cache
}

var _ shared.TokenBlocklistService = (*InMemoryBlocklistService)(nil)

// InMemoryBlocklistConfig holds the configuration for the InMemoryBlocklistService.
type InMemoryBlocklistConfig struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}

// NewInMemoryBlocklistService creates a new in-memory blocklist service.
func NewInMemoryBlocklistService(cfg InMemoryBlocklistConfig) *InMemoryBlocklistService {
	return &InMemoryBlocklistService{
		cache: cache.New(cfg.DefaultExpiration, cfg.CleanupInterval),
	}
}

// Add records a token JTI until the token's natural expiry. Entries for
// already-expired tokens are skipped since validation rejects them anyway.
func (s *InMemoryBlocklistService) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	duration := time.Until(expiresAt)
	if duration <= 0 {
		return nil
	}

	s.cache.Set(jti, true, duration)
	return nil
}

// IsBlocked reports whether a token JTI has been revoked.
func (s *InMemoryBlocklistService) IsBlocked(ctx context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, found := s.cache.Get(jti)
	return found, nil
}
