// File: internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"strategy_backend/internal/config"
	"strategy_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned for any token that fails validation. The cause
// is deliberately not exposed to callers.
var ErrInvalidToken = errors.New("invalid or expired token")

// JWTService issues and validates HS256 access tokens.
type JWTService struct {
	cfg       *config.Config
	logger    *zap.Logger
	blocklist shared.TokenBlocklistService
}

var _ shared.TokenService = (*JWTService)(nil)

// NewJWTService creates a new JWT token service.
func NewJWTService(cfg *config.Config, logger *zap.Logger, blocklist shared.TokenBlocklistService) *JWTService {
	return &JWTService{
		cfg:       cfg,
		logger:    logger.Named("JWTService"),
		blocklist: blocklist,
	}
}

// GenerateAccessToken mints a signed access token for the given user.
func (s *JWTService) GenerateAccessToken(user shared.UserDataForToken) (*shared.TokenResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWTAccessTokenExpiry)

	claims := shared.Claims{
		UserID: user.GetID(),
		Email:  user.GetEmail(),
		Role:   user.GetRole(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.GetID().String(),
			Issuer:    s.cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &shared.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// ValidateToken parses and verifies a token string, returning its claims.
// Any failure, including a revoked JTI, yields ErrInvalidToken.
func (s *JWTService) ValidateToken(tokenString string) (*shared.Claims, error) {
	claims := &shared.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Accepting only HMAC prevents tokens signed with other algorithms
		// from being verified against the shared secret.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil || !token.Valid {
		s.logger.Debug("Token validation failed", zap.Error(err))
		return nil, ErrInvalidToken
	}

	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	if s.blocklist != nil && claims.ID != "" {
		blocked, blErr := s.blocklist.IsBlocked(context.Background(), claims.ID)
		if blErr != nil {
			s.logger.Error("Blocklist lookup failed", zap.Error(blErr))
			return nil, ErrInvalidToken
		}
		if blocked {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}
