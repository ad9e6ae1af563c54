// File: internal/auth/oauth_service.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"strategy_backend/internal/common"
	"strategy_backend/internal/config"
	"strategy_backend/internal/shared"

	"go.uber.org/zap"
)

// OAuthService drives the Google authorization code flow.
type OAuthService struct {
	cfg          *config.Config
	logger       *zap.Logger
	userService  shared.UserService
	tokenService shared.TokenService
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(
	cfg *config.Config,
	logger *zap.Logger,
	userService shared.UserService,
	tokenService shared.TokenService,
) *OAuthService {
	return &OAuthService{
		cfg:          cfg,
		logger:       logger.Named("OAuthService"),
		userService:  userService,
		tokenService: tokenService,
	}
}

// HandleGoogleCallback exchanges the authorization code, fetches the user's
// Google profile, finds or creates the matching account, and mints a token.
// No user record is created unless the full exchange succeeds.
func (s *OAuthService) HandleGoogleCallback(ctx context.Context, code string) (*shared.TokenResponse, *shared.User, error) {
	exchangeCtx, cancel := context.WithTimeout(ctx, s.cfg.OAuthExchangeTimeout)
	defer cancel()

	oauthCfg := getGoogleOAuthConfig(s.cfg)
	token, err := oauthCfg.Exchange(exchangeCtx, code)
	if err != nil {
		s.logger.Warn("Google code exchange failed", zap.Error(err))
		return nil, nil, common.ErrServiceUnavailable.WithDetails("Could not verify the Google sign-in. Please try again.")
	}

	profile, err := s.fetchGoogleProfile(exchangeCtx, token.AccessToken)
	if err != nil {
		s.logger.Warn("Google profile fetch failed", zap.Error(err))
		return nil, nil, common.ErrServiceUnavailable.WithDetails("Could not retrieve your Google profile. Please try again.")
	}

	user, err := s.userService.FindOrCreateOAuthUser(ctx, *profile)
	if err != nil {
		return nil, nil, err
	}

	tokenResp, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, common.ErrInternalServer
	}

	if err := s.userService.RecordLogin(ctx, user.GetID()); err != nil {
		s.logger.Warn("Failed to record login time", zap.Error(err))
	}

	return tokenResp, user, nil
}

func (s *OAuthService) fetchGoogleProfile(ctx context.Context, accessToken string) (*shared.OAuthUserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, GoogleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("userinfo response missing subject identifier")
	}

	return &shared.OAuthUserProfile{
		Provider:      shared.ProviderGoogle,
		ProviderID:    info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          info.Name,
	}, nil
}
