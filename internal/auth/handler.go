// File: internal/auth/handler.go
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"strategy_backend/internal/common"
	"strategy_backend/internal/config"
	"strategy_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler handles authentication related HTTP requests.
type Handler struct {
	cfg          *config.Config
	logger       *zap.Logger
	userService  shared.UserService
	tokenService shared.TokenService
	oauthService *OAuthService
	blocklist    shared.TokenBlocklistService
}

// NewHandler creates a new auth handler.
func NewHandler(
	cfg *config.Config,
	logger *zap.Logger,
	userService shared.UserService,
	tokenService shared.TokenService,
	oauthService *OAuthService,
	blocklist shared.TokenBlocklistService,
) *Handler {
	return &Handler{
		cfg:          cfg,
		logger:       logger.Named("AuthHandler"),
		userService:  userService,
		tokenService: tokenService,
		oauthService: oauthService,
		blocklist:    blocklist,
	}
}

// RegisterRoutes sets up the authentication routes. authMW protects the
// routes that require a valid access token; rateLimitMW throttles the
// credential endpoints.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, rateLimitMW gin.HandlerFunc) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", rateLimitMW, h.register)
		authRoutes.POST("/login", rateLimitMW, h.login)
		authRoutes.GET("/me", authMW, h.me)
		authRoutes.POST("/logout", authMW, h.logout)

		if h.cfg.GoogleOAuthEnabled() {
			authRoutes.GET("/google", h.googleLogin)
			authRoutes.GET("/google/callback", h.googleCallback)
		}
	}
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload."))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), shared.UserRegistrationData{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	tokenResp, err := h.tokenService.GenerateAccessToken(user)
	if err != nil {
		h.logger.Error("Failed to issue token after registration", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer)
		return
	}

	common.RespondCreated(c, "Registration successful.", AuthResponse{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		ExpiresAt:   tokenResp.ExpiresAt,
		User:        user,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload."))
		return
	}

	user, err := h.userService.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	tokenResp, err := h.tokenService.GenerateAccessToken(user)
	if err != nil {
		h.logger.Error("Failed to issue token after login", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer)
		return
	}

	if err := h.userService.RecordLogin(c.Request.Context(), user.ID); err != nil {
		h.logger.Warn("Failed to record login time", zap.Error(err), zap.String("userID", user.ID.String()))
	}

	common.RespondOK(c, "Login successful.", AuthResponse{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		ExpiresAt:   tokenResp.ExpiresAt,
		User:        user,
	})
}

func (h *Handler) me(c *gin.Context) {
	userID, ok := common.GetUserIDFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "", user)
}

func (h *Handler) logout(c *gin.Context) {
	jti, ok := common.GetTokenJTIFromContext(c)
	if !ok || jti == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	exp, ok := common.GetTokenExpiryFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	if err := h.blocklist.Add(c.Request.Context(), jti, exp); err != nil {
		h.logger.Error("Failed to blocklist token", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer)
		return
	}

	common.RespondNoContent(c)
}

func (h *Handler) googleLogin(c *gin.Context) {
	state, err := generateAndSetOAuthState(c, h.cfg)
	if err != nil {
		h.logger.Error("Failed to generate OAuth state", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer)
		return
	}

	authURL := getGoogleOAuthConfig(h.cfg).AuthCodeURL(state)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) googleCallback(c *gin.Context) {
	expectedState, err := getOAuthCookie(c, h.cfg, h.cfg.OAuthStateCookieName)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		h.logger.Warn("OAuth state mismatch on Google callback")
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("OAuth state validation failed."))
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Info("Google sign-in denied by user", zap.String("error", errParam))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Google sign-in was cancelled or denied."))
		return
	}

	code := c.Query("code")
	if code == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing authorization code."))
		return
	}

	tokenResp, _, err := h.oauthService.HandleGoogleCallback(c.Request.Context(), code)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	redirectURL := fmt.Sprintf("%s/oauth-success?token=%s",
		h.cfg.FrontendURL, url.QueryEscape(tokenResp.AccessToken))
	c.Redirect(http.StatusFound, redirectURL)
}
