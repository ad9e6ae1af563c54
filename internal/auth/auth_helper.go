// File: internal/auth/auth_helper.go
package auth

import (
	"fmt"
	"net/http"

	"strategy_backend/internal/config"
	"strategy_backend/internal/platform/crypto"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL and googleEndpoint are variables so tests can point the
// provider calls at a local server.
var (
	GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	googleEndpoint    = google.Endpoint
)

// setOAuthCookie sets a secure cookie for the OAuth state value.
func setOAuthCookie(c *gin.Context, cfg *config.Config, name, value string) {
	maxAge := cfg.OAuthCookieMaxAgeMinutes * 60
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.OAuthCookieDomain,
		MaxAge:   maxAge,
		Secure:   cfg.OAuthCookieSecure,
		HttpOnly: cfg.OAuthCookieHTTPOnly,
		SameSite: parseSameSite(cfg.OAuthCookieSameSite),
	})
}

// getOAuthCookie retrieves and deletes an OAuth cookie.
func getOAuthCookie(c *gin.Context, cfg *config.Config, name string) (string, error) {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return "", fmt.Errorf("%s cookie not found: %w", name, err)
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cfg.OAuthCookieDomain,
		MaxAge:   -1,
		Secure:   cfg.OAuthCookieSecure,
		HttpOnly: cfg.OAuthCookieHTTPOnly,
		SameSite: parseSameSite(cfg.OAuthCookieSameSite),
	})
	return cookie.Value, nil
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "Lax":
		return http.SameSiteLaxMode
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func generateAndSetOAuthState(c *gin.Context, cfg *config.Config) (string, error) {
	state, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	setOAuthCookie(c, cfg, cfg.OAuthStateCookieName, state)
	return state, nil
}

func getGoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     googleEndpoint,
	}
}
