// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"time"

	"strategy_backend/internal/common"
	"strategy_backend/internal/config"
	"strategy_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errInvalidCredentials is the single message returned for every credential
// failure so responses do not reveal whether an email is registered.
var errInvalidCredentials = common.ErrUnauthorized.WithDetails("Invalid email or password.")

// Service implements shared.UserService on top of the user repository.
type Service struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.UserService = (*Service)(nil)

// NewService creates a new user service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("UserService"),
	}
}

// Register creates a password based account. The unique index on email is the
// source of truth for duplicates; the lookup beforehand only gives a cleaner
// error on the common path.
func (s *Service) Register(ctx context.Context, data shared.UserRegistrationData) (*shared.User, error) {
	email := NormalizeEmail(data.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrConflict.WithDetails("A user with this email already exists.")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := common.HashPassword(data.Password, s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, common.ErrPasswordTooLong) {
			return nil, common.NewValidationAPIError(map[string]string{
				"password": "The password may not be longer than 72 bytes.",
			})
		}
		s.logger.Error("Password hashing failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	newUser := &User{
		Email:        &email,
		PasswordHash: &hash,
		Name:         data.Name,
		AuthProvider: shared.ProviderEmail,
		Role:         shared.RoleUser,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("userID", newUser.ID.String()))
	return newUser.ToSharedUser(), nil
}

// VerifyCredentials checks an email/password pair. Unknown email, wrong
// password and OAuth-only accounts all fail with the same error, and the
// password check runs even without a stored hash to keep timing uniform.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (*shared.User, error) {
	found, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.CheckPasswordHash(password, "")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if found.PasswordHash == nil {
		common.CheckPasswordHash(password, "")
		return nil, errInvalidCredentials
	}

	if !common.CheckPasswordHash(password, *found.PasswordHash) {
		return nil, errInvalidCredentials
	}

	return found.ToSharedUser(), nil
}

// FindOrCreateOAuthUser resolves an OAuth profile to a local account,
// creating one on first sign-in. An existing password account with the same
// email is linked to the provider rather than duplicated.
func (s *Service) FindOrCreateOAuthUser(ctx context.Context, profile shared.OAuthUserProfile) (*shared.User, error) {
	found, err := s.repo.FindByProvider(ctx, profile.Provider, profile.ProviderID)
	if err == nil {
		return found.ToSharedUser(), nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if profile.Email != "" && profile.EmailVerified {
		byEmail, emailErr := s.repo.FindByEmail(ctx, profile.Email)
		if emailErr == nil {
			byEmail.AuthProvider = profile.Provider
			byEmail.ProviderID = &profile.ProviderID
			if updateErr := s.repo.Update(ctx, byEmail); updateErr != nil {
				return nil, updateErr
			}
			s.logger.Info("Linked existing account to OAuth provider",
				zap.String("userID", byEmail.ID.String()),
				zap.String("provider", profile.Provider))
			return byEmail.ToSharedUser(), nil
		}
		if !errors.Is(emailErr, common.ErrNotFound) {
			return nil, emailErr
		}
	}

	newUser := &User{
		Name:         profile.Name,
		AuthProvider: profile.Provider,
		ProviderID:   &profile.ProviderID,
		Role:         shared.RoleUser,
	}
	if profile.Email != "" {
		email := NormalizeEmail(profile.Email)
		newUser.Email = &email
	}
	if newUser.Name == "" {
		newUser.Name = "User"
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	s.logger.Info("User created via OAuth",
		zap.String("userID", newUser.ID.String()),
		zap.String("provider", profile.Provider))
	return newUser.ToSharedUser(), nil
}

// GetUserByID fetches a user by ID.
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return found.ToSharedUser(), nil
}

// RecordLogin stamps the user's last login time.
func (s *Service) RecordLogin(ctx context.Context, userID uuid.UUID) error {
	return s.repo.UpdateLastLogin(ctx, userID, time.Now())
}
