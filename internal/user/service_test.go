// File: internal/user/service_test.go
package user

import (
	"context"
	"testing"

	"strategy_backend/internal/common"
	"strategy_backend/internal/config"
	"strategy_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func setupService(t *testing.T) *Service {
	t.Helper()
	repo := NewGORMRepository(setupTestDB(t))
	cfg := &config.Config{BcryptCost: bcrypt.MinCost}
	return NewService(repo, cfg, zap.NewNop())
}

func TestService_Register(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, shared.UserRegistrationData{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, shared.ProviderEmail, created.AuthProvider)
	assert.Equal(t, shared.RoleUser, created.Role)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, shared.UserRegistrationData{
		Name: "Alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, shared.UserRegistrationData{
		Name: "Imposter", Email: "ALICE@example.com", Password: "different456",
	})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
}

func TestService_VerifyCredentials(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, shared.UserRegistrationData{
		Name: "Bob", Email: "bob@example.com", Password: "correct-password",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.VerifyCredentials(ctx, "bob@example.com", "correct-password")
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", got.Email)
	})

	t.Run("case insensitive email", func(t *testing.T) {
		got, err := svc.VerifyCredentials(ctx, "BOB@Example.com", "correct-password")
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", got.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.VerifyCredentials(ctx, "bob@example.com", "wrong-password")
		require.Error(t, err)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, common.ErrUnauthorized.Code, apiErr.Code)
		assert.Equal(t, "Invalid email or password.", apiErr.Details)
	})

	t.Run("unknown email yields same error", func(t *testing.T) {
		_, err := svc.VerifyCredentials(ctx, "nobody@example.com", "correct-password")
		require.Error(t, err)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, common.ErrUnauthorized.Code, apiErr.Code)
		assert.Equal(t, "Invalid email or password.", apiErr.Details)
	})
}

func TestService_VerifyCredentials_OAuthOnlyAccount(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.FindOrCreateOAuthUser(ctx, shared.OAuthUserProfile{
		Provider:      shared.ProviderGoogle,
		ProviderID:    "google-sub-123",
		Email:         "carol@example.com",
		EmailVerified: true,
		Name:          "Carol",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	_, err = svc.VerifyCredentials(ctx, "carol@example.com", "any-password")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrUnauthorized.Code, apiErr.Code)
}

func TestService_FindOrCreateOAuthUser(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	t.Run("creates on first sign in", func(t *testing.T) {
		got, err := svc.FindOrCreateOAuthUser(ctx, shared.OAuthUserProfile{
			Provider:      shared.ProviderGoogle,
			ProviderID:    "sub-1",
			Email:         "dana@example.com",
			EmailVerified: true,
			Name:          "Dana",
		})
		require.NoError(t, err)
		assert.Equal(t, shared.ProviderGoogle, got.AuthProvider)
	})

	t.Run("returns same user on repeat sign in", func(t *testing.T) {
		first, err := svc.FindOrCreateOAuthUser(ctx, shared.OAuthUserProfile{
			Provider: shared.ProviderGoogle, ProviderID: "sub-2",
			Email: "erin@example.com", EmailVerified: true, Name: "Erin",
		})
		require.NoError(t, err)

		second, err := svc.FindOrCreateOAuthUser(ctx, shared.OAuthUserProfile{
			Provider: shared.ProviderGoogle, ProviderID: "sub-2",
			Email: "erin@example.com", EmailVerified: true, Name: "Erin",
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("links existing password account by verified email", func(t *testing.T) {
		registered, err := svc.Register(ctx, shared.UserRegistrationData{
			Name: "Frank", Email: "frank@example.com", Password: "password123",
		})
		require.NoError(t, err)

		linked, err := svc.FindOrCreateOAuthUser(ctx, shared.OAuthUserProfile{
			Provider: shared.ProviderGoogle, ProviderID: "sub-3",
			Email: "frank@example.com", EmailVerified: true, Name: "Frank",
		})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, linked.ID)
		assert.Equal(t, shared.ProviderGoogle, linked.AuthProvider)
	})

	t.Run("unverified email does not link accounts", func(t *testing.T) {
		registered, err := svc.Register(ctx, shared.UserRegistrationData{
			Name: "Grace", Email: "grace@example.com", Password: "password123",
		})
		require.NoError(t, err)

		got, err := svc.FindOrCreateOAuthUser(ctx, shared.OAuthUserProfile{
			Provider: shared.ProviderGoogle, ProviderID: "sub-4",
			Email: "", EmailVerified: false, Name: "Grace",
		})
		require.NoError(t, err)
		assert.NotEqual(t, registered.ID, got.ID)
	})
}

func TestService_GetUserByID(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, shared.UserRegistrationData{
		Name: "Henry", Email: "henry@example.com", Password: "password123",
	})
	require.NoError(t, err)

	got, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetUserByID(ctx, uuid.New())
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestService_RecordLogin(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, shared.UserRegistrationData{
		Name: "Iris", Email: "iris@example.com", Password: "password123",
	})
	require.NoError(t, err)
	require.Nil(t, created.LastLoginAt)

	require.NoError(t, svc.RecordLogin(ctx, created.ID))

	got, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
}
