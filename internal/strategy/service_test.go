// File: internal/strategy/service_test.go
package strategy

import (
	"context"
	"testing"
	"time"

	"strategy_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Strategy{}))
	return NewService(NewGORMRepository(db), zap.NewNop())
}

func timePtr(t time.Time) *time.Time { return &t }

func TestService_Create(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateStrategyRequest{
		Name:         "SPY Iron Condor March",
		StrategyType: "iron_condor",
		EntryDate:    timePtr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		ExpiryDate:   timePtr(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)),
		Parameters: JSONMap{
			"short_call_strike": 520.0,
			"short_put_strike":  480.0,
		},
		Legs: JSONArray{
			map[string]interface{}{"side": "sell", "type": "call", "strike": 520.0},
			map[string]interface{}{"side": "buy", "type": "call", "strike": 525.0},
		},
		Notes: "Monthly income trade",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, StatusActive, created.Status)
	assert.Contains(t, created.Slug, "spy-iron-condor-march")

	got, err := svc.Get(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, 520.0, got.Parameters["short_call_strike"])
	assert.Len(t, got.Legs, 2)
}

func TestService_Create_ExpiryBeforeEntry(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateStrategyRequest{
		Name:         "Backwards dates",
		StrategyType: "straddle",
		EntryDate:    timePtr(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)),
		ExpiryDate:   timePtr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestService_Get_OtherUsersStrategyIsNotFound(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, CreateStrategyRequest{
		Name: "Private trade", StrategyType: "covered_call",
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), created.ID)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestService_List(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	userID := uuid.New()
	other := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, userID, CreateStrategyRequest{
			Name: "Mine", StrategyType: "strangle",
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, other, CreateStrategyRequest{
		Name: "Not mine", StrategyType: "strangle",
	})
	require.NoError(t, err)

	strategies, pagination, err := svc.List(ctx, userID, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, strategies, 3)
	assert.Equal(t, int64(3), pagination.TotalItems)
	for _, s := range strategies {
		assert.Equal(t, userID, s.UserID)
	}
}

func TestService_List_StatusFilterAndPagination(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	userID := uuid.New()

	var completed *Strategy
	for i := 0; i < 5; i++ {
		created, err := svc.Create(ctx, userID, CreateStrategyRequest{
			Name: "Trade", StrategyType: "vertical",
		})
		require.NoError(t, err)
		completed = created
	}
	status := StatusCompleted
	_, err := svc.Update(ctx, userID, completed.ID, UpdateStrategyRequest{Status: &status})
	require.NoError(t, err)

	active, pagination, err := svc.List(ctx, userID, ListQuery{Status: StatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 4)
	assert.Equal(t, int64(4), pagination.TotalItems)

	query := ListQuery{Status: StatusActive}
	query.Page = 2
	query.PageSize = 3
	page2, pagination, err := svc.List(ctx, userID, query)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
	assert.Equal(t, 2, pagination.CurrentPage)
	assert.True(t, pagination.HasPrev)
	assert.False(t, pagination.HasNext)
}

func TestService_Update(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateStrategyRequest{
		Name: "Open trade", StrategyType: "iron_condor",
	})
	require.NoError(t, err)

	status := StatusCompleted
	profit := 145.50
	notes := "Closed early at 50% max profit"
	updated, err := svc.Update(ctx, userID, created.ID, UpdateStrategyRequest{
		Status:       &status,
		ActualProfit: &profit,
		Notes:        &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, 145.50, *updated.ActualProfit)
	assert.Equal(t, notes, updated.Notes)
	require.NotNil(t, updated.ExitDate, "completing a strategy stamps the exit date")

	assert.Equal(t, "Open trade", updated.Name)
}

func TestService_Update_OtherUsersStrategyIsNotFound(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), CreateStrategyRequest{
		Name: "Owned", StrategyType: "calendar",
	})
	require.NoError(t, err)

	name := "Hijacked"
	_, err = svc.Update(ctx, uuid.New(), created.ID, UpdateStrategyRequest{Name: &name})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestService_Delete(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateStrategyRequest{
		Name: "Short lived", StrategyType: "butterfly",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, created.ID))

	_, err = svc.Get(ctx, userID, created.ID)
	require.Error(t, err)

	err = svc.Delete(ctx, userID, created.ID)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestService_ExpireOverdue(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	userID := uuid.New()

	overdue, err := svc.Create(ctx, userID, CreateStrategyRequest{
		Name: "Overdue", StrategyType: "strangle",
		ExpiryDate: timePtr(time.Now().Add(-48 * time.Hour)),
	})
	require.NoError(t, err)

	future, err := svc.Create(ctx, userID, CreateStrategyRequest{
		Name: "Future", StrategyType: "strangle",
		ExpiryDate: timePtr(time.Now().Add(48 * time.Hour)),
	})
	require.NoError(t, err)

	noExpiry, err := svc.Create(ctx, userID, CreateStrategyRequest{
		Name: "No expiry", StrategyType: "strangle",
	})
	require.NoError(t, err)

	count, err := svc.ExpireOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := svc.Get(ctx, userID, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.Status)

	got, err = svc.Get(ctx, userID, future.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)

	got, err = svc.Get(ctx, userID, noExpiry.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)
}
