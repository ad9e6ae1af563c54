// File: internal/strategy/handler_test.go
package strategy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"strategy_backend/internal/auth"
	"strategy_backend/internal/config"
	"strategy_backend/internal/middleware"
	"strategy_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testIdentity struct {
	id uuid.UUID
}

func (u testIdentity) GetID() uuid.UUID { return u.id }
func (u testIdentity) GetEmail() string { return "owner@example.com" }
func (u testIdentity) GetRole() string  { return shared.RoleUser }

func setupHandlerTest(t *testing.T) (*gin.Engine, func(uuid.UUID) string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Strategy{}))

	cfg := &config.Config{
		JWTSecretKey:         "strategy-handler-test-secret",
		JWTIssuer:            "strategy-backend-test",
		JWTAccessTokenExpiry: time.Hour,
	}
	logger := zap.NewNop()
	tokenService := auth.NewJWTService(cfg, logger, nil)

	handler := NewHandler(NewService(NewGORMRepository(db), logger), logger)

	router := gin.New()
	authMW := middleware.AuthMiddleware(tokenService, logger)
	handler.RegisterRoutes(router.Group("/api/v1"), authMW)

	mintToken := func(userID uuid.UUID) string {
		resp, err := tokenService.GenerateAccessToken(testIdentity{id: userID})
		require.NoError(t, err)
		return resp.AccessToken
	}
	return router, mintToken
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createViaAPI(t *testing.T, router *gin.Engine, token, name string) uuid.UUID {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/v1/strategies", gin.H{
		"name":          name,
		"strategy_type": "iron_condor",
		"parameters":    gin.H{"width": 5.0},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func TestStrategyHandler_RequiresAuth(t *testing.T) {
	router, _ := setupHandlerTest(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/strategies", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/v1/strategies", gin.H{
		"name": "No auth", "strategy_type": "straddle",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStrategyHandler_CreateAndGet(t *testing.T) {
	router, mintToken := setupHandlerTest(t)
	token := mintToken(uuid.New())

	id := createViaAPI(t, router, token, "SPY Iron Condor")

	w := doRequest(t, router, http.MethodGet, "/api/v1/strategies/"+id.String(), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SPY Iron Condor")

	t.Run("missing name is rejected", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/strategies", gin.H{
			"strategy_type": "straddle",
		}, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/strategies/not-a-uuid", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStrategyHandler_OwnershipIsolation(t *testing.T) {
	router, mintToken := setupHandlerTest(t)
	ownerToken := mintToken(uuid.New())
	otherToken := mintToken(uuid.New())

	id := createViaAPI(t, router, ownerToken, "Private condor")

	w := doRequest(t, router, http.MethodGet, "/api/v1/strategies/"+id.String(), nil, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPatch, "/api/v1/strategies/"+id.String(), gin.H{
		"name": "Hijacked",
	}, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/api/v1/strategies/"+id.String(), nil, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/strategies", nil, otherToken)
	assert.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data []Strategy `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Data)
}

func TestStrategyHandler_List(t *testing.T) {
	router, mintToken := setupHandlerTest(t)
	token := mintToken(uuid.New())

	for i := 0; i < 3; i++ {
		createViaAPI(t, router, token, fmt.Sprintf("Trade %d", i))
	}

	w := doRequest(t, router, http.MethodGet, "/api/v1/strategies?page=1&page_size=2", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data       []Strategy `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
			TotalPages int   `json:"total_pages"`
			HasNext    bool  `json:"has_next"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(3), resp.Pagination.TotalItems)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)

	t.Run("invalid status filter", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/strategies?status=bogus", nil, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestStrategyHandler_UpdateAndDelete(t *testing.T) {
	router, mintToken := setupHandlerTest(t)
	token := mintToken(uuid.New())

	id := createViaAPI(t, router, token, "Open trade")

	w := doRequest(t, router, http.MethodPatch, "/api/v1/strategies/"+id.String(), gin.H{
		"status":        "completed",
		"actual_profit": 212.75,
	}, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)
	assert.Contains(t, w.Body.String(), "exit_date")

	t.Run("invalid status value", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPatch, "/api/v1/strategies/"+id.String(), gin.H{
			"status": "abandoned",
		}, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	w = doRequest(t, router, http.MethodDelete, "/api/v1/strategies/"+id.String(), nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/strategies/"+id.String(), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
