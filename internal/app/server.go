// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"strategy_backend/internal/auth"
	"strategy_backend/internal/config"
	"strategy_backend/internal/jobs"
	"strategy_backend/internal/middleware"
	"strategy_backend/internal/shared"
	"strategy_backend/internal/strategy"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	authHandler     *auth.Handler
	strategyHandler *strategy.Handler

	strategyExpiryJob *jobs.StrategyExpiryJob

	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	strategyHandler *strategy.Handler,
	strategyExpiryJob *jobs.StrategyExpiryJob,
	tokenService shared.TokenService,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))
	authRateLimitMW := middleware.RateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Strategy API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1, authMW, authRateLimitMW)
	strategyHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:        httpServer,
		router:            router,
		cfg:               cfg,
		logger:            logger,
		authHandler:       authHandler,
		strategyHandler:   strategyHandler,
		strategyExpiryJob: strategyExpiryJob,
		authMW:            authMW,
	}, nil
}

// Start runs the background jobs and blocks serving HTTP traffic.
func (s *Server) Start() error {
	if s.strategyExpiryJob != nil {
		if err := s.strategyExpiryJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start strategy expiry job", zap.Error(err))
		}
	} else {
		s.logger.Info("Strategy expiry job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

// Shutdown stops the jobs and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.strategyExpiryJob != nil {
		s.strategyExpiryJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
