// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"strategy_backend/internal/app"
	"strategy_backend/internal/auth"
	"strategy_backend/internal/config"
	"strategy_backend/internal/jobs"
	"strategy_backend/internal/platform/logger"
	"strategy_backend/internal/shared"
	"strategy_backend/internal/strategy"
	"strategy_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideGORM,
		provideCleanup,

		// Auth
		provideBlocklist,
		auth.NewJWTService,
		wire.Bind(new(shared.TokenService), new(*auth.JWTService)),
		auth.NewOAuthService,
		auth.NewHandler,

		// Users
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.UserService), new(*user.Service)),

		// Strategies
		strategy.NewGORMRepository,
		strategy.NewService,
		strategy.NewHandler,
		jobs.NewStrategyExpiryJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
