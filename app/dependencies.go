package app

import (
	"context"
	"fmt"

	"github.com/sevacare/backend/config"
	"github.com/sevacare/backend/middleware"
	"github.com/sevacare/backend/repositories"
	"github.com/sevacare/backend/repositories/postgres"
	"github.com/sevacare/backend/services/auth"
	"github.com/sevacare/backend/services/authz"
	"github.com/sevacare/backend/services/ratelimit"
	"github.com/sevacare/backend/token"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. Every service is an
// explicit instance wired here; nothing reaches for package-level state.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *postgres.DB

	AdminRepo repositories.AdminRepository
	UserRepo  repositories.UserRepository

	TokenCodec  *token.Codec
	RateLimiter *ratelimit.Service
	Authz       *authz.Service
	Auth        *auth.Service

	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware

	sweeperCancel context.CancelFunc
}

// NewDependencies wires the full dependency graph from configuration.
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	db, err := postgres.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	adminRepo := postgres.NewAdminRepository(db, logger)
	userRepo := postgres.NewUserRepository(db, logger)

	codec, err := token.NewCodec(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to build token codec: %w", err)
	}

	limiter := ratelimit.NewService(logger)
	sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
	go limiter.StartSweeper(sweeperCtx, cfg.RateLimit.SweepInterval)

	authzService := authz.NewService(adminRepo, cfg.Database.LookupTimeout, logger)
	authService := auth.NewService(userRepo, codec, logger)

	hardened := cfg.IsProduction()
	authMw := middleware.NewAuthMiddleware(codec, authzService, logger, hardened)
	rateLimitMw := middleware.NewRateLimitMiddleware(limiter, logger, hardened)

	logger.Info("dependencies initialized",
		zap.String("environment", cfg.Environment),
		zap.Bool("hardened_errors", hardened))

	return &Dependencies{
		Config:              cfg,
		Logger:              logger,
		DB:                  db,
		AdminRepo:           adminRepo,
		UserRepo:            userRepo,
		TokenCodec:          codec,
		RateLimiter:         limiter,
		Authz:               authzService,
		Auth:                authService,
		AuthMiddleware:      authMw,
		RateLimitMiddleware: rateLimitMw,
		sweeperCancel:       sweeperCancel,
	}, nil
}

// Hardened reports whether error responses hide internal detail.
func (d *Dependencies) Hardened() bool {
	return d.Config.IsProduction()
}

// Close releases all held resources in reverse initialization order.
func (d *Dependencies) Close() error {
	if d.sweeperCancel != nil {
		d.sweeperCancel()
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("failed to close database", zap.Error(err))
			return err
		}
	}
	return nil
}
