package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/api"
	"github.com/charlesng35/storeadmin/internal/app"
	"github.com/charlesng35/storeadmin/internal/app/maintenance"
	iauth "github.com/charlesng35/storeadmin/internal/auth"
	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/database"
	"github.com/charlesng35/storeadmin/internal/images"
	"github.com/charlesng35/storeadmin/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB      *gorm.DB
	Redis   *cache.RedisStore
	Store   cache.Store
	Tokens  *iauth.TokenService
	Cleaner *maintenance.Cleaner
	Router  *gin.Engine
}

// bootstrapRuntime initialises the database, cache, services, and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	dbStore := cache.NewDatabaseStore(stack.DB)
	stack.Store = dbStore

	if cfg.Cache.Redis.Enabled {
		redisStore, redisErr := cache.NewRedisStore(ctx, cfg.Cache.RedisClientConfig())
		if redisErr != nil {
			log.Warn("redis unavailable; falling back to database-backed operations", zap.Error(redisErr))
		} else {
			stack.Redis = redisStore
			stack.Store = redisStore
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	stack.Tokens, err = iauth.NewTokenService(stack.DB, jwtSvc, iauth.TokenConfig{Cache: iauth.NewTokenCache(stack.Store)})
	if err != nil {
		return nil, fmt.Errorf("initialise token service: %w", err)
	}

	imageStore, err := images.NewLocalStore(cfg.ImageStoreConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise image store: %w", err)
	}

	stack.Cleaner = maintenance.NewCleaner(stack.Tokens, dbStore,
		maintenance.WithTokenSchedule(cfg.Auth.Tokens.CleanupSchedule),
	)
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	stack.Router, err = api.NewRouter(api.Dependencies{
		DB:     stack.DB,
		Config: cfg,
		Tokens: stack.Tokens,
		Store:  stack.Store,
		Images: imageStore,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		stopCtx := s.Cleaner.Stop()
		<-stopCtx.Done()
		if _, err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn("redis shutdown", zap.Error(err))
		}
	}

	if s.DB != nil {
		if err := database.Close(s.DB); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseOptions()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(dbCfg.Driver)))

	return db, nil
}
