package api

import (
	"errors"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/app"
	iauth "github.com/charlesng35/storeadmin/internal/auth"
	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/handlers"
	"github.com/charlesng35/storeadmin/internal/images"
	"github.com/charlesng35/storeadmin/internal/middleware"
	"github.com/charlesng35/storeadmin/internal/monitoring"
	"github.com/charlesng35/storeadmin/internal/monitoring/checks"
	"github.com/charlesng35/storeadmin/internal/repository"
)

// Dependencies are the long-lived services the router wires into handlers.
type Dependencies struct {
	DB     *gorm.DB
	Config *app.Config
	Tokens *iauth.TokenService
	// Store backs the repository cache, request rate limits and login throttling.
	Store  cache.Store
	Images images.Store
}

func (d Dependencies) validate() error {
	switch {
	case d.DB == nil:
		return errors.New("database handle must be provided")
	case d.Config == nil:
		return errors.New("config must be provided")
	case d.Tokens == nil:
		return errors.New("token service must be provided")
	case d.Images == nil:
		return errors.New("image store must be provided")
	}
	return nil
}

// NewRouter builds the Gin engine, wires middleware and registers every route.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	cfg := deps.Config

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins...))
	r.Use(middleware.RateLimit(middleware.NewRateStore(deps.Store), cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))

	r.NoRoute(middleware.NotFoundHandler)

	health := monitoring.NewHealthManager(
		checks.Database(deps.DB, 0),
		checks.Cache(deps.Store, 0),
	)
	r.GET("/health", handlers.Health(health))
	registerMetricsRoute(r, cfg.Monitoring.Prometheus)

	root := cfg.ImageStoreConfig().Root
	r.Static("/assets", filepath.Join(root, "assets"))

	accounts, err := iauth.NewAccountService(deps.DB)
	if err != nil {
		return nil, err
	}
	attempts, window := cfg.Auth.LoginLimits()
	limiter := iauth.NewLoginLimiter(deps.Store, attempts, window)

	readThrough := cache.NewReadThrough(deps.Store)
	ttls := repository.WithTTLs(cfg.Cache.CacheTTLs())

	brands, err := repository.NewBrandRepository(deps.DB, readThrough, ttls)
	if err != nil {
		return nil, err
	}
	categories, err := repository.NewCategoryRepository(deps.DB, readThrough, deps.Images, ttls)
	if err != nil {
		return nil, err
	}
	products, err := repository.NewProductRepository(deps.DB, readThrough, ttls)
	if err != nil {
		return nil, err
	}
	locations, err := repository.NewLocationRepository(deps.DB)
	if err != nil {
		return nil, err
	}

	requireAuth := middleware.Auth(deps.Tokens)
	v1 := r.Group("/api/v1")

	registerAuthRoutes(v1, requireAuth, handlers.NewAuthHandler(accounts, deps.Tokens, limiter))
	registerCatalogRoutes(v1, requireAuth, catalogHandlers{
		Brands:     handlers.NewBrandHandler(brands),
		Categories: handlers.NewCategoryHandler(categories, deps.Images, cfg.Storage.ImagePolicy(), cfg.Storage.ImageDir()),
		Products:   handlers.NewProductHandler(products, categories, brands),
	})
	registerLocationRoutes(v1, requireAuth, handlers.NewLocationHandler(locations))

	return r, nil
}
