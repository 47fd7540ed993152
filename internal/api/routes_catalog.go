package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/storeadmin/internal/handlers"
	"github.com/charlesng35/storeadmin/internal/middleware"
)

type catalogHandlers struct {
	Brands     *handlers.BrandHandler
	Categories *handlers.CategoryHandler
	Products   *handlers.ProductHandler
}

// resourceHandler is the CRUD surface shared by catalogue handlers.
type resourceHandler interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

func registerCatalogRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc, h catalogHandlers) {
	registerResource(api.Group("/brands"), requireAuth, "brands:write", h.Brands)
	registerResource(api.Group("/categories"), requireAuth, "categories:write", h.Categories)
	registerResource(api.Group("/products"), requireAuth, "products:write", h.Products)
}

// registerResource exposes public reads and token protected writes.
func registerResource(group *gin.RouterGroup, requireAuth gin.HandlerFunc, ability string, h resourceHandler) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	write := []gin.HandlerFunc{requireAuth, middleware.RequireAbility(ability)}
	group.POST("", append(write, h.Create)...)
	group.PUT("/:id", append(write, h.Update)...)
	group.PATCH("/:id", append(write, h.Update)...)
	group.DELETE("/:id", append(write, h.Delete)...)
}

func registerLocationRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc, h *handlers.LocationHandler) {
	locations := api.Group("/locations")
	locations.Use(requireAuth)
	{
		locations.GET("", h.List)
		locations.GET("/:id", h.Get)
		locations.POST("", h.Create)
		locations.PUT("/:id", h.Update)
		locations.PATCH("/:id", h.Update)
		locations.DELETE("/:id", h.Delete)
	}
}
