package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/storeadmin/internal/handlers"
)

func registerAuthRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc, h *handlers.AuthHandler) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	protected := auth.Group("")
	protected.Use(requireAuth)
	{
		protected.POST("/logout", h.Logout)
		protected.POST("/refresh", h.Refresh)
		protected.GET("/me", h.Me)
		protected.POST("/me", h.Me)
		protected.POST("/tokens/revoke", h.RevokeToken)
	}
}
