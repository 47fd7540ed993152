package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/storeadmin/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

func currentUserID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.CtxUserIDKey)
	return id, id != ""
}

func currentTokenID(c *gin.Context) string {
	return c.GetString(middleware.CtxTokenIDKey)
}

func currentRawToken(c *gin.Context) string {
	return c.GetString(middleware.CtxRawTokenKey)
}
