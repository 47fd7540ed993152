package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/storeadmin/internal/models"
	"github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/charlesng35/storeadmin/pkg/response"
)

const (
	CtxTokenKey     = "authToken"
	CtxUserIDKey    = "userID"
	CtxTokenIDKey   = "tokenID"
	CtxRawTokenKey  = "rawToken"
	bearerPrefixLen = len("Bearer ")
)

// TokenVerifier resolves a raw bearer token to its active personal access token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*models.PersonalAccessToken, error)
}

// Auth enforces bearer token authentication using the supplied verifier.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) <= bearerPrefixLen || !strings.EqualFold(authz[:bearerPrefixLen], "Bearer ") {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		raw := strings.TrimSpace(authz[bearerPrefixLen:])
		token, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxTokenKey, token)
		c.Set(CtxUserIDKey, token.UserID)
		c.Set(CtxTokenIDKey, token.ID)
		c.Set(CtxRawTokenKey, raw)

		c.Next()
	}
}
