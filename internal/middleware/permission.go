package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/storeadmin/internal/models"
	"github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/charlesng35/storeadmin/pkg/response"
)

// RequireAbility checks that the authenticated token grants ability.
func RequireAbility(ability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxTokenKey)
		token, _ := v.(*models.PersonalAccessToken)
		if !ok || token == nil {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !token.Can(ability) {
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
