package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/batch-timetable/internal/models"
	appErrors "github.com/noah-isme/batch-timetable/pkg/errors"
	"github.com/noah-isme/batch-timetable/pkg/response"
)

// RequireRoles lets a request through only when the JWT claims carry one of the roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(claims.Role)+" may not manage timetables"))
			c.Abort()
			return
		}
		c.Next()
	}
}
