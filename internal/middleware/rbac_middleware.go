package middleware

import (
	"go-farmops/internal/domain"
	"go-farmops/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service; declared here to avoid an
// import cycle with the rbac routes.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		farmID := c.GetString("farm_id")

		if userID == "" || farmID == "" {
			abortWithError(c, apperror.ErrUnauthorized, nil)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			UserID:   userID,
			FarmID:   farmID,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			abortWithError(c, apperror.ErrInternal, nil)
			return
		}

		if !allowed {
			abortWithError(c, apperror.ErrForbidden, gin.H{"required": resource + ":" + action})
			return
		}
		c.Next()
	}
}
