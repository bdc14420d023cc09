package advance

import (
	"go-farmops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	advances := r.Group("/advances")
	{
		advances.GET("", middleware.RBACAuthorize(rbacService, "advance", "read"), handler.GetAll)
		advances.GET("/:id", middleware.RBACAuthorize(rbacService, "advance", "read"), handler.GetByID)
		advances.POST("", middleware.RBACAuthorize(rbacService, "advance", "create"), handler.Create)
		advances.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "advance", "approve"), handler.Approve)
		advances.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "advance", "approve"), handler.Reject)
	}
}
