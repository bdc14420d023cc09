package approval

import (
	"go-farmops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	approvals := r.Group("/approvals")
	{
		approvals.GET("/:kind/:id/logs", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.History)
	}
}
