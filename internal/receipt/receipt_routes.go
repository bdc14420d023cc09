package receipt

import (
	"go-farmops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	receipts := r.Group("/receipts")
	{
		receipts.GET("", middleware.RBACAuthorize(rbacService, "receipt", "read"), handler.GetAll)
		receipts.POST("", middleware.RBACAuthorize(rbacService, "receipt", "create"), handler.Create)

		receipts.GET("/change-requests", middleware.RBACAuthorize(rbacService, "receipt", "read"), handler.ListChangeRequests)
		receipts.POST("/change-requests/:id/approve", middleware.RBACAuthorize(rbacService, "receipt", "approve"), handler.ApproveChange)
		receipts.POST("/change-requests/:id/reject", middleware.RBACAuthorize(rbacService, "receipt", "approve"), handler.RejectChange)

		receipts.GET("/:id", middleware.RBACAuthorize(rbacService, "receipt", "read"), handler.GetByID)
		receipts.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "receipt", "approve"), handler.Approve)
		receipts.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "receipt", "approve"), handler.Reject)
		receipts.POST("/:id/change-requests", middleware.RBACAuthorize(rbacService, "receipt", "create"), handler.RequestChange)
	}
}
