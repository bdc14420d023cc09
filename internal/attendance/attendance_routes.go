package attendance

import (
	"go-farmops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	attendance := r.Group("/attendance")
	{
		attendance.GET("/periods", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.ListPeriods)
		attendance.POST("/close-month", middleware.RBACAuthorize(rbacService, "attendance", "close"), handler.BulkClose)

		attendance.POST("/users/:id/checkins", middleware.RBACAuthorize(rbacService, "attendance", "create"), handler.RecordCheckin)
		attendance.GET("/users/:id/period", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetPeriod)
		attendance.POST("/users/:id/close", middleware.RBACAuthorize(rbacService, "attendance", "close"), handler.Close)
		attendance.POST("/users/:id/reopen", middleware.RBACAuthorize(rbacService, "attendance", "reopen"), handler.Reopen)
	}
}
