package payroll

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
		attendance.GET("/payroll/export", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.ExportMonth)

		attendance.POST("/users/:id/payroll-adjustments", middleware.RBACAuthorize(rbacService, "payroll", "adjust"), handler.AddAdjustment)
		attendance.GET("/users/:id/payroll-logs", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetLogs)
		attendance.GET("/users/:id/payroll", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetSnapshot)
		attendance.POST("/users/:id/payroll/refresh", middleware.RBACAuthorize(rbacService, "payroll", "adjust"), handler.Refresh)
		attendance.GET("/users/:id/payslip", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Payslip)
	}
}
