package employeesalary

import (
	"go-farmops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	salaries := r.Group("/salary-profiles")
	{
		salaries.GET("", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetAll)
		salaries.GET("/:id", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetById)
		salaries.POST("", middleware.RBACAuthorize(rbacService, "salary", "create"), handler.Create)
		salaries.PUT("/:id", middleware.RBACAuthorize(rbacService, "salary", "update"), handler.Update)
		salaries.DELETE("/:id", middleware.RBACAuthorize(rbacService, "salary", "delete"), handler.Delete)
	}
}
