package employee

import (
	"github.com/gin-gonic/gin"

	"go-payday/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetAll)
		employees.GET("/:id", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetByID)
		employees.POST("", middleware.RBACAuthorize(rbacService, "employee", "create"), handler.Create)
		employees.PUT("/:id", middleware.RBACAuthorize(rbacService, "employee", "update"), handler.Update)
		employees.DELETE("/:id", middleware.RBACAuthorize(rbacService, "employee", "delete"), handler.Delete)

		employees.POST("/bonuses", middleware.RBACAuthorize(rbacService, "employee", "update"), handler.RecordBonus)
		employees.POST("/unpaid-leaves", middleware.RBACAuthorize(rbacService, "employee", "update"), handler.RecordUnpaidLeave)
		employees.POST("/penalties", middleware.RBACAuthorize(rbacService, "employee", "update"), handler.RecordPenalty)
	}
}
