package payrollrun

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-payday/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	{
		runs.GET("", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetAll)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetByID)
		runs.GET("/:id/payslips/:employeeId", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetPayslip)
		runs.GET("/:id/payslips/:employeeId/breakdown", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetBreakdown)
		runs.GET("/:id/payslips/:employeeId/download", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.DownloadPayslip)

		if redisClient != nil {
			runs.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll_run", "create"),
				handler.Initiate,
			)
		} else {
			runs.POST("", middleware.RBACAuthorize(rbacService, "payroll_run", "create"), handler.Initiate)
		}

		runs.POST("/:id/recalculate", middleware.RBACAuthorize(rbacService, "payroll_run", "update"), handler.Recalculate)
		runs.PUT("/:id/payslips/:employeeId", middleware.RBACAuthorize(rbacService, "payroll_run", "update"), handler.CorrectPayslip)

		runs.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "payroll_run", "submit"), handler.Submit)
		runs.POST("/:id/publish", middleware.RBACAuthorize(rbacService, "payroll_run", "submit"), handler.Publish)
		runs.POST("/:id/manager-review", middleware.RBACAuthorize(rbacService, "payroll_run", "approve"), handler.ManagerReview)
		runs.POST("/:id/finance-review", middleware.RBACAuthorize(rbacService, "payroll_run", "approve"), handler.FinanceReview)
		runs.POST("/:id/mark-paid", middleware.RBACAuthorize(rbacService, "payroll_run", "pay"), handler.MarkPaid)
		runs.POST("/:id/unfreeze", middleware.RBACAuthorize(rbacService, "payroll_run", "unfreeze"), handler.Unfreeze)
	}
}
