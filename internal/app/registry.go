package app

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-payday/internal/audit"
	"go-payday/internal/auth"
	"go-payday/internal/employee"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/payrollrun"
	"go-payday/internal/rbac"
	"go-payday/internal/rbac/infra"
	"go-payday/internal/refund"
	"go-payday/internal/ruleset"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	rulesetRepo := ruleset.NewRepository(gormDB)
	refundRepo := refund.NewRepository(gormDB)
	runRepo := payrollrun.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	resolver := ruleset.NewResolver(rulesetRepo)
	employeeService := employee.NewService(employeeRepo)
	refundService := refund.NewService(db, refundRepo, auditRepo)
	runService := payrollrun.NewService(db, runRepo, resolver, employeeService, refundService, auditRepo, outboxRepo)
	authService := auth.NewService(authRepo, rbacService, employeeRepo)

	// --- Handlers ---
	renderer := payrollrun.NewPayslipRenderer(os.Getenv("PAYSLIP_DIR"))
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	refundHandler := refund.NewHandler(refundService)
	runHandler := payrollrun.NewHandlerWithRedis(runService, renderer, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		refund.RegisterRoutes(api, refundHandler, rbacService)
		payrollrun.RegisterRoutes(api, runHandler, rbacService, rdb)
	}

	return nil
}
