package app

import (
	"database/sql"

	"go-farmops/internal/advance"
	"go-farmops/internal/approval"
	"go-farmops/internal/attendance"
	"go-farmops/internal/employeesalary"
	"go-farmops/internal/leave"
	"go-farmops/internal/messaging/kafka"
	"go-farmops/internal/middleware"
	"go-farmops/internal/payroll"
	"go-farmops/internal/rbac"
	"go-farmops/internal/rbac/infra"
	"go-farmops/internal/receipt"
	"go-farmops/internal/shared/connection"
	"go-farmops/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	advanceRepo := advance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeSalaryRepo := employeesalary.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	receiptRepo := receipt.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	approvalService := approval.NewService(db, approvalRepo, outboxRepo, map[approval.Kind]approval.DecisionHook{
		approval.KindChangeRequest: receipt.NewChangeRequestHook(receiptRepo, logger),
	}, logger)
	employeeSalaryService := employeesalary.NewService(db, employeeSalaryRepo, logger)
	payrollService := payroll.NewService(db, payrollRepo, employeeSalaryRepo, advanceRepo, outboxRepo, logger)
	attendanceService := attendance.NewService(
		db,
		attendanceRepo,
		employeeSalaryRepo,
		payrollService,
		outboxRepo,
		rdb,
		attendance.NewRedisLocker(connection.NewLocker(rdb)),
		logger,
	)
	leaveService := leave.NewService(db, leaveRepo, approvalService, logger)
	advanceService := advance.NewService(db, advanceRepo, approvalService, outboxRepo, logger)
	receiptService := receipt.NewService(db, receiptRepo, counterRepo, approvalService, logger)

	// --- Handlers ---
	approvalHandler := approval.NewHandler(approvalService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	advanceHandler := advance.NewHandler(advanceService, logger)
	employeeSalaryHandler := employeesalary.NewHandler(employeeSalaryService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)
	receiptHandler := receipt.NewHandler(receiptService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.AuthMiddleware(),
		middleware.RateLimitByUser(cfg.RateLimitRPS, cfg.RateLimitBurst),
		middleware.Idempotency(rdb),
	)
	{
		approval.RegisterRoutes(api, approvalHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		advance.RegisterRoutes(api, advanceHandler, rbacService)
		employeesalary.RegisterRoutes(api, employeeSalaryHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService)
		receipt.RegisterRoutes(api, receiptHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
