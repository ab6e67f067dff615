package app

import (
	"database/sql"
	"path/filepath"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/auth"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/employee"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/hrrequest"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/messaging/kafka"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/overtime"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	hrRequestRepo := hrrequest.NewRepository(gormDB)
	overtimeRepo := overtime.NewRepository(gormDB)
	accrualRepo := overtime.NewAccrualRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer(
		filepath.Join("internal", "rbac", "model.conf"),
		filepath.Join("internal", "rbac", "policy.csv"),
	)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo)
	accountWriter := auth.NewAccountWriter(authRepo)
	employeeService := employee.NewService(employeeRepo, rdb)
	applicator := hrrequest.NewApplicator(employeeRepo, accountWriter)
	hrRequestService := hrrequest.NewServiceWithOutbox(db, hrRequestRepo, applicator, outboxRepo, employeeService)
	overtimeService := overtime.NewService(db, overtimeRepo, accrualRepo, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	hrRequestHandler := hrrequest.NewHandler(hrRequestService, rdb)
	overtimeHandler := overtime.NewHandler(overtimeService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, enforcer)
		hrrequest.RegisterRoutes(api, hrRequestHandler, enforcer, rdb)
		overtime.RegisterRoutes(api, overtimeHandler, enforcer, rdb)
	}

	return nil
}
