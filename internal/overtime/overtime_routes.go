package overtime

import (
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/middleware"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
	rdb *redis.Client,
) {
	overtime := r.Group("/overtime")
	overtime.Use(middleware.AuthMiddleware())
	{
		overtime.POST("",
			rbac.Authorize(enforcer, "overtime", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		overtime.GET("", rbac.Authorize(enforcer, "overtime", "read"), handler.GetAll)
		overtime.GET("/accruals", rbac.Authorize(enforcer, "overtime", "review"), handler.ListAccruals)
		overtime.GET("/:id", rbac.Authorize(enforcer, "overtime", "read"), handler.GetByID)

		overtime.POST("/:id/approve", rbac.Authorize(enforcer, "overtime", "review"), handler.Approve)
		overtime.POST("/:id/reject", rbac.Authorize(enforcer, "overtime", "review"), handler.Reject)
	}
}
