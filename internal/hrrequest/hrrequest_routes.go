package hrrequest

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
	requests := r.Group("/hr-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("",
			rbac.Authorize(enforcer, "hr_request", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		requests.GET("", rbac.Authorize(enforcer, "hr_request", "read"), handler.GetAll)
		requests.GET("/:id", rbac.Authorize(enforcer, "hr_request", "read"), handler.GetByID)

		requests.POST("/:id/approve-gm", rbac.Authorize(enforcer, "hr_request", "approve_gm"), handler.ApproveGM)
		requests.POST("/:id/approve-hr", rbac.Authorize(enforcer, "hr_request", "approve_hr"), handler.ApproveHR)
		requests.POST("/:id/reject", rbac.Authorize(enforcer, "hr_request", "reject"), handler.Reject)
	}
}
