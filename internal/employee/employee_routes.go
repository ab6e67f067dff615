package employee

import (
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/middleware"
	"github.com/Arce-y-Vargas/arceyvargas-system/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer *casbin.Enforcer,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", rbac.Authorize(enforcer, "employee", "read"), handler.GetAll)
		employees.GET("/options", rbac.Authorize(enforcer, "employee", "read"), handler.GetOptions)
		employees.GET("/:cedula", rbac.Authorize(enforcer, "employee", "read"), handler.GetByCedula)
	}
}
