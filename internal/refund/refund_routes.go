package refund

import (
	"github.com/gin-gonic/gin"

	"go-payday/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	claims := r.Group("/claims")
	claims.Use(middleware.AuthMiddleware())
	{
		claims.GET("", middleware.RBACAuthorize(rbacService, "claim", "read"), handler.GetClaims)
		claims.GET("/:id", middleware.RBACAuthorize(rbacService, "claim", "read"), handler.GetClaimByID)
		claims.POST("", middleware.RBACAuthorize(rbacService, "claim", "create"), handler.SubmitClaim)
		claims.POST("/:id/review", middleware.RBACAuthorize(rbacService, "claim", "review"), handler.ReviewClaim)
	}

	disputes := r.Group("/disputes")
	disputes.Use(middleware.AuthMiddleware())
	{
		disputes.GET("/:id", middleware.RBACAuthorize(rbacService, "dispute", "read"), handler.GetDisputeByID)
		disputes.POST("", middleware.RBACAuthorize(rbacService, "dispute", "create"), handler.SubmitDispute)
		disputes.POST("/:id/review", middleware.RBACAuthorize(rbacService, "dispute", "review"), handler.ReviewDispute)
	}
}
