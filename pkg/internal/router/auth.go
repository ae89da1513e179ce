package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/muzicc/pkg/internal/handle"
)

// RegisterAuthRoutes 注册认证路由.
func RegisterAuthRoutes(g *gin.RouterGroup) {
	authRoutes := g.Group("/auth")
	{
		authRoutes.POST("/register", handle.Register)
		authRoutes.POST("/login", handle.Login)
	}
}
