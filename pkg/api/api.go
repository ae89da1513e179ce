// Package api 汇总 HTTP 接口定义，将各路由组注册到 gin 引擎.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/muzicc/pkg/internal/router"
)

// RegisterGroup 将全部业务路由注册到传入的 gin 引擎，挂载在 /api/v1 下.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	v1 := e.Group("/api/v1")

	router.RegisterHealthCheckRoute(v1)
	router.RegisterAuthRoutes(v1)
	router.RegisterSongsRoutes(v1)

	return e
}
