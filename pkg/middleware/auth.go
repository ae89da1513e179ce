package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/muzicc/pkg/configs"
	mctx "github.com/yeisme/muzicc/pkg/context"
	"github.com/yeisme/muzicc/pkg/internal/service"
)

// AuthMiddleware 解析 Bearer 访问令牌并把用户 ID 写入请求上下文.
//   - 令牌合法：注入用户身份，后续处理器可取用
//   - 令牌非法或过期：直接 401
//   - 没有令牌：放行，是否要求登录由各处理器决定（公开列表等读路径不需要身份）
//   - 支持通过配置跳过某些路径（如 /metrics, /api/v1/health）.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		userID, err := service.ParseToken(strings.TrimSpace(raw), &conf)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		ctx := mctx.WithCurrentUser(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
