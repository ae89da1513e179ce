// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mctx "github.com/yeisme/muzicc/pkg/context"
	"github.com/yeisme/muzicc/pkg/internal/service"
	"github.com/yeisme/muzicc/pkg/log"
)

// respondError 将业务错误映射到 HTTP 状态码并返回统一错误体.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrInvalidContentType),
		errors.Is(err, service.ErrInvalidFilename),
		errors.Is(err, service.ErrInvalidHash),
		errors.Is(err, service.ErrInvalidKey),
		errors.Is(err, service.ErrInvalidPatch),
		errors.Is(err, service.ErrMissingStorageKey),
		// 对象未上传是调用方时序错误，不是资源缺失
		errors.Is(err, service.ErrUploadNotFound):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrStoreUnavailable):
		status = http.StatusBadGateway
	}

	// 5xx 不向客户端暴露底层存储错误细节，只记日志
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Logger().Error().Err(err).Str("path", c.FullPath()).Msg("request failed")

		msg = "internal error"
		if errors.Is(err, service.ErrStoreUnavailable) {
			msg = service.ErrStoreUnavailable.Error()
		}
	}

	c.JSON(status, gin.H{"error": msg})
}

// mustCurrentUser 取出认证中间件写入的用户 ID，缺失时回 401.
// 第二个返回值为 false 时响应已写出，调用方直接 return.
func mustCurrentUser(c *gin.Context) (uint, bool) {
	userID, ok := mctx.GetCurrentUser(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return 0, false
	}

	return userID, true
}

// optionalCurrentUser 公开读路径也能感知登录态（属主可见私有记录），
// 未登录返回 0，没有用户使用该 ID.
func optionalCurrentUser(c *gin.Context) uint {
	userID, _ := mctx.GetCurrentUser(c.Request.Context())
	return userID
}
