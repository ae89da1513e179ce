package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/muzicc/pkg/internal/service"
	"github.com/yeisme/muzicc/pkg/internal/types"
	"github.com/yeisme/muzicc/pkg/log"
)

// Register 用户注册.
//
//	@Summary		注册
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.RegisterRequest	true	"注册请求"
//	@Success		201		{object}	types.UserResponse
//	@Failure		409		{object}	map[string]string
//	@Router			/api/v1/auth/register [post]
func Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid register request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewAuthService(c.Request.Context())

	user, err := svc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.NewUserResponse(user))
}

// Login 用户登录，返回访问令牌.
//
//	@Summary		登录
//	@Tags			认证
//	@Accept			json
//	@Produce		json
//	@Param			body	body		types.LoginRequest	true	"登录请求"
//	@Success		200		{object}	types.TokenResponse
//	@Failure		401		{object}	map[string]string
//	@Router			/api/v1/auth/login [post]
func Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid login request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewAuthService(c.Request.Context())

	token, err := svc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}
