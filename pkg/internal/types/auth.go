package types

import (
	"time"

	"github.com/yeisme/muzicc/pkg/internal/model"
)

// RegisterRequest 用户注册请求.
type RegisterRequest struct {
	Email    string `binding:"required,email"  json:"email"`
	Password string `binding:"required,min=8"  json:"password"`
}

// LoginRequest 用户登录请求.
type LoginRequest struct {
	Email    string `binding:"required,email" json:"email"`
	Password string `binding:"required"       json:"password"`
}

// TokenResponse 登录成功后返回的访问令牌.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse 用户信息响应，不包含口令散列.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse 从模型构建用户响应.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
