package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAuthEnabled       = true               // 开启认证校验
	DefaultAuthSecret        = "change-me-please" // 默认签名密钥，仅供本地调试
	DefaultTokenExpireMinute = 60                 // 访问令牌有效期（分钟）
)

// AuthConfig JWT 认证配置.
type AuthConfig struct {
	Enabled       bool     `mapstructure:"enabled"`        // 开启认证校验
	Secret        string   `mapstructure:"secret"`         // HS256 签名密钥
	ExpireMinutes int      `mapstructure:"expire_minutes"` // 访问令牌有效期（分钟）
	SkipPaths     []string `mapstructure:"skip_paths"`     // 跳过认证的路径前缀（如 /metrics、/api/v1/health）
}

// GetExpireDuration 返回令牌有效期作为 time.Duration.
func (c *AuthConfig) GetExpireDuration() time.Duration {
	return time.Duration(c.ExpireMinutes) * time.Minute
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", DefaultAuthEnabled)
	v.SetDefault("auth.secret", DefaultAuthSecret)
	v.SetDefault("auth.expire_minutes", DefaultTokenExpireMinute)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/api/v1/health",
		"/api/v1/auth",
	})
}
