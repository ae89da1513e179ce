package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

type (
	// URLMode 文件访问 URL 的生成方式，进程启动时选定一次，
	// 不允许每次调用时临时切换.
	URLMode string
)

const (
	// URLModePresigned 私有桶模式，下载走预签名 GET URL.
	URLModePresigned URLMode = "presigned"
	// URLModePublic 公开桶模式，直接拼接桶的公开访问地址.
	URLModePublic URLMode = "public"
	// URLModeCDN CDN 模式，拼接 cdn_base_url.
	URLModeCDN URLMode = "cdn"
)

// S3Config MinIO S3存储配置.
type S3Config struct {
	Endpoint        string  `mapstructure:"endpoint"`
	AccessKeyID     string  `mapstructure:"access_key_id"`
	SecretAccessKey string  `mapstructure:"secret_access_key"`
	UseSSL          bool    `mapstructure:"use_ssl"`
	BucketName      string  `mapstructure:"bucket_name"`
	Region          string  `mapstructure:"region"`
	URLMode         URLMode `mapstructure:"url_mode"     rule:"oneof=presigned public cdn"`
	CDNBaseURL      string  `mapstructure:"cdn_base_url"`
}

const (
	DefaultS3Endpoint        = "localhost:9000"   // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"       // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"       // 默认秘密访问密钥
	DefaultS3UseSSL          = false              // 默认是否使用SSL
	DefaultS3BucketName      = "muzicc"           // 默认存储桶名称
	DefaultS3Region          = "us-east-1"        // 默认区域
	DefaultS3URLMode         = URLModePresigned   // 默认私有桶，下载走预签名
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.url_mode", string(DefaultS3URLMode))
	v.SetDefault("s3.cdn_base_url", "")
}
