// Package s3 处理S3存储操作.
package s3

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/muzicc/pkg/configs"
	nlog "github.com/yeisme/muzicc/pkg/log"
)

// DefaultPresignExpiry 预签名 URL 默认有效期，上传和下载共用.
const DefaultPresignExpiry = time.Hour

// Client 包装 MinIO 客户端. 文件访问 URL 的生成方式（公开桶 / 预签名 / CDN）
// 在构造时固定，不在调用点临时判断.
type Client struct {
	*minio.Client

	bucket     string
	urlMode    configs.URLMode
	cdnBaseURL string
}

// New 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func New(ctx context.Context, cfg *configs.S3Config) (*Client, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("muzicc", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.BucketName).
		Str("url_mode", string(cfg.URLMode)).
		Msg("s3 connected")

	return &Client{
		Client:     cli,
		bucket:     cfg.BucketName,
		urlMode:    cfg.URLMode,
		cdnBaseURL: strings.TrimSuffix(cfg.CDNBaseURL, "/"),
	}, nil
}

// Bucket 返回歌曲存储桶名称.
func (c *Client) Bucket() string {
	return c.bucket
}

// PresignedPutURL 为对象键生成限时 PUT 上传 URL，内容类型参与签名，
// 客户端必须以同样的 Content-Type 上传. 每次调用都重新签发，不做缓存.
func (c *Client) PresignedPutURL(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	u, err := c.PresignHeader(ctx, http.MethodPut, c.bucket, key, expiry, nil, http.Header{
		"Content-Type": []string{contentType},
	})
	if err != nil {
		return "", fmt.Errorf("presign put for %s: %w", key, err)
	}

	return u.String(), nil
}

// PresignedGetURL 为对象键生成限时 GET 下载 URL.
func (c *Client) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := c.PresignedGetObject(ctx, c.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign get for %s: %w", key, err)
	}

	return u.String(), nil
}

// StatObject 对单个对象键发起元数据探测.
func (c *Client) StatObject(ctx context.Context, key string) (minio.ObjectInfo, error) {
	return c.Client.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
}

// FileURL 按构造时选定的 URL 模式返回对象的访问地址.
func (c *Client) FileURL(ctx context.Context, key string) (string, error) {
	switch c.urlMode {
	case configs.URLModePublic:
		return c.publicURL(key), nil
	case configs.URLModeCDN:
		if c.cdnBaseURL != "" {
			return c.cdnBaseURL + "/" + encodeKey(key), nil
		}
		// CDN 未配置时退回公开地址
		return c.publicURL(key), nil
	default:
		return c.PresignedGetURL(ctx, key, DefaultPresignExpiry)
	}
}

// publicURL 拼接公开桶的直链，对象键做路径安全编码.
func (c *Client) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.EndpointURL().String(), c.bucket, encodeKey(key))
}

// encodeKey 按路径段编码对象键，斜杠保留.
func encodeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	return strings.Join(parts, "/")
}

// HealthCheck 简单的健康检查，通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}
