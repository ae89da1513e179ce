// Package context 拓展上下文功能，将存储客户端和当前用户集成到上下文中，
// 方便在应用程序各处传递和使用.
package context

import (
	"context"

	"github.com/yeisme/muzicc/pkg/internal/storage"
	dbc "github.com/yeisme/muzicc/pkg/internal/storage/db"
	s3c "github.com/yeisme/muzicc/pkg/internal/storage/s3"
)

// ContextKey 上下文键类型.
type ContextKey string

const (
	// StorageManagerKey 存储管理器.
	StorageManagerKey ContextKey = "storageManager"
	// CurrentUserKey 当前认证用户 ID.
	CurrentUserKey ContextKey = "currentUser"
)

// WithStorageManager 将 Manager 存储到 context 中.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager 从 context 中获取 Manager.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// GetS3Client 从 context 中获取 S3 客户端.
func GetS3Client(ctx context.Context) *s3c.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetS3Client()
	}

	return nil
}

// GetDBClient 从 context 中获取 DB 客户端.
func GetDBClient(ctx context.Context) *dbc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetDBClient()
	}

	return nil
}

// WithCurrentUser 将认证通过的用户 ID 写入 context.
func WithCurrentUser(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, CurrentUserKey, userID)
}

// GetCurrentUser 从 context 中获取当前用户 ID，第二个返回值表示是否存在.
func GetCurrentUser(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(CurrentUserKey).(uint)

	return id, ok
}
