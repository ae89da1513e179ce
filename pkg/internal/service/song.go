// Package service 实现歌曲上传、去重与档案管理的业务逻辑.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	minio "github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	mctx "github.com/yeisme/muzicc/pkg/context"
	"github.com/yeisme/muzicc/pkg/internal/model"
	nlog "github.com/yeisme/muzicc/pkg/log"
	"github.com/yeisme/muzicc/pkg/metrics"
)

const (
	// existsMaxAttempts 存在性探测最多尝试次数.
	existsMaxAttempts = 3
	// existsProbeDelay 探测重试间隔，固定值不退避.
	existsProbeDelay = 200 * time.Millisecond
)

// ObjectStore 歌曲服务依赖的对象存储能力子集.
type ObjectStore interface {
	StatObject(ctx context.Context, key string) (minio.ObjectInfo, error)
	PresignedPutURL(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	FileURL(ctx context.Context, key string) (string, error)
}

// SongService 歌曲业务服务.
type SongService struct {
	store ObjectStore
	db    *gorm.DB

	// probeDelay 存在性探测的重试间隔，测试中可缩短.
	probeDelay time.Duration
}

// NewSongService 从 context 中取出存储客户端构建服务实例.
func NewSongService(c context.Context) *SongService {
	s3Client := mctx.GetS3Client(c)
	dbClient := mctx.GetDBClient(c)

	if s3Client == nil || dbClient == nil || dbClient.DB == nil {
		nlog.Logger().Fatal().Msg("storage clients not initialized in context")
	}

	return newSongService(s3Client, dbClient.DB)
}

// newSongService 直接注入依赖，测试入口.
func newSongService(store ObjectStore, db *gorm.DB) *SongService {
	return &SongService{
		store:      store,
		db:         db,
		probeDelay: existsProbeDelay,
	}
}

// objectExists 探测对象键是否已写入存储桶.
// 只有 NoSuchKey 视为"可能尚未可见"并重试，上传确认紧跟在客户端
// PUT 之后，新对象可能还在可见性延迟窗口内；其余错误码是基础设施
// 故障，立即上抛，绝不当作"对象不存在"处理.
func (s *SongService) objectExists(ctx context.Context, key string) (bool, error) {
	for attempt := 1; ; attempt++ {
		_, err := s.store.StatObject(ctx, key)
		if err == nil {
			metrics.StoreProbeRetries.Observe(float64(attempt))
			return true, nil
		}

		resp := minio.ToErrorResponse(err)
		switch resp.Code {
		case "NoSuchKey":
			// 写后读可见性延迟只出现在这个错误码上，有限重试
		case "NotFound":
			// 确定性缺失，无需重试
			metrics.StoreProbeRetries.Observe(float64(attempt))
			return false, nil
		default:
			nlog.Logger().Warn().
				Str("key", key).
				Str("store_code", resp.Code).
				Err(err).
				Msg("object probe failed")

			return false, fmt.Errorf("%w: stat %s: %v", ErrStoreUnavailable, key, err)
		}

		if attempt >= existsMaxAttempts {
			metrics.StoreProbeRetries.Observe(float64(attempt))
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(s.probeDelay):
		}
	}
}

// findByHash 按内容指纹查询去重索引：未删除、已有对象键的记录中
// 最早创建的一条为规范记录，同指纹并发产生多条时以它为准.
func (s *SongService) findByHash(ctx context.Context, hash string) (*model.Song, error) {
	var song model.Song

	err := s.db.WithContext(ctx).
		Where("content_hash = ? AND storage_key IS NOT NULL AND is_deleted = ?", hash, false).
		Order("created_at ASC, id ASC").
		First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("query dedup index: %w", err)
	}

	return &song, nil
}

// findByKey 按对象键查询记录. 不过滤软删除：对象键有唯一约束，
// 即便记录已删除，键也仍被占用，调用方需要看到占用者.
func (s *SongService) findByKey(ctx context.Context, key string) (*model.Song, error) {
	var song model.Song

	err := s.db.WithContext(ctx).
		Where("storage_key = ?", key).
		First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("query song by key: %w", err)
	}

	return &song, nil
}
