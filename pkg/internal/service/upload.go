package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/muzicc/pkg/internal/model"
	"github.com/yeisme/muzicc/pkg/internal/storage/s3"
	"github.com/yeisme/muzicc/pkg/internal/types"
	nlog "github.com/yeisme/muzicc/pkg/log"
	"github.com/yeisme/muzicc/pkg/metrics"
	"github.com/yeisme/muzicc/pkg/rule"
)

const (
	// allowedContentType 目前只接受 MP3 音频上传.
	allowedContentType = "audio/mpeg"
	// maxFilenameLen 客户端文件名长度上限.
	maxFilenameLen = 255
	// maxTitleLen 标题长度上限，与列字段宽度一致.
	maxTitleLen = 255
)

// CheckFile 按内容指纹查询是否已存在同内容的歌曲对象.
// 命中时返回规范对象键与访问地址，客户端可跳过上传.
func (s *SongService) CheckFile(ctx context.Context, req *types.CheckFileRequest) (*types.CheckFileResponse, error) {
	hash := strings.TrimSpace(req.FileHash)
	if !rule.IsContentHash(hash) {
		return nil, fmt.Errorf("%w: file_hash must be 64 lowercase hex chars", ErrInvalidHash)
	}

	song, err := s.findByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if song == nil {
		return &types.CheckFileResponse{Exists: false}, nil
	}

	fileURL, err := s.store.FileURL(ctx, *song.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: file url for %s: %v", ErrStoreUnavailable, *song.StorageKey, err)
	}

	return &types.CheckFileResponse{
		Exists:    true,
		ObjectKey: *song.StorageKey,
		FileURL:   fileURL,
	}, nil
}

// RequestUploadURL 签发预签名上传 URL. 先查去重索引：指纹命中时
// 不签发上传 URL，直接返回已存在对象的键和访问地址.
func (s *SongService) RequestUploadURL(ctx context.Context, req *types.UploadURLRequest) (*types.UploadURLResponse, error) {
	if req.ContentType != allowedContentType {
		return nil, fmt.Errorf("%w: %q, only %s is accepted", ErrInvalidContentType, req.ContentType, allowedContentType)
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" || len(filename) > maxFilenameLen {
		return nil, fmt.Errorf("%w: must be 1-%d chars", ErrInvalidFilename, maxFilenameLen)
	}

	hash := strings.TrimSpace(req.FileHash)
	if !rule.IsContentHash(hash) {
		return nil, fmt.Errorf("%w: file_hash must be 64 lowercase hex chars", ErrInvalidHash)
	}

	existing, err := s.findByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		metrics.UploadDedupCounter.WithLabelValues("hit").Inc()

		fileURL, err := s.store.FileURL(ctx, *existing.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("%w: file url for %s: %v", ErrStoreUnavailable, *existing.StorageKey, err)
		}

		nlog.Logger().Info().
			Str("key", *existing.StorageKey).
			Msg("upload dedup hit, skip presign")

		return &types.UploadURLResponse{
			FileURL:       fileURL,
			Key:           *existing.StorageKey,
			AlreadyExists: true,
		}, nil
	}

	metrics.UploadDedupCounter.WithLabelValues("miss").Inc()

	key := BuildObjectKey(filename)

	uploadURL, err := s.store.PresignedPutURL(ctx, key, req.ContentType, s3.DefaultPresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: presign put for %s: %v", ErrStoreUnavailable, key, err)
	}

	fileURL, err := s.store.FileURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: file url for %s: %v", ErrStoreUnavailable, key, err)
	}

	return &types.UploadURLResponse{
		UploadURL: uploadURL,
		FileURL:   fileURL,
		Key:       key,
	}, nil
}

// ConfirmUpload 客户端完成 PUT 后确认上传并落库.
// 键不合法时直接拒绝，不触发任何存储探测；对象未出现返回
// ErrUploadNotFound；同键重复确认幂等返回既有记录.
func (s *SongService) ConfirmUpload(ctx context.Context, ownerID uint, req *types.ConfirmUploadRequest) (*model.Song, error) {
	key := strings.TrimSpace(req.Key)
	if !rule.IsObjectKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	hash := strings.TrimSpace(req.FileHash)
	if hash != "" && !rule.IsContentHash(hash) {
		return nil, fmt.Errorf("%w: file_hash must be 64 lowercase hex chars", ErrInvalidHash)
	}

	title := strings.TrimSpace(req.Title)
	if len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title longer than %d chars", ErrInvalidPatch, maxTitleLen)
	}

	exists, err := s.objectExists(ctx, key)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUploadNotFound, key)
	}

	// 幂等：同键已确认过，直接返回先前的记录
	if song, err := s.findByKey(ctx, key); err != nil {
		return nil, err
	} else if song != nil {
		return song, nil
	}

	fileURL, err := s.store.FileURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: file url for %s: %v", ErrStoreUnavailable, key, err)
	}

	song := &model.Song{
		StorageKey: &key,
		FileURL:    &fileURL,
		OwnerID:    ownerID,
		IsPublic:   true,
	}
	if title != "" {
		song.Title = &title
	}

	if hash != "" {
		song.ContentHash = &hash
	}

	if err := s.db.WithContext(ctx).Create(song).Error; err != nil {
		// 并发确认竞争：唯一约束是唯一的并发原语，失败方读回胜者的记录
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, rerr := s.findByKey(ctx, key)
			if rerr == nil && winner != nil {
				nlog.Logger().Info().
					Str("key", key).
					Uint("winner_id", winner.ID).
					Msg("confirm race lost, returning existing record")

				return winner, nil
			}

			return nil, fmt.Errorf("resolve confirm race for %s: %w", key, err)
		}

		return nil, fmt.Errorf("create song record: %w", err)
	}

	return song, nil
}

// CreateSong 直接建档：调用方已持有对象键（或完整存储 URL），
// 跳过上传流程. 提供指纹时先查去重索引，命中则收敛到规范记录的键.
func (s *SongService) CreateSong(ctx context.Context, ownerID uint, req *types.CreateSongRequest) (*model.Song, error) {
	title := strings.TrimSpace(req.Title)
	artist := strings.TrimSpace(req.Artist)

	if len(title) > maxTitleLen || len(artist) > maxTitleLen {
		return nil, fmt.Errorf("%w: title/artist longer than %d chars", ErrInvalidPatch, maxTitleLen)
	}

	key := resolveObjectKey(req.ObjectKey)

	hash := strings.TrimSpace(req.FileHash)
	if hash != "" {
		if !rule.IsContentHash(hash) {
			return nil, fmt.Errorf("%w: file_hash must be 64 lowercase hex chars", ErrInvalidHash)
		}

		existing, err := s.findByHash(ctx, hash)
		if err != nil {
			return nil, err
		}

		// 安全网：相同内容收敛到最早记录的键，不产生第二个对象引用
		if existing != nil {
			key = *existing.StorageKey
		}
	}

	if key == "" {
		return nil, ErrMissingStorageKey
	}

	fileURL, err := s.store.FileURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: file url for %s: %v", ErrStoreUnavailable, key, err)
	}

	song := &model.Song{
		StorageKey: &key,
		FileURL:    &fileURL,
		OwnerID:    ownerID,
		IsPublic:   true,
	}
	if title != "" {
		song.Title = &title
	}

	if artist != "" {
		song.Artist = &artist
	}

	if hash != "" {
		song.ContentHash = &hash
	}

	if req.IsPublic != nil {
		song.IsPublic = *req.IsPublic
	}

	if err := s.db.WithContext(ctx).Create(song).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, rerr := s.findByKey(ctx, key)
			if rerr == nil && winner != nil {
				return winner, nil
			}

			return nil, fmt.Errorf("resolve create race for %s: %w", key, err)
		}

		return nil, fmt.Errorf("create song record: %w", err)
	}

	return song, nil
}

// resolveObjectKey 接受裸对象键或完整存储 URL，统一解析成对象键.
// 公开桶直链形如 {endpoint}/{bucket}/songs/xxxxxxxx.mp3，预签名 URL
// 还带查询串，只取路径部分. 解析失败返回空串.
func resolveObjectKey(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}

	if rule.IsObjectKey(v) {
		return v
	}

	u, err := url.Parse(v)
	if err != nil || u.Host == "" {
		return ""
	}

	path := strings.TrimPrefix(u.Path, "/")
	if idx := strings.Index(path, keyPrefix); idx >= 0 {
		if cand := path[idx:]; rule.IsObjectKey(cand) {
			return cand
		}
	}

	return ""
}
