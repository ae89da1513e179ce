package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeisme/muzicc/pkg/internal/model"
	"github.com/yeisme/muzicc/pkg/internal/types"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// normalizeListQuery 收敛分页参数到合法区间.
func normalizeListQuery(q *types.ListSongsQuery) {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}

	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}

	if q.Offset < 0 {
		q.Offset = 0
	}
}

// ListPublic 公开歌曲列表，按创建时间倒序分页.
func (s *SongService) ListPublic(ctx context.Context, q *types.ListSongsQuery) (*types.PaginatedResponse[types.SongResponse], error) {
	return s.listSongs(ctx, q, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("is_public = ?", true)
	})
}

// ListByOwner 当前用户的歌曲列表，包含未公开的记录.
func (s *SongService) ListByOwner(ctx context.Context, ownerID uint, q *types.ListSongsQuery) (*types.PaginatedResponse[types.SongResponse], error) {
	return s.listSongs(ctx, q, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("owner_id = ?", ownerID)
	})
}

// listSongs 列表查询的公共骨架：软删除过滤 + 作用域 + 可选筛选 + 分页.
func (s *SongService) listSongs(ctx context.Context, q *types.ListSongsQuery, scope func(*gorm.DB) *gorm.DB) (*types.PaginatedResponse[types.SongResponse], error) {
	normalizeListQuery(q)

	tx := scope(s.db.WithContext(ctx).Model(&model.Song{}).Where("is_deleted = ?", false))

	if term := strings.TrimSpace(q.Q); term != "" {
		tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	if artist := strings.TrimSpace(q.Artist); artist != "" {
		tx = tx.Where("artist = ?", artist)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count songs: %w", err)
	}

	var songs []model.Song
	if err := tx.Order("created_at DESC, id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}

	items := make([]types.SongResponse, 0, len(songs))
	for i := range songs {
		items = append(items, types.NewSongResponse(&songs[i]))
	}

	return &types.PaginatedResponse[types.SongResponse]{
		Items:  items,
		Total:  total,
		Limit:  q.Limit,
		Offset: q.Offset,
	}, nil
}

// GetSong 按 ID 查询. 软删除的记录视同不存在；
// 未公开的记录只有属主可见.
func (s *SongService) GetSong(ctx context.Context, callerID uint, id uint) (*model.Song, error) {
	song, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	if !song.IsPublic && song.OwnerID != callerID {
		return nil, ErrForbidden
	}

	return song, nil
}

// UpdateSong 应用更新补丁. 只修改补丁中显式出现的字段，
// 仅属主可操作.
func (s *SongService) UpdateSong(ctx context.Context, callerID uint, id uint, patch *types.SongPatch) (*model.Song, error) {
	if patch.Title != nil && len(*patch.Title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title longer than %d chars", ErrInvalidPatch, maxTitleLen)
	}

	if patch.Artist != nil && len(*patch.Artist) > maxTitleLen {
		return nil, fmt.Errorf("%w: artist longer than %d chars", ErrInvalidPatch, maxTitleLen)
	}

	song, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	if song.OwnerID != callerID {
		return nil, ErrForbidden
	}

	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
		song.Title = patch.Title
	}

	if patch.Artist != nil {
		updates["artist"] = *patch.Artist
		song.Artist = patch.Artist
	}

	if patch.IsPublic != nil {
		updates["is_public"] = *patch.IsPublic
		song.IsPublic = *patch.IsPublic
	}

	if len(updates) == 0 {
		return song, nil
	}

	if err := s.db.WithContext(ctx).Model(song).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update song %d: %w", id, err)
	}

	return song, nil
}

// DeleteSong 软删除：只翻转 is_deleted 标志，存储对象保留，
// 对象键继续占用唯一约束. 仅属主可操作.
func (s *SongService) DeleteSong(ctx context.Context, callerID uint, id uint) error {
	song, err := s.loadActive(ctx, id)
	if err != nil {
		return err
	}

	if song.OwnerID != callerID {
		return ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(song).Update("is_deleted", true).Error; err != nil {
		return fmt.Errorf("delete song %d: %w", id, err)
	}

	return nil
}

// loadActive 按 ID 加载未删除的记录，不存在时返回 ErrNotFound.
func (s *SongService) loadActive(ctx context.Context, id uint) (*model.Song, error) {
	var song model.Song

	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load song %d: %w", id, err)
	}

	return &song, nil
}
