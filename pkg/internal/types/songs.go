package types

import (
	"time"

	"github.com/yeisme/muzicc/pkg/internal/model"
)

// SongResponse 歌曲记录的对外表示.
type SongResponse struct {
	ID          uint      `json:"id"`
	Title       *string   `json:"title"`
	Artist      *string   `json:"artist"`
	StorageKey  *string   `json:"storage_key"`
	FileURL     *string   `json:"file_url"`
	ContentHash *string   `json:"content_hash,omitempty"`
	IsPublic    bool      `json:"is_public"`
	OwnerID     uint      `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSongResponse 从模型构建响应.
func NewSongResponse(s *model.Song) SongResponse {
	return SongResponse{
		ID:          s.ID,
		Title:       s.Title,
		Artist:      s.Artist,
		StorageKey:  s.StorageKey,
		FileURL:     s.FileURL,
		ContentHash: s.ContentHash,
		IsPublic:    s.IsPublic,
		OwnerID:     s.OwnerID,
		CreatedAt:   s.CreatedAt,
	}
}

// CreateSongRequest 直接建档请求，调用方已持有对象键（或完整存储 URL）.
type CreateSongRequest struct {
	Title     string  `json:"title,omitempty"`
	Artist    string  `json:"artist,omitempty"`
	ObjectKey string  `json:"object_key,omitempty"`
	FileHash  string  `json:"file_hash,omitempty"`
	IsPublic  *bool   `json:"is_public,omitempty"`
}

// SongPatch 更新补丁：所有字段可选，只应用调用方显式提供的字段.
type SongPatch struct {
	Title    *string `json:"title,omitempty"    rule:"omitempty,max=255"`
	Artist   *string `json:"artist,omitempty"   rule:"omitempty,max=255"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// ListSongsQuery 列表查询参数.
type ListSongsQuery struct {
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
	Q      string `form:"q"`      // 标题子串，忽略大小写
	Artist string `form:"artist"` // 精确匹配
}
