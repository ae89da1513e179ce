package model

import (
	"time"
)

// Song 歌曲元数据模型. StorageKey 是音频对象的唯一事实来源：
// 只有对象确认存在于存储桶后才会写入，非空值全局唯一.
type Song struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title  *string `gorm:"size:255"  json:"title"`
	Artist *string `gorm:"size:255"  json:"artist"`

	// 对象键，格式 songs/{8位小写十六进制}.mp3；唯一约束是并发确认的唯一仲裁
	StorageKey *string `gorm:"size:512;uniqueIndex" json:"storage_key"`
	// 访问地址，确认时按部署的 URL 模式生成并落库
	FileURL *string `gorm:"size:2048" json:"file_url"`
	// 音频内容指纹（64位小写十六进制），不唯一：相同内容的并发首传按 created_at 最早者收敛
	ContentHash *string `gorm:"size:64;index" json:"content_hash"`

	IsPublic  bool `gorm:"default:true;not null"        json:"is_public"`
	IsDeleted bool `gorm:"default:false;not null;index" json:"is_deleted"`

	OwnerID uint `gorm:"not null;index" json:"owner_id"`

	// 创建时间只赋值一次，去重的最早者优先依赖它的排序
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
