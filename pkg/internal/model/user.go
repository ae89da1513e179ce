package model

import (
	"time"
)

// User 用户模型.
type User struct {
	ID           uint      `gorm:"primaryKey"                 json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null"          json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
