package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	AuthorWallet string         `gorm:"size:64;not null;index" json:"author_wallet"`
	Content      string         `gorm:"size:500;not null" json:"content"`
	Topic        string         `gorm:"size:50;index" json:"topic"`
	Subtopic     string         `gorm:"size:50" json:"subtopic"`
	HasMedia     bool           `gorm:"default:false" json:"has_media"`
	LikeCount    int            `gorm:"default:0" json:"like_count"`
	ReplyCount   int            `gorm:"default:0" json:"reply_count"`
	TipCount     int            `gorm:"default:0" json:"tip_count"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Author  *User   `gorm:"foreignKey:AuthorWallet;references:WalletAddress" json:"author,omitempty"`
	Replies []Reply `gorm:"foreignKey:PostID" json:"replies,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

type Reply struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PostID       uint           `gorm:"not null;index" json:"post_id"`
	AuthorWallet string         `gorm:"size:64;not null;index" json:"author_wallet"`
	Content      string         `gorm:"size:500;not null" json:"content"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Author *User `gorm:"foreignKey:AuthorWallet;references:WalletAddress" json:"author,omitempty"`
}

func (Reply) TableName() string {
	return "replies"
}
