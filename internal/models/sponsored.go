package models

import (
	"time"

	"gorm.io/gorm"
)

type SponsoredPost struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	PostID        uint           `gorm:"uniqueIndex;not null" json:"post_id"`
	SponsorWallet string         `gorm:"size:64;not null;index" json:"sponsor_wallet"`
	CampaignName  string         `gorm:"size:100" json:"campaign_name"`
	PricePaid     float64        `gorm:"not null" json:"price_paid"` // ALLY
	StartDate     time.Time      `json:"start_date"`
	EndDate       time.Time      `gorm:"index" json:"end_date"`
	TargetViews   int            `gorm:"default:0" json:"target_views"`
	Views         int            `gorm:"default:0" json:"views"`
	Clicks        int            `gorm:"default:0" json:"clicks"`
	WeekNumber    int            `json:"week_number"`
	YearNumber    int            `json:"year_number"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Post *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

func (SponsoredPost) TableName() string {
	return "sponsored_posts"
}
