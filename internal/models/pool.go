package models

import "time"

// WeeklyPool is the per-week revenue pool. At most one row per week-start;
// category sums only ever grow; Distributed flips false→true exactly once.
type WeeklyPool struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	WeekStartDate    time.Time  `gorm:"uniqueIndex;not null" json:"week_start_date"`
	WeekEndDate      time.Time  `gorm:"not null" json:"week_end_date"`
	DistributionDate time.Time  `gorm:"not null" json:"distribution_date"`
	SponsoredRevenue float64    `gorm:"default:0" json:"sponsored_revenue"`
	GameFees         float64    `gorm:"default:0" json:"game_fees"`
	EventFees        float64    `gorm:"default:0" json:"event_fees"`
	TotalPoolSize    float64    `gorm:"default:0" json:"total_pool_size"`
	TotalRepEarned   int        `gorm:"default:0" json:"total_rep_earned"`
	ParticipantCount int        `gorm:"default:0" json:"participant_count"`
	Distributed      bool       `gorm:"default:false" json:"distributed"`
	DistributedAt    *time.Time `json:"distributed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (WeeklyPool) TableName() string {
	return "weekly_pools"
}

// TotalRevenue is the sum across the three categories before splits.
func (p *WeeklyPool) TotalRevenue() float64 {
	return p.SponsoredRevenue + p.GameFees + p.EventFees
}

// RevenueEvent is a typed revenue record written by the originating action
// (sponsored purchase, game fee). The on-chain memo scan is a cross-check;
// these rows are the authoritative application-side trail.
type RevenueEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Category      string    `gorm:"size:20;not null;index" json:"category"` // sponsored | game | event
	Amount        float64   `gorm:"not null" json:"amount"`
	SourceWallet  string    `gorm:"size:64;index" json:"source_wallet"`
	Reference     string    `gorm:"size:100" json:"reference"` // e.g. sponsored:<id>, game:<id>
	WeekStartDate time.Time `gorm:"index;not null" json:"week_start_date"`
	CreatedAt     time.Time `json:"created_at"`
}

func (RevenueEvent) TableName() string {
	return "revenue_events"
}
