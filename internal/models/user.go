package models

import (
	"time"

	"korus/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	WalletAddress   string     `gorm:"uniqueIndex;size:64;not null" json:"wallet_address"`
	Tier            string     `gorm:"size:20;not null;default:'standard'" json:"tier"` // standard | premium
	WalletSource    string     `gorm:"size:20;default:'app'" json:"wallet_source"`      // app | seeker
	GenesisVerified bool       `gorm:"default:false" json:"genesis_verified"`
	AllyBalance     float64    `gorm:"default:0" json:"ally_balance"`
	IsSuspended     bool       `gorm:"default:false;index" json:"is_suspended"`

	// Lifetime reputation plus per-category breakdown.
	ReputationScore int `gorm:"default:0;index" json:"reputation_score"`
	ContentScore    int `gorm:"default:0" json:"content_score"`
	EngagementScore int `gorm:"default:0" json:"engagement_score"`
	CommunityScore  int `gorm:"default:0" json:"community_score"`
	LoyaltyScore    int `gorm:"default:0" json:"loyalty_score"`

	// Weekly bucket feeding distribution. WeekStartDate marks which week the
	// counter belongs to; a stale marker means the counter must be replaced,
	// not incremented.
	WeeklyRepEarned int        `gorm:"default:0;index" json:"weekly_rep_earned"`
	WeekStartDate   *time.Time `gorm:"index" json:"week_start_date"`
	LastRepUpdate   *time.Time `json:"last_rep_update"`

	LoginStreak   int        `gorm:"default:0" json:"login_streak"`
	LastLoginDate *time.Time `json:"last_login_date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// EligibleForDistribution reports whether the user participates in the given
// week's payout: nonzero weekly reputation earned in that week, not
// suspended. Mirrors the SQL filter in UserRepository.EligibleForWeek.
func (u *User) EligibleForDistribution(weekStart time.Time) bool {
	return !u.IsSuspended &&
		u.WeeklyRepEarned > 0 &&
		u.WeekStartDate != nil &&
		u.WeekStartDate.Equal(weekStart)
}

// RepMultiplier returns the tier multiplier applied to earned points.
func (u *User) RepMultiplier() float64 {
	switch {
	case u.GenesisVerified:
		return domain.MultiplierGenesis
	case u.Tier == domain.TierPremium:
		return domain.MultiplierPremium
	default:
		return 1.0
	}
}
