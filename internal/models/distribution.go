package models

import "time"

// TokenDistribution is one settled payout. Uniquely keyed by
// (user wallet, week start); created only by settlement and immutable apart
// from the claimed transition.
type TokenDistribution struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserWallet       string     `gorm:"size:64;not null;uniqueIndex:idx_dist_user_week" json:"user_wallet"`
	WeekStartDate    time.Time  `gorm:"not null;uniqueIndex:idx_dist_user_week;index" json:"week_start_date"`
	WeekEndDate      time.Time  `json:"week_end_date"`
	DistributionDate time.Time  `gorm:"index" json:"distribution_date"`
	RepEarned        int        `gorm:"not null" json:"rep_earned"`
	SharePercentage  float64    `gorm:"not null" json:"share_percentage"`
	TokensEarned     int64      `gorm:"not null;index" json:"tokens_earned"`
	WeeklyPoolSize   float64    `gorm:"not null" json:"weekly_pool_size"`
	TotalParticipants int       `gorm:"not null" json:"total_participants"`
	Claimed          bool       `gorm:"default:false" json:"claimed"`
	ClaimedAt        *time.Time `json:"claimed_at"`
	TxSignature      string     `gorm:"size:100" json:"tx_signature"`
	CreatedAt        time.Time  `json:"created_at"`

	User *User `gorm:"foreignKey:UserWallet;references:WalletAddress" json:"user,omitempty"`
}

func (TokenDistribution) TableName() string {
	return "token_distributions"
}

// PayoutIntent is the durable payout queue: one row per eligible user is
// written before any transfer is attempted, so a crashed run resumes from
// exactly the unsent intents.
type PayoutIntent struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Reference     string     `gorm:"size:40;uniqueIndex;not null" json:"reference"` // uuid, carried in the transfer memo
	UserWallet    string     `gorm:"size:64;not null;uniqueIndex:idx_intent_user_week" json:"user_wallet"`
	WeekStartDate time.Time  `gorm:"not null;uniqueIndex:idx_intent_user_week;index" json:"week_start_date"`
	RepEarned     int        `gorm:"not null" json:"rep_earned"`
	SharePct      float64    `gorm:"not null" json:"share_pct"`
	Tokens        int64      `gorm:"not null" json:"tokens"`
	Status        string     `gorm:"size:10;not null;default:'pending';index" json:"status"` // pending | sent | failed
	Attempts      int        `gorm:"default:0" json:"attempts"`
	LastError     string     `gorm:"size:500" json:"last_error,omitempty"`
	TxSignature   string     `gorm:"size:100" json:"tx_signature,omitempty"`
	SentAt        *time.Time `json:"sent_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (PayoutIntent) TableName() string {
	return "payout_intents"
}
