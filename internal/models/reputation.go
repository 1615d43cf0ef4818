package models

import "time"

// RepEvent is the append-only ledger of reputation awards. Points holds the
// base value; Multiplier the tier multiplier applied when the user's scores
// were incremented.
type RepEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserWallet  string    `gorm:"size:64;not null;index" json:"user_wallet"`
	EventType   string    `gorm:"size:40;not null;index" json:"event_type"`
	Category    string    `gorm:"size:20;not null" json:"category"` // content | engagement | community | loyalty
	Points      int       `gorm:"not null" json:"points"`
	Multiplier  float64   `gorm:"default:1" json:"multiplier"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (RepEvent) TableName() string {
	return "rep_events"
}
