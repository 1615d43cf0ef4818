package models

import (
	"time"

	"gorm.io/gorm"
)

// Game tracks a wagered match at the fee-settlement level. Move validation
// happens client-side against the game program; the backend only records
// participants, the wager and the outcome, and collects the platform fee.
type Game struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	GameType     string         `gorm:"size:20;not null" json:"game_type"`
	Player1      string         `gorm:"size:64;not null;index" json:"player1"`
	Player2      *string        `gorm:"size:64;index" json:"player2"`
	Wager        float64        `gorm:"default:0" json:"wager"` // ALLY per player
	FeeCollected float64        `gorm:"default:0" json:"fee_collected"`
	Status       string         `gorm:"size:20;not null;default:'waiting';index" json:"status"`
	Winner       *string        `gorm:"size:64" json:"winner"`
	CompletedAt  *time.Time     `json:"completed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Game) TableName() string {
	return "games"
}
