package models

import "time"

// Interaction is one like or tip against a post. Likes are unique per
// (user, post, type); tips may repeat.
type Interaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserWallet string    `gorm:"size:64;not null;index:idx_interaction_user_post" json:"user_wallet"`
	PostID     uint      `gorm:"not null;index:idx_interaction_user_post;index" json:"post_id"`
	Type       string    `gorm:"size:20;not null;index:idx_interaction_user_post" json:"type"` // like | tip
	Amount     float64   `gorm:"default:0" json:"amount"`                                      // ALLY, tips only
	CreatedAt  time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserWallet;references:WalletAddress" json:"user,omitempty"`
}

func (Interaction) TableName() string {
	return "interactions"
}
