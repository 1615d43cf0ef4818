package repository

import (
	"time"

	"korus/internal/domain"
	"korus/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByWallet(wallet string) (*models.User, error) {
	var u models.User
	err := r.db.Where("wallet_address = ?", wallet).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// ApplyReputation increments the lifetime and category scores and the weekly
// bucket. When replaceWeekly is set the weekly counter and its week marker
// are overwritten instead of incremented (stale week detected by caller).
func (r *UserRepository) ApplyReputation(wallet, category string, points int, weekStart time.Time, replaceWeekly bool, now time.Time) error {
	updates := map[string]interface{}{
		"reputation_score": gorm.Expr("reputation_score + ?", points),
		"last_rep_update":  now,
	}
	switch category {
	case domain.RepCategoryContent:
		updates["content_score"] = gorm.Expr("content_score + ?", points)
	case domain.RepCategoryEngagement:
		updates["engagement_score"] = gorm.Expr("engagement_score + ?", points)
	case domain.RepCategoryCommunity:
		updates["community_score"] = gorm.Expr("community_score + ?", points)
	case domain.RepCategoryLoyalty:
		updates["loyalty_score"] = gorm.Expr("loyalty_score + ?", points)
	}
	if replaceWeekly {
		updates["weekly_rep_earned"] = points
		updates["week_start_date"] = weekStart
	} else {
		updates["weekly_rep_earned"] = gorm.Expr("weekly_rep_earned + ?", points)
	}
	return r.db.Model(&models.User{}).Where("wallet_address = ?", wallet).Updates(updates).Error
}

// EligibleForWeek returns non-suspended users with weekly reputation in the
// given week, highest earners first.
func (r *UserRepository) EligibleForWeek(weekStart time.Time) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("weekly_rep_earned > 0 AND week_start_date = ? AND is_suspended = ?", weekStart, false).
		Order("weekly_rep_earned DESC").
		Find(&users).Error
	return users, err
}

// CountActiveForWeek counts users with nonzero weekly reputation.
func (r *UserRepository) CountActiveForWeek(weekStart time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.User{}).
		Where("weekly_rep_earned > 0 AND week_start_date = ?", weekStart).
		Count(&n).Error
	return n, err
}

// ResetWeeklyRep zeroes the weekly counters of every participant of the week,
// decoupled from individual payout outcomes.
func (r *UserRepository) ResetWeeklyRep(weekStart time.Time) error {
	return r.db.Model(&models.User{}).
		Where("week_start_date = ? AND weekly_rep_earned > 0", weekStart).
		Update("weekly_rep_earned", 0).Error
}

func (r *UserRepository) AddAllyBalance(wallet string, amount float64) error {
	return r.db.Model(&models.User{}).
		Where("wallet_address = ?", wallet).
		Update("ally_balance", gorm.Expr("ally_balance + ?", amount)).Error
}

// Leaderboard returns the top lifetime reputation holders.
func (r *UserRepository) Leaderboard(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("reputation_score > 0").
		Order("reputation_score DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
