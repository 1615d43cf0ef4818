package repository

import (
	"errors"
	"time"

	"korus/internal/domain"
	"korus/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PoolRepository struct {
	db *gorm.DB
}

func NewPoolRepository(db *gorm.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

func (r *PoolRepository) GetByWeekStart(weekStart time.Time) (*models.WeeklyPool, error) {
	var p models.WeeklyPool
	err := r.db.Where("week_start_date = ?", weekStart).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddRevenue upserts the pool row for the week and ADDS the given category
// sums to whatever is already recorded. Both the chain scanner and
// application events go through here, so writes must stay additive.
func (r *PoolRepository) AddRevenue(weekStart, weekEnd, distributionDate time.Time, sponsored, game, event float64) error {
	pool := models.WeeklyPool{
		WeekStartDate:    weekStart,
		WeekEndDate:      weekEnd,
		DistributionDate: distributionDate,
		SponsoredRevenue: sponsored,
		GameFees:         game,
		EventFees:        event,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "week_start_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"sponsored_revenue": gorm.Expr("weekly_pools.sponsored_revenue + ?", sponsored),
			"game_fees":         gorm.Expr("weekly_pools.game_fees + ?", game),
			"event_fees":        gorm.Expr("weekly_pools.event_fees + ?", event),
			"updated_at":        time.Now().UTC(),
		}),
	}).Create(&pool).Error
}

// AddCategoryRevenue is the application-event entry point: one category, one
// amount, plus a typed RevenueEvent row for the audit trail.
func (r *PoolRepository) AddCategoryRevenue(weekStart, weekEnd, distributionDate time.Time, category string, amount float64, sourceWallet, reference string) error {
	var sponsored, game, event float64
	switch category {
	case domain.RevenueSponsored:
		sponsored = amount
	case domain.RevenueGame:
		game = amount
	case domain.RevenueEvent:
		event = amount
	default:
		return errors.New("unknown revenue category: " + category)
	}
	if err := r.AddRevenue(weekStart, weekEnd, distributionDate, sponsored, game, event); err != nil {
		return err
	}
	return r.db.Create(&models.RevenueEvent{
		Category:      category,
		Amount:        amount,
		SourceWallet:  sourceWallet,
		Reference:     reference,
		WeekStartDate: weekStart,
	}).Error
}

// ClaimForDistribution atomically flips distributed false→true and snapshots
// the computed pool stats. Zero rows affected means another run already
// claimed the week; callers must abort.
func (r *PoolRepository) ClaimForDistribution(weekStart time.Time, now time.Time, poolSize float64, totalRep, participants int) (bool, error) {
	res := r.db.Model(&models.WeeklyPool{}).
		Where("week_start_date = ? AND distributed = ?", weekStart, false).
		Updates(map[string]interface{}{
			"distributed":       true,
			"distributed_at":    now,
			"total_pool_size":   poolSize,
			"total_rep_earned":  totalRep,
			"participant_count": participants,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PoolRepository) RevenueEventsForWeek(weekStart time.Time) ([]models.RevenueEvent, error) {
	var events []models.RevenueEvent
	err := r.db.Where("week_start_date = ?", weekStart).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
