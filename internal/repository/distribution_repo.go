package repository

import (
	"errors"
	"time"

	"korus/internal/domain"
	"korus/internal/models"

	"gorm.io/gorm"
)

type DistributionRepository struct {
	db *gorm.DB
}

func NewDistributionRepository(db *gorm.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// CreateIntents persists the payout queue for a claimed week in one batch.
// The unique (user_wallet, week_start_date) index makes re-runs of a
// partially written batch fail loudly instead of double-queueing.
func (r *DistributionRepository) CreateIntents(intents []models.PayoutIntent) error {
	if len(intents) == 0 {
		return nil
	}
	return r.db.CreateInBatches(intents, 200).Error
}

// UnsettledIntents returns intents that still need a transfer attempt:
// freshly created pending rows plus failed ones being resumed.
func (r *DistributionRepository) UnsettledIntents(weekStart time.Time) ([]models.PayoutIntent, error) {
	var intents []models.PayoutIntent
	err := r.db.Where("week_start_date = ? AND status IN ?", weekStart,
		[]string{domain.PayoutPending, domain.PayoutFailed}).
		Order("id ASC").
		Find(&intents).Error
	return intents, err
}

func (r *DistributionRepository) MarkIntentSent(id uint, txSignature string, sentAt time.Time) error {
	return r.db.Model(&models.PayoutIntent{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       domain.PayoutSent,
			"tx_signature": txSignature,
			"sent_at":      sentAt,
			"last_error":   "",
		}).Error
}

func (r *DistributionRepository) MarkIntentFailed(id uint, cause string) error {
	if len(cause) > 500 {
		cause = cause[:500]
	}
	return r.db.Model(&models.PayoutIntent{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domain.PayoutFailed,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause,
		}).Error
}

func (r *DistributionRepository) CreateDistribution(d *models.TokenDistribution) error {
	return r.db.Create(d).Error
}

func (r *DistributionRepository) GetByUserWeek(wallet string, weekStart time.Time) (*models.TokenDistribution, error) {
	var d models.TokenDistribution
	err := r.db.Where("user_wallet = ? AND week_start_date = ?", wallet, weekStart).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DistributionRepository) ListByWallet(wallet string, limit, offset int) ([]models.TokenDistribution, error) {
	var out []models.TokenDistribution
	err := r.db.Where("user_wallet = ?", wallet).
		Order("week_start_date DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *DistributionRepository) TotalEarned(wallet string) (int64, error) {
	var total int64
	err := r.db.Model(&models.TokenDistribution{}).
		Where("user_wallet = ?", wallet).
		Select("COALESCE(SUM(tokens_earned), 0)").
		Scan(&total).Error
	return total, err
}

func (r *DistributionRepository) ListByWeek(weekStart time.Time) ([]models.TokenDistribution, error) {
	var out []models.TokenDistribution
	err := r.db.Where("week_start_date = ?", weekStart).
		Order("tokens_earned DESC").
		Find(&out).Error
	return out, err
}

