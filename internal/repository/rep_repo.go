package repository

import (
	"korus/internal/models"

	"gorm.io/gorm"
)

type RepEventRepository struct {
	db *gorm.DB
}

func NewRepEventRepository(db *gorm.DB) *RepEventRepository {
	return &RepEventRepository{db: db}
}

func (r *RepEventRepository) Create(e *models.RepEvent) error {
	return r.db.Create(e).Error
}

func (r *RepEventRepository) ListByWallet(wallet string, limit, offset int) ([]models.RepEvent, error) {
	var events []models.RepEvent
	err := r.db.Where("user_wallet = ?", wallet).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&events).Error
	return events, err
}
