package repository

import (
	"errors"
	"time"

	"korus/internal/models"

	"gorm.io/gorm"
)

type SponsoredRepository struct {
	db *gorm.DB
}

func NewSponsoredRepository(db *gorm.DB) *SponsoredRepository {
	return &SponsoredRepository{db: db}
}

func (r *SponsoredRepository) Create(s *models.SponsoredPost) error {
	return r.db.Create(s).Error
}

func (r *SponsoredRepository) GetByPostID(postID uint) (*models.SponsoredPost, error) {
	var s models.SponsoredPost
	err := r.db.Where("post_id = ?", postID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SponsoredRepository) ListActive(now time.Time) ([]models.SponsoredPost, error) {
	var out []models.SponsoredPost
	err := r.db.Preload("Post").
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *SponsoredRepository) TrackView(id uint) error {
	return r.db.Model(&models.SponsoredPost{}).Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

func (r *SponsoredRepository) TrackClick(id uint) error {
	return r.db.Model(&models.SponsoredPost{}).Where("id = ?", id).
		Update("clicks", gorm.Expr("clicks + 1")).Error
}
