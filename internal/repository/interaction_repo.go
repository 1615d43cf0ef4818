package repository

import (
	"errors"

	"korus/internal/domain"
	"korus/internal/models"

	"gorm.io/gorm"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Create(i *models.Interaction) error {
	return r.db.Create(i).Error
}

// FindLike returns the like row for (user, post), or nil if absent.
func (r *InteractionRepository) FindLike(wallet string, postID uint) (*models.Interaction, error) {
	var i models.Interaction
	err := r.db.Where("user_wallet = ? AND post_id = ? AND type = ?", wallet, postID, domain.InteractionLike).First(&i).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InteractionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Interaction{}, id).Error
}

func (r *InteractionRepository) ListForPost(postID uint) ([]models.Interaction, error) {
	var out []models.Interaction
	err := r.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
