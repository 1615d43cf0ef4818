package repository

import (
	"korus/internal/models"

	"gorm.io/gorm"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(g *models.Game) error {
	return r.db.Create(g).Error
}

func (r *GameRepository) GetByID(id uint) (*models.Game, error) {
	var g models.Game
	err := r.db.First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) Update(g *models.Game) error {
	return r.db.Save(g).Error
}

func (r *GameRepository) ListOpen(limit int) ([]models.Game, error) {
	var games []models.Game
	err := r.db.Where("status = ?", "waiting").
		Order("created_at DESC").
		Limit(limit).
		Find(&games).Error
	return games, err
}
