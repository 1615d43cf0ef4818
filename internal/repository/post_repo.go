package repository

import (
	"time"

	"korus/internal/models"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(p *models.Post) error {
	return r.db.Create(p).Error
}

func (r *PostRepository) GetByID(id uint) (*models.Post, error) {
	var p models.Post
	err := r.db.Preload("Author").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) List(topic, subtopic string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("Author").Order("created_at DESC").Limit(limit).Offset(offset)
	if topic != "" {
		q = q.Where("topic = ?", topic)
	}
	if subtopic != "" {
		q = q.Where("subtopic = ?", subtopic)
	}
	err := q.Find(&posts).Error
	return posts, err
}

// CountByAuthorSince supports the first-post-of-day bonus.
func (r *PostRepository) CountByAuthorSince(wallet string, since time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&models.Post{}).
		Where("author_wallet = ? AND created_at >= ?", wallet, since).
		Count(&n).Error
	return n, err
}

func (r *PostRepository) IncrementLikes(id uint, delta int) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count + ?", delta)).Error
}

func (r *PostRepository) IncrementTips(id uint) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		Update("tip_count", gorm.Expr("tip_count + 1")).Error
}

func (r *PostRepository) CreateReply(reply *models.Reply) error {
	if err := r.db.Create(reply).Error; err != nil {
		return err
	}
	return r.db.Model(&models.Post{}).Where("id = ?", reply.PostID).
		Update("reply_count", gorm.Expr("reply_count + 1")).Error
}

func (r *PostRepository) ListReplies(postID uint, limit, offset int) ([]models.Reply, error) {
	var replies []models.Reply
	err := r.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&replies).Error
	return replies, err
}
