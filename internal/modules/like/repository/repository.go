package repository

import (
	"context"

	"anoa.com/socialblog/internal/entity"
	"anoa.com/socialblog/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeRepository interface {
	Exists(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error)
	Create(ctx context.Context, like *entity.Like) error
	Delete(ctx context.Context, postID uuid.UUID, userID string) error
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Exists(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	// Use Find with slice to avoid "record not found" log noise from GORM's First()
	var existing []entity.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return false, err
	}
	return len(existing) > 0, nil
}

func (r *likeRepository) CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&entity.Like{}).
		Where("post_id = ?", postID).
		Count(&n).Error
	return n, err
}

func (r *likeRepository) Create(ctx context.Context, like *entity.Like) error {
	return apperror.FromStore(r.db.WithContext(ctx).Create(like).Error)
}

func (r *likeRepository) Delete(ctx context.Context, postID uuid.UUID, userID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&entity.Like{}).Error
}
