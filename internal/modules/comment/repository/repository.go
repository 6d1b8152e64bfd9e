package repository

import (
	"context"

	"anoa.com/socialblog/internal/entity"
	"anoa.com/socialblog/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	// FindByPostID lists a post's comments oldest first with their authors.
	FindByPostID(ctx context.Context, postID uuid.UUID) ([]entity.Comment, error)
	CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error)
	// CountByPostIDs returns comment counts keyed by post id. Posts without
	// comments are absent from the map.
	CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return apperror.FromStore(r.db.WithContext(ctx).Omit("User", "Post").Create(comment).Error)
}

func (r *commentRepository) FindByPostID(ctx context.Context, postID uuid.UUID) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "display_name", "profile_image_url")
		}).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Where("post_id = ?", postID).
		Count(&n).Error
	return n, err
}

func (r *commentRepository) CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uuid.UUID
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Select("post_id, count(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}
