package repository

import (
	"context"

	"anoa.com/socialblog/internal/entity"
	"anoa.com/socialblog/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	// FindFeed returns the newest posts first. A nil authorIDs means every
	// author; a non-nil slice restricts author_id to its members.
	FindFeed(ctx context.Context, authorIDs []string, limit int) ([]entity.Post, error)
	FindByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withAuthor joins only the author columns a post card renders.
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "display_name", "profile_image_url")
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return apperror.FromStore(r.db.WithContext(ctx).Omit("Author").Create(post).Error)
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).
		Preload("Author", withAuthor).
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, apperror.FromStore(err)
	}
	return &post, nil
}

func (r *postRepository) FindFeed(ctx context.Context, authorIDs []string, limit int) ([]entity.Post, error) {
	query := r.db.WithContext(ctx).Preload("Author", withAuthor)
	if authorIDs != nil {
		query = query.Where("author_id IN ?", authorIDs)
	}

	var posts []entity.Post
	err := query.Order("created_at DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Post, error) {
	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Preload("Author", withAuthor).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("author_id = ?", authorID).
		Count(&n).Error
	return n, err
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	return apperror.FromStore(r.db.WithContext(ctx).
		Model(post).
		Select("title", "content", "cover_url").
		Updates(post).Error)
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Post{}, "id = ?", id).Error
}
