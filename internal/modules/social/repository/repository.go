package repository

import (
	"context"

	"anoa.com/socialblog/internal/entity"
	"anoa.com/socialblog/pkg/apperror"
	"gorm.io/gorm"
)

// FollowRepository exposes the point queries over the follows relation that
// the graph aggregator composes. Row order is whatever the store returns.
type FollowRepository interface {
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	// FollowingIDs returns following_id of every edge where follower_id = userID.
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	// CountFollowersAmong counts edges (f, userID) with f in followerIDs.
	CountFollowersAmong(ctx context.Context, userID string, followerIDs []string) (int64, error)
	ListFollowers(ctx context.Context, userID string) ([]entity.Profile, error)
	ListFollowing(ctx context.Context, userID string) ([]entity.Profile, error)
	// ListFollowersAmong lists profiles p with an edge (p, userID) and p.id in followerIDs.
	ListFollowersAmong(ctx context.Context, userID string, followerIDs []string) ([]entity.Profile, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	Create(ctx context.Context, follow *entity.Follow) error
	Delete(ctx context.Context, followerID, followingID string) error
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("following_id = ?", userID).
		Count(&n).Error
	return n, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("follower_id = ?", userID).
		Count(&n).Error
	return n, err
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *followRepository) CountFollowersAmong(ctx context.Context, userID string, followerIDs []string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("following_id = ? AND follower_id IN ?", userID, followerIDs).
		Count(&n).Error
	return n, err
}

func (r *followRepository) ListFollowers(ctx context.Context, userID string) ([]entity.Profile, error) {
	var profiles []entity.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = profiles.id").
		Where("follows.following_id = ?", userID).
		Find(&profiles).Error
	return profiles, err
}

func (r *followRepository) ListFollowing(ctx context.Context, userID string) ([]entity.Profile, error) {
	var profiles []entity.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = profiles.id").
		Where("follows.follower_id = ?", userID).
		Find(&profiles).Error
	return profiles, err
}

func (r *followRepository) ListFollowersAmong(ctx context.Context, userID string, followerIDs []string) ([]entity.Profile, error) {
	var profiles []entity.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = profiles.id").
		Where("follows.following_id = ? AND follows.follower_id IN ?", userID, followerIDs).
		Find(&profiles).Error
	return profiles, err
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	// Find with Limit avoids gorm's "record not found" log noise from First().
	var rows []entity.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (r *followRepository) Create(ctx context.Context, follow *entity.Follow) error {
	return apperror.FromStore(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&entity.Follow{}).Error
}
