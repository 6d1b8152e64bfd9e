package repository

import (
	"context"

	"anoa.com/socialblog/internal/entity"
	"anoa.com/socialblog/pkg/apperror"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	// FindByID returns apperror.ErrNotFound when no row has the id.
	FindByID(ctx context.Context, id string) (*entity.Profile, error)
	Create(ctx context.Context, profile *entity.Profile) error
	// UpdateIdentity overwrites the provider-sourced columns. Nil pointers clear them.
	UpdateIdentity(ctx context.Context, id, displayName string, email, imageURL *string) error
	Update(ctx context.Context, profile *entity.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, apperror.FromStore(err)
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	return apperror.FromStore(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *profileRepository) UpdateIdentity(ctx context.Context, id, displayName string, email, imageURL *string) error {
	return apperror.FromStore(r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"display_name":      displayName,
			"email":             email,
			"profile_image_url": imageURL,
		}).Error)
}

func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	return apperror.FromStore(r.db.WithContext(ctx).
		Model(profile).
		Select("display_name", "bio", "profile_image_url").
		Updates(profile).Error)
}
