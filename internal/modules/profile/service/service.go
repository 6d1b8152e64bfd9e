package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/socialblog/internal/entity"
	postRepo "anoa.com/socialblog/internal/modules/post/repository"
	profileDto "anoa.com/socialblog/internal/modules/profile/dto"
	profileRepo "anoa.com/socialblog/internal/modules/profile/repository"
	social "anoa.com/socialblog/internal/modules/social/service"
	"anoa.com/socialblog/pkg/apperror"
	commonDto "anoa.com/socialblog/pkg/dto"
	"anoa.com/socialblog/pkg/storage"
	"go.uber.org/zap"
)

type ProfileService interface {
	// SyncPrincipal mirrors the identity-provider principal into its profile
	// row. It never returns an error; failures are logged.
	SyncPrincipal(ctx context.Context, principal entity.Principal)
	GetProfile(ctx context.Context, userID string) (*profileDto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, input profileDto.UpdateProfileInput, avatar *commonDto.UploadFile) (*entity.Profile, error)
}

type profileService struct {
	repo     profileRepo.ProfileRepository
	postRepo postRepo.PostRepository
	graph    social.Aggregator
	storage  storage.ObjectStorage
	log      *zap.Logger
	now      func() time.Time
}

func NewProfileService(repo profileRepo.ProfileRepository, postRepo postRepo.PostRepository, graph social.Aggregator, objectStorage storage.ObjectStorage, log *zap.Logger) ProfileService {
	return &profileService{
		repo:     repo,
		postRepo: postRepo,
		graph:    graph,
		storage:  objectStorage,
		log:      log,
		now:      time.Now,
	}
}

// SyncPrincipal reads the profile once and writes at most once. An existing
// row is rewritten only when its stored image differs from the principal's
// avatar; name or email changes alone are not propagated.
func (s *profileService) SyncPrincipal(ctx context.Context, principal entity.Principal) {
	if principal.ID == "" {
		return
	}

	existing, err := s.repo.FindByID(ctx, principal.ID)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		profile := &entity.Profile{
			ID:              principal.ID,
			DisplayName:     principal.DisplayName(),
			Email:           principal.PrimaryEmail,
			ProfileImageURL: principal.AvatarURL,
		}
		if err := s.repo.Create(ctx, profile); err != nil {
			s.log.Error("profile sync: create failed", zap.String("user_id", principal.ID), zap.Error(err))
		}
	case err != nil:
		s.log.Error("profile sync: lookup failed", zap.String("user_id", principal.ID), zap.Error(err))
	case !sameURL(existing.ProfileImageURL, principal.AvatarURL):
		if err := s.repo.UpdateIdentity(ctx, principal.ID, principal.DisplayName(), principal.PrimaryEmail, principal.AvatarURL); err != nil {
			s.log.Error("profile sync: update failed", zap.String("user_id", principal.ID), zap.Error(err))
		}
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*profileDto.ProfileResponse, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.graph.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}

	postCount, err := s.postRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count posts of %s: %w", userID, err)
	}

	return &profileDto.ProfileResponse{
		Profile:      *profile,
		FollowCounts: *counts,
		PostCount:    postCount,
	}, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, input profileDto.UpdateProfileInput, avatar *commonDto.UploadFile) (*entity.Profile, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, apperror.New(http.StatusBadRequest, "Display name cannot be empty.", apperror.ErrInvalidInput)
		}
		profile.DisplayName = name
	}
	if input.Bio != nil {
		profile.Bio = normalizeOptional(input.Bio)
	}

	if avatar != nil && avatar.Reader != nil {
		if s.storage == nil {
			return nil, apperror.New(http.StatusServiceUnavailable, "Image uploads are not available.", apperror.ErrServiceUnavailable)
		}

		objectPath := storage.ObjectPath("avatars", userID, avatar.FileName, s.now())
		if err := s.storage.Upload(ctx, objectPath, avatar.Reader); err != nil {
			return nil, apperror.New(http.StatusInternalServerError, "Failed to update profile", err)
		}
		url, err := s.storage.PublicURL(objectPath)
		if err != nil {
			return nil, apperror.New(http.StatusInternalServerError, "Failed to update profile", err)
		}
		profile.ProfileImageURL = &url
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to update profile", err)
	}

	return profile, nil
}

func sameURL(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
