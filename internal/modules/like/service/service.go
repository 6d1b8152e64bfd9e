package like

import (
	"context"
	"fmt"

	"anoa.com/socialblog/internal/entity"
	likeDto "anoa.com/socialblog/internal/modules/like/dto"
	likeRepo "anoa.com/socialblog/internal/modules/like/repository"
	commonDto "anoa.com/socialblog/pkg/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LikeService interface {
	HasLiked(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	GetStatus(ctx context.Context, postID uuid.UUID, userID string) (*likeDto.LikeState, error)
	// ToggleLike flips the caller-held state. The count moves by one from the
	// supplied value and is not re-read. A failed write returns current unchanged.
	ToggleLike(ctx context.Context, postID uuid.UUID, userID string, current likeDto.LikeState) *likeDto.ToggleLikeResponse
}

type likeService struct {
	repo likeRepo.LikeRepository
	log  *zap.Logger
}

func NewLikeService(repo likeRepo.LikeRepository, log *zap.Logger) LikeService {
	return &likeService{repo: repo, log: log}
}

func (s *likeService) HasLiked(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	liked, err := s.repo.Exists(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("check like %s/%s: %w", postID, userID, err)
	}
	return liked, nil
}

func (s *likeService) GetStatus(ctx context.Context, postID uuid.UUID, userID string) (*likeDto.LikeState, error) {
	liked, err := s.HasLiked(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count likes of %s: %w", postID, err)
	}

	return &likeDto.LikeState{Liked: liked, Count: count}, nil
}

func (s *likeService) ToggleLike(ctx context.Context, postID uuid.UUID, userID string, current likeDto.LikeState) *likeDto.ToggleLikeResponse {
	next := likeDto.LikeState{Liked: !current.Liked}

	var err error
	if current.Liked {
		err = s.repo.Delete(ctx, postID, userID)
		next.Count = max(current.Count-1, 0)
	} else {
		err = s.repo.Create(ctx, &entity.Like{PostID: postID, UserID: userID})
		next.Count = current.Count + 1
	}

	if err != nil {
		s.log.Warn("toggle like failed",
			zap.String("post_id", postID.String()),
			zap.String("user_id", userID),
			zap.Bool("liked", current.Liked),
			zap.Error(err),
		)
		return &likeDto.ToggleLikeResponse{LikeState: current}
	}

	return &likeDto.ToggleLikeResponse{
		LikeState:    next,
		ToggleResult: commonDto.ToggleResult{Applied: true},
	}
}
