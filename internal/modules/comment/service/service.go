package comment

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/socialblog/internal/entity"
	commentDto "anoa.com/socialblog/internal/modules/comment/dto"
	commentRepo "anoa.com/socialblog/internal/modules/comment/repository"
	commonDto "anoa.com/socialblog/pkg/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService interface {
	ListComments(ctx context.Context, postID uuid.UUID) (*commentDto.CommentListResponse, error)
	// AddComment appends a comment and re-reads the whole thread. Blank
	// content and insert failures are reported only through Applied=false.
	AddComment(ctx context.Context, postID uuid.UUID, userID, content string) (*commentDto.AddCommentResponse, error)
}

type commentService struct {
	repo commentRepo.CommentRepository
	log  *zap.Logger
}

func NewCommentService(repo commentRepo.CommentRepository, log *zap.Logger) CommentService {
	return &commentService{repo: repo, log: log}
}

func (s *commentService) ListComments(ctx context.Context, postID uuid.UUID) (*commentDto.CommentListResponse, error) {
	comments, err := s.repo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments of %s: %w", postID, err)
	}

	count, err := s.repo.CountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count comments of %s: %w", postID, err)
	}

	data := make([]commentDto.CommentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, mapToResponse(&comments[i]))
	}

	return &commentDto.CommentListResponse{Data: data, Count: count}, nil
}

func (s *commentService) AddComment(ctx context.Context, postID uuid.UUID, userID, content string) (*commentDto.AddCommentResponse, error) {
	applied := false

	if content = strings.TrimSpace(content); content != "" {
		comment := &entity.Comment{PostID: postID, UserID: userID, Content: content}
		if err := s.repo.Create(ctx, comment); err != nil {
			s.log.Warn("add comment failed",
				zap.String("post_id", postID.String()),
				zap.String("user_id", userID),
				zap.Error(err),
			)
		} else {
			applied = true
		}
	}

	list, err := s.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &commentDto.AddCommentResponse{
		CommentListResponse: *list,
		ToggleResult:        commonDto.ToggleResult{Applied: applied},
	}, nil
}

func mapToResponse(c *entity.Comment) commentDto.CommentResponse {
	return commentDto.CommentResponse{
		ID:      c.ID,
		PostID:  c.PostID,
		Content: c.Content,
		Author: commonDto.AuthorResponse{
			ID:              c.UserID,
			DisplayName:     c.User.DisplayName,
			ProfileImageURL: c.User.ProfileImageURL,
		},
		CreatedAt: c.CreatedAt,
	}
}
