package dto

import (
	"time"

	commonDto "anoa.com/socialblog/pkg/dto"
	"github.com/google/uuid"
)

type AddCommentRequest struct {
	Content string `json:"content" binding:"max=2000"`
}

type CommentResponse struct {
	ID        uuid.UUID                `json:"id"`
	PostID    uuid.UUID                `json:"post_id"`
	Content   string                   `json:"content"`
	Author    commonDto.AuthorResponse `json:"author"`
	CreatedAt time.Time                `json:"created_at"`
}

type CommentListResponse struct {
	Data  []CommentResponse `json:"data"`
	Count int64             `json:"count"`
}

// AddCommentResponse carries the re-fetched list after an append attempt.
type AddCommentResponse struct {
	CommentListResponse
	commonDto.ToggleResult
}
