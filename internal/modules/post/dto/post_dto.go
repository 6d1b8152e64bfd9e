package dto

import (
	"time"

	commonDto "anoa.com/socialblog/pkg/dto"
	"github.com/google/uuid"
)

const (
	FeedModeAll       = "all"
	FeedModeFollowing = "following"
)

type CreatePostRequest struct {
	Title    string  `json:"title" form:"title" binding:"required,max=255"`
	Content  string  `json:"content" form:"content" binding:"required"`
	CoverURL *string `json:"cover_url" form:"cover_url"`
}

// UpdatePostRequest replaces title and content. A nil CoverURL keeps the
// current cover and a blank one removes it.
type UpdatePostRequest struct {
	Title    string  `json:"title" form:"title" binding:"required,max=255"`
	Content  string  `json:"content" form:"content" binding:"required"`
	CoverURL *string `json:"cover_url" form:"cover_url"`
}

type FeedQuery struct {
	Mode string `form:"mode" binding:"omitempty,oneof=all following"`
}

type PostResponse struct {
	ID           uuid.UUID                `json:"id"`
	Title        string                   `json:"title"`
	Content      string                   `json:"content"`
	Preview      string                   `json:"preview"`
	Truncated    bool                     `json:"truncated"`
	CoverURL     *string                  `json:"cover_url,omitempty"`
	Author       commonDto.AuthorResponse `json:"author"`
	CommentCount int64                    `json:"comment_count"`
	CreatedAt    time.Time                `json:"created_at"`
}

type FeedResponse struct {
	Mode string         `json:"mode"`
	Data []PostResponse `json:"data"`
}
