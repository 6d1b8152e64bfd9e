package post

import (
	"net/url"
	"strings"

	"anoa.com/socialblog/internal/entity"
	postDto "anoa.com/socialblog/internal/modules/post/dto"
	"anoa.com/socialblog/pkg/dto"
)

const previewLength = 150

// preview returns the first previewLength characters followed by "..." when
// content is longer, otherwise content itself.
func preview(content string) (string, bool) {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content, false
	}
	return string(runes[:previewLength]) + "...", true
}

func validCoverURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

func mapToResponse(post *entity.Post, commentCount int64) postDto.PostResponse {
	text, truncated := preview(post.Content)

	author := dto.AuthorResponse{ID: post.AuthorID, DisplayName: "Anonymous"}
	if post.Author.DisplayName != "" {
		author.DisplayName = post.Author.DisplayName
		author.ProfileImageURL = post.Author.ProfileImageURL
	}

	return postDto.PostResponse{
		ID:           post.ID,
		Title:        post.Title,
		Content:      post.Content,
		Preview:      text,
		Truncated:    truncated,
		CoverURL:     post.CoverURL,
		Author:       author,
		CommentCount: commentCount,
		CreatedAt:    post.CreatedAt,
	}
}
