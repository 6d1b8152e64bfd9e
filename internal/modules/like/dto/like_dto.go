package dto

import commonDto "anoa.com/socialblog/pkg/dto"

// LikeState is what a like button shows: whether the viewer liked the post
// and the displayed like count.
type LikeState struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count" binding:"min=0"`
}

type ToggleLikeResponse struct {
	LikeState
	commonDto.ToggleResult
}
