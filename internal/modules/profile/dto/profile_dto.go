package dto

import (
	"anoa.com/socialblog/internal/entity"
	socialDto "anoa.com/socialblog/internal/modules/social/dto"
)

// UpdateProfileInput represents the input for updating the caller's profile
type UpdateProfileInput struct {
	DisplayName *string `json:"display_name" form:"display_name" binding:"omitempty,max=100"`
	Bio         *string `json:"bio" form:"bio" binding:"omitempty,max=500"`
}

// ProfileResponse is a profile page: the row plus its graph counts and post count
type ProfileResponse struct {
	entity.Profile
	socialDto.FollowCounts
	PostCount int64 `json:"post_count"`
}
