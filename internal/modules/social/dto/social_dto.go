package dto

import "anoa.com/socialblog/internal/entity"

type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Friends   int64 `json:"friends"`
}

type FollowStatusResponse struct {
	Following bool `json:"following"`
}

type ToggleFollowResponse struct {
	Following bool `json:"following"`
	Applied   bool `json:"applied"`
}

type ProfileListResponse struct {
	Data  []entity.Profile `json:"data"`
	Total int              `json:"total"`
}
