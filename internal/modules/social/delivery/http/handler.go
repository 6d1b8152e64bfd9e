package handler

import (
	"net/http"

	socialDto "anoa.com/socialblog/internal/modules/social/dto"
	social "anoa.com/socialblog/internal/modules/social/service"
	"anoa.com/socialblog/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SocialHandler struct {
	service social.Aggregator
	log     *zap.Logger
}

func NewSocialHandler(service social.Aggregator, log *zap.Logger) *SocialHandler {
	return &SocialHandler{service: service, log: log}
}

func (h *SocialHandler) GetFollowers(c *gin.Context) {
	profiles, err := h.service.ListFollowers(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, socialDto.ProfileListResponse{Data: profiles, Total: len(profiles)})
}

func (h *SocialHandler) GetFollowing(c *gin.Context) {
	profiles, err := h.service.ListFollowing(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, socialDto.ProfileListResponse{Data: profiles, Total: len(profiles)})
}

func (h *SocialHandler) GetFriends(c *gin.Context) {
	profiles, err := h.service.ListFriends(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, socialDto.ProfileListResponse{Data: profiles, Total: len(profiles)})
}

func (h *SocialHandler) GetFollowCounts(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *SocialHandler) GetFollowStatus(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	following, err := h.service.IsFollowing(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, socialDto.FollowStatusResponse{Following: following})
}

// ToggleFollow never reports store failures to the client; it answers with the
// state the edge was in before the attempt and applied=false.
func (h *SocialHandler) ToggleFollow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	targetID := c.Param("id")

	following, err := h.service.ToggleFollow(c.Request.Context(), userID, targetID)
	if err != nil {
		h.log.Warn("toggle follow failed",
			zap.String("follower_id", userID),
			zap.String("following_id", targetID),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, socialDto.ToggleFollowResponse{Following: following, Applied: false})
		return
	}

	c.JSON(http.StatusOK, socialDto.ToggleFollowResponse{Following: following, Applied: true})
}
