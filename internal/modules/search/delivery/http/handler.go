package handler

import (
	"net/http"

	searchDto "anoa.com/socialblog/internal/modules/search/dto"
	search "anoa.com/socialblog/internal/modules/search/service"
	"anoa.com/socialblog/pkg/apperror"
	"anoa.com/socialblog/pkg/response"
	"anoa.com/socialblog/pkg/validator"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.MeiliSearchService
}

// NewSearchHandler accepts a nil service; every search then answers 503.
func NewSearchHandler(service search.MeiliSearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) SearchPosts(c *gin.Context) {
	if h.service == nil {
		response.ResponseError(c, apperror.New(http.StatusServiceUnavailable, "Search is not available.", apperror.ErrServiceUnavailable))
		return
	}

	var query searchDto.SearchPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	hits, err := h.service.SearchPosts(query.Q, query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, searchDto.SearchPostsResponse{Data: hits, Query: query.Q})
}
