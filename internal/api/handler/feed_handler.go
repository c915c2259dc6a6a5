package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedSvc: feedSvc,
	}
}

// ForYou 匿名用户同样可访问
func (s *FeedHandler) ForYou(c *gin.Context) {
	var q dto.CursorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.feedSvc.ForYou(c.Request.Context(), c.GetUint64("user_id"), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *FeedHandler) Following(c *gin.Context) {
	var q dto.CursorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.feedSvc.Following(c.Request.Context(), c.GetUint64("user_id"), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
