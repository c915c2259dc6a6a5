package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

type GlitchHandler struct {
	glitchSvc service.GlitchService
}

func NewGlitchHandler(glitchSvc service.GlitchService) *GlitchHandler {
	return &GlitchHandler{
		glitchSvc: glitchSvc,
	}
}

// ListGlitches 某视频的二创列表
func (s *GlitchHandler) ListGlitches(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	var q dto.GlitchListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.glitchSvc.ListGlitches(c.Request.Context(), c.GetUint64("user_id"), videoID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// GetSource 二创视频的来源
func (s *GlitchHandler) GetSource(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	out, err := s.glitchSvc.GetSource(c.Request.Context(), c.GetUint64("user_id"), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
