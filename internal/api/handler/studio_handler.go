package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

type StudioHandler struct {
	studioSvc service.StudioService
}

func NewStudioHandler(studioSvc service.StudioService) *StudioHandler {
	return &StudioHandler{
		studioSvc: studioSvc,
	}
}

func (s *StudioHandler) Timeline(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	out, err := s.studioSvc.Timeline(c.Request.Context(), c.GetUint64("user_id"), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *StudioHandler) Preview(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	var q dto.PreviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.studioSvc.Preview(c.Request.Context(), c.GetUint64("user_id"), videoID, q.Timestamp)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// SelectRange 起止时间可以放在 query 或 JSON 中
func (s *StudioHandler) SelectRange(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	var req dto.SelectRangeReq
	var err error
	if c.Request.ContentLength > 0 {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.studioSvc.SelectRange(c.Request.Context(), c.GetUint64("user_id"), videoID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *StudioHandler) ImageUploadURL(c *gin.Context) {
	var req dto.ImageUploadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.studioSvc.ImageUploadURL(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
