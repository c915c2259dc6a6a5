package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/pkg/util"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoSvc service.VideoService
}

func NewVideoHandler(videoSvc service.VideoService) *VideoHandler {
	return &VideoHandler{
		videoSvc: videoSvc,
	}
}

// CreateUpload 创建视频记录并签发上传地址
func (s *VideoHandler) CreateUpload(c *gin.Context) {
	var req dto.VideoUploadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.videoSvc.CreateUpload(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *VideoHandler) ListPublic(c *gin.Context) {
	var q dto.CursorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.videoSvc.ListPublic(c.Request.Context(), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *VideoHandler) ListMine(c *gin.Context) {
	var q dto.VideoListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.videoSvc.ListMine(c.Request.Context(), c.GetUint64("user_id"), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// ListUserVideos 他人主页的视频列表
func (s *VideoHandler) ListUserVideos(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var q dto.CursorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.videoSvc.ListUserVideos(c.Request.Context(), c.GetUint64("user_id"), userID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *VideoHandler) ListLikedVideos(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var q dto.CursorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.videoSvc.ListLikedVideos(c.Request.Context(), c.GetUint64("user_id"), userID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *VideoHandler) GetVideo(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	out, err := s.videoSvc.GetVideo(c.Request.Context(), c.GetUint64("user_id"), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *VideoHandler) UpdateVideo(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	var req dto.VideoUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.videoSvc.UpdateVideo(c.Request.Context(), c.GetUint64("user_id"), videoID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// CompleteVideo 客户端上传完成后回调
func (s *VideoHandler) CompleteVideo(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	var req dto.VideoCompleteReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, err)
			return
		}
	}
	out, err := s.videoSvc.CompleteVideo(c.Request.Context(), c.GetUint64("user_id"), videoID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *VideoHandler) RecordView(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	out, err := s.videoSvc.RecordView(c.Request.Context(), c.GetUint64("user_id"), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *VideoHandler) DeleteVideo(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	out, err := s.videoSvc.DeleteVideo(c.Request.Context(), c.GetUint64("user_id"), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *VideoHandler) BatchMetadata(c *gin.Context) {
	var req dto.VideoBatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.videoSvc.BatchMetadata(c.Request.Context(), req.VideoIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
