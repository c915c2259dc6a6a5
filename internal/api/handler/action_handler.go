package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

// ActionHandler 点赞、收藏与分享
type ActionHandler struct {
	actionSvc service.ActionService
}

func NewActionHandler(actionSvc service.ActionService) *ActionHandler {
	return &ActionHandler{
		actionSvc: actionSvc,
	}
}

func (s *ActionHandler) Like(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	if err := s.actionSvc.Like(c.Request.Context(), c.GetUint64("user_id"), videoID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ActionHandler) Unlike(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	if err := s.actionSvc.Unlike(c.Request.Context(), c.GetUint64("user_id"), videoID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ActionHandler) CheckLike(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	out, err := s.actionSvc.CheckLike(c.Request.Context(), c.GetUint64("user_id"), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *ActionHandler) CheckLikeBatch(c *gin.Context) {
	var req dto.LikeBatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.actionSvc.CheckLikeBatch(c.Request.Context(), c.GetUint64("user_id"), req.VideoIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *ActionHandler) Bookmark(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	if err := s.actionSvc.Bookmark(c.Request.Context(), c.GetUint64("user_id"), videoID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ActionHandler) Unbookmark(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	if err := s.actionSvc.Unbookmark(c.Request.Context(), c.GetUint64("user_id"), videoID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ActionHandler) CheckBookmark(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	out, err := s.actionSvc.CheckBookmark(c.Request.Context(), c.GetUint64("user_id"), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *ActionHandler) ListBookmarks(c *gin.Context) {
	var q dto.CursorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.actionSvc.ListBookmarks(c.Request.Context(), c.GetUint64("user_id"), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Share 匿名分享只计数不落记录
func (s *ActionHandler) Share(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	var req dto.ShareReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, err)
			return
		}
	}
	out, err := s.actionSvc.Share(c.Request.Context(), c.GetUint64("user_id"), videoID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *ActionHandler) ShareCount(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	out, err := s.actionSvc.ShareCount(c.Request.Context(), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
