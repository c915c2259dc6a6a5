package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentSvc: commentSvc,
	}
}

func (s *CommentHandler) Create(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	var req dto.CommentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.commentSvc.Create(c.Request.Context(), c.GetUint64("user_id"), videoID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *CommentHandler) List(c *gin.Context) {
	videoID, ok := pathID(c, "video_id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.commentSvc.List(c.Request.Context(), c.GetUint64("user_id"), videoID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *CommentHandler) Update(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	var req dto.CommentUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.commentSvc.Update(c.Request.Context(), c.GetUint64("user_id"), commentID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	if err := s.commentSvc.Delete(c.Request.Context(), c.GetUint64("user_id"), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommentHandler) BatchInfo(c *gin.Context) {
	var req dto.CommentBatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.commentSvc.BatchInfo(c.Request.Context(), c.GetUint64("user_id"), req.CommentIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *CommentHandler) Like(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	if err := s.commentSvc.Like(c.Request.Context(), c.GetUint64("user_id"), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommentHandler) Unlike(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	if err := s.commentSvc.Unlike(c.Request.Context(), c.GetUint64("user_id"), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommentHandler) CheckLike(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	out, err := s.commentSvc.CheckLike(c.Request.Context(), c.GetUint64("user_id"), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
