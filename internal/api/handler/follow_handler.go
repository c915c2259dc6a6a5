package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followSvc service.FollowService
}

func NewFollowHandler(followSvc service.FollowService) *FollowHandler {
	return &FollowHandler{
		followSvc: followSvc,
	}
}

func (s *FollowHandler) Follow(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := s.followSvc.Follow(c.Request.Context(), c.GetUint64("user_id"), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *FollowHandler) Unfollow(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := s.followSvc.Unfollow(c.Request.Context(), c.GetUint64("user_id"), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *FollowHandler) Followers(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.followSvc.Followers(c.Request.Context(), userID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *FollowHandler) Following(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.followSvc.Following(c.Request.Context(), userID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *FollowHandler) Check(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	out, err := s.followSvc.Check(c.Request.Context(), c.GetUint64("user_id"), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *FollowHandler) CheckBatch(c *gin.Context) {
	var req dto.FollowBatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.followSvc.CheckBatch(c.Request.Context(), c.GetUint64("user_id"), req.UserIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
