package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationSvc service.ModerationService
}

func NewModerationHandler(moderationSvc service.ModerationService) *ModerationHandler {
	return &ModerationHandler{
		moderationSvc: moderationSvc,
	}
}

func (s *ModerationHandler) Block(c *gin.Context) {
	var req dto.BlockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.moderationSvc.Block(c.Request.Context(), c.GetUint64("user_id"), req.BlockedUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *ModerationHandler) Unblock(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := s.moderationSvc.Unblock(c.Request.Context(), c.GetUint64("user_id"), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ModerationHandler) ListBlocks(c *gin.Context) {
	var q dto.LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.moderationSvc.ListBlocks(c.Request.Context(), c.GetUint64("user_id"), q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *ModerationHandler) IsBlocked(c *gin.Context) {
	targetID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	out, err := s.moderationSvc.IsBlocked(c.Request.Context(), c.GetUint64("user_id"), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *ModerationHandler) Report(c *gin.Context) {
	var req dto.ReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.moderationSvc.Report(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *ModerationHandler) MyReports(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.moderationSvc.MyReports(c.Request.Context(), c.GetUint64("user_id"), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// AdminReports 管理员按状态查看举报
func (s *ModerationHandler) AdminReports(c *gin.Context) {
	var q dto.ReportAdminQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.moderationSvc.AdminReports(c.Request.Context(), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *ModerationHandler) ReviewReport(c *gin.Context) {
	reportID, ok := pathID(c, "report_id")
	if !ok {
		return
	}
	var req dto.ReportReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.moderationSvc.ReviewReport(c.Request.Context(), reportID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
