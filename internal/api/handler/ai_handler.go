package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/pkg/util"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultTemplateDuration = 5
	defaultMusicDuration    = 60
)

type AIHandler struct {
	aiSvc service.AIService
}

func NewAIHandler(aiSvc service.AIService) *AIHandler {
	return &AIHandler{
		aiSvc: aiSvc,
	}
}

func (s *AIHandler) Template(c *gin.Context) {
	var req dto.I2VTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Duration == 0 {
		req.Duration = defaultTemplateDuration
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	job, err := s.aiSvc.SubmitTemplate(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

func (s *AIHandler) GlitchAnimate(c *gin.Context) {
	s.glitch(c, model.JobTypeGlitchAnimate)
}

func (s *AIHandler) GlitchReplace(c *gin.Context) {
	s.glitch(c, model.JobTypeGlitchReplace)
}

func (s *AIHandler) glitch(c *gin.Context, jobType string) {
	var req dto.GlitchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	job, err := s.aiSvc.SubmitGlitch(c.Request.Context(), c.GetUint64("user_id"), jobType, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

func (s *AIHandler) Music(c *gin.Context) {
	var req dto.MusicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Duration == 0 {
		req.Duration = defaultMusicDuration
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	job, err := s.aiSvc.SubmitMusic(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

func (s *AIHandler) StickerToReality(c *gin.Context) {
	var req dto.StickerToRealityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	job, err := s.aiSvc.SubmitStickerToReality(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

// CaptureFrame 截取视频帧并上传为图片
func (s *AIHandler) CaptureFrame(c *gin.Context) {
	var req dto.FrameCaptureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.aiSvc.CaptureFrame(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *AIHandler) ListJobs(c *gin.Context) {
	var q dto.CursorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.aiSvc.ListJobs(c.Request.Context(), c.GetUint64("user_id"), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *AIHandler) GetJob(c *gin.Context) {
	jobID, ok := pathID(c, "job_id")
	if !ok {
		return
	}
	job, err := s.aiSvc.GetJob(c.Request.Context(), c.GetUint64("user_id"), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

func (s *AIHandler) BatchStatus(c *gin.Context) {
	var req dto.AIJobBatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.aiSvc.BatchStatus(c.Request.Context(), c.GetUint64("user_id"), req.JobIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
