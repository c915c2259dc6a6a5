package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/pkg/response"
	"Lokiz/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	creditSvc service.CreditService
}

func NewCreditHandler(creditSvc service.CreditService) *CreditHandler {
	return &CreditHandler{
		creditSvc: creditSvc,
	}
}

func (s *CreditHandler) Packages(c *gin.Context) {
	response.Success(c, s.creditSvc.GetPackages())
}

func (s *CreditHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.creditSvc.Purchase(c.Request.Context(), c.GetUint64("user_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *CreditHandler) Balance(c *gin.Context) {
	out, err := s.creditSvc.GetBalance(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *CreditHandler) History(c *gin.Context) {
	var q dto.CreditHistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	out, err := s.creditSvc.GetHistory(c.Request.Context(), c.GetUint64("user_id"), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *CreditHandler) DailyStatus(c *gin.Context) {
	out, err := s.creditSvc.GetDailyStatus(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// DailyClaim 过早领取时 data 中带 next_claim_at 与 hours_remaining
func (s *CreditHandler) DailyClaim(c *gin.Context) {
	out, err := s.creditSvc.ClaimDaily(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
