package handler

import (
	"Lokiz/internal/api/dto"
	"Lokiz/internal/model"
	"Lokiz/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, *dto.Response) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	resp := &dto.Response{}
	_ = json.Unmarshal(w.Body.Bytes(), resp)
	return w, resp
}

// asUser 模拟鉴权中间件注入的身份
func asUser(id uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Next()
	}
}

type fakeAIService struct {
	service.AIService
	template *dto.I2VTemplateReq
	music    *dto.MusicReq
	glitch   string
	userID   uint64
}

func (f *fakeAIService) SubmitTemplate(_ context.Context, uid uint64, req *dto.I2VTemplateReq) (*dto.AIJobDTO, error) {
	f.userID, f.template = uid, req
	return &dto.AIJobDTO{ID: 1, JobType: model.JobTypeTemplate, Status: model.JobStatusPending}, nil
}

func (f *fakeAIService) SubmitMusic(_ context.Context, uid uint64, req *dto.MusicReq) (*dto.AIJobDTO, error) {
	f.userID, f.music = uid, req
	return &dto.AIJobDTO{ID: 2, JobType: model.JobTypeMusic}, nil
}

func (f *fakeAIService) SubmitGlitch(_ context.Context, _ uint64, jobType string, _ *dto.GlitchReq) (*dto.AIJobDTO, error) {
	f.glitch = jobType
	return nil, &service.InsufficientCreditsError{Required: 30, Available: 4}
}

func aiEngine(svc service.AIService) *gin.Engine {
	h := NewAIHandler(svc)
	r := gin.New()
	g := r.Group("/ai", asUser(7))
	g.POST("/template", h.Template)
	g.POST("/music", h.Music)
	g.POST("/glitch/replace", h.GlitchReplace)
	g.GET("/jobs/:job_id", h.GetJob)
	return r
}

func TestTemplateDefaultsDuration(t *testing.T) {
	svc := &fakeAIService{}
	w, resp := serve(aiEngine(svc), http.MethodPost, "/ai/template",
		`{"image_url":"https://cdn.example.com/a.png","template":"dance","prompt":"spin"}`)
	if w.Code != http.StatusOK || resp.Code != 200 {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if svc.template.Duration != defaultTemplateDuration || svc.userID != 7 {
		t.Fatalf("unexpected request %+v uid %d", svc.template, svc.userID)
	}
}

func TestTemplateDurationOutOfRange(t *testing.T) {
	svc := &fakeAIService{}
	w, _ := serve(aiEngine(svc), http.MethodPost, "/ai/template",
		`{"image_url":"https://cdn.example.com/a.png","template":"dance","prompt":"spin","duration":11}`)
	if w.Code != http.StatusBadRequest || svc.template != nil {
		t.Fatalf("status %d, service called %v", w.Code, svc.template != nil)
	}
}

func TestMusicDefaultsDuration(t *testing.T) {
	svc := &fakeAIService{}
	w, _ := serve(aiEngine(svc), http.MethodPost, "/ai/music", `{"prompt":"lofi"}`)
	if w.Code != http.StatusOK || svc.music.Duration != defaultMusicDuration {
		t.Fatalf("status %d req %+v", w.Code, svc.music)
	}
}

func TestGlitchInsufficientCredits(t *testing.T) {
	svc := &fakeAIService{}
	w, resp := serve(aiEngine(svc), http.MethodPost, "/ai/glitch/replace",
		`{"template_video_id":3,"user_image_url":"https://cdn.example.com/me.png"}`)
	if w.Code != http.StatusPaymentRequired || svc.glitch != model.JobTypeGlitchReplace {
		t.Fatalf("status %d type %q", w.Code, svc.glitch)
	}
	detail, _ := resp.Data.(map[string]any)
	if detail["required"] != float64(30) || detail["available"] != float64(4) {
		t.Fatalf("detail = %v", resp.Data)
	}
}

func TestInvalidPathID(t *testing.T) {
	w, _ := serve(aiEngine(&fakeAIService{}), http.MethodGet, "/ai/jobs/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
}

type fakeCreditService struct {
	service.CreditService
}

func (f *fakeCreditService) ClaimDaily(context.Context, uint64) (*dto.DailyClaimDTO, error) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	return nil, service.NewDailyClaimError(now, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))
}

func TestDailyClaimTooEarly(t *testing.T) {
	h := NewCreditHandler(&fakeCreditService{})
	r := gin.New()
	r.POST("/credits/daily-claim", asUser(1), h.DailyClaim)

	w, resp := serve(r, http.MethodPost, "/credits/daily-claim", "")
	if w.Code != http.StatusBadRequest || resp.Code != 400 {
		t.Fatalf("status %d", w.Code)
	}
	detail, _ := resp.Data.(map[string]any)
	if detail["hours_remaining"] != float64(9) || detail["next_claim_at"] == nil {
		t.Fatalf("detail = %v", resp.Data)
	}
}

type fakeFollowService struct {
	service.FollowService
}

func (f *fakeFollowService) Follow(_ context.Context, userID, targetID uint64) error {
	if userID == targetID {
		return service.ErrFollowSelf
	}
	return service.ErrAlreadyFollowing
}

func TestFollowErrors(t *testing.T) {
	h := NewFollowHandler(&fakeFollowService{})
	r := gin.New()
	r.POST("/follows/users/:user_id", asUser(4), h.Follow)

	if w, _ := serve(r, http.MethodPost, "/follows/users/4", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("self follow status %d", w.Code)
	}
	if w, _ := serve(r, http.MethodPost, "/follows/users/5", ""); w.Code != http.StatusConflict {
		t.Fatalf("duplicate follow status %d", w.Code)
	}
}

type fakeActionService struct {
	service.ActionService
	sharedBy uint64
}

func (f *fakeActionService) Share(_ context.Context, userID, _ uint64, req *dto.ShareReq) (*dto.ShareDTO, error) {
	f.sharedBy = userID
	return &dto.ShareDTO{Success: true, ShareCount: 3}, nil
}

func TestAnonymousShareWithoutBody(t *testing.T) {
	svc := &fakeActionService{sharedBy: 99}
	h := NewActionHandler(svc)
	r := gin.New()
	r.POST("/shares/videos/:video_id", h.Share)

	w, _ := serve(r, http.MethodPost, "/shares/videos/8", "")
	if w.Code != http.StatusOK || svc.sharedBy != 0 {
		t.Fatalf("status %d shared by %d", w.Code, svc.sharedBy)
	}
}
