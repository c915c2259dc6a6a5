package replicate

import (
	"Lokiz/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var (
	ErrPredictionFailed = errors.New("prediction failed")
	ErrEmptyOutput      = errors.New("prediction returned no output")
)

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
	statusCanceled  = "canceled"
)

// Prediction 推理任务
type Prediction struct {
	ID     string         `json:"id"`
	Model  string         `json:"model"`
	Status string         `json:"status"`
	Input  map[string]any `json:"input"`
	Output any            `json:"output"`
	Error  any            `json:"error"`
}

func (p *Prediction) terminal() bool {
	return p.Status == statusSucceeded || p.Status == statusFailed || p.Status == statusCanceled
}

// Provider 推理服务抽象
type Provider interface {
	Run(ctx context.Context, model string, input map[string]any) (*Prediction, error)
}

// Client 推理服务 HTTP 客户端：创建预测后轮询直至终态
type Client struct {
	http         *resty.Client
	pollInterval time.Duration
}

func NewClient(cfg config.ReplicateConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30*time.Second).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		}).
		OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
			log.InfoContext(r.Request.Context(), "replicate call",
				"method", r.Request.Method,
				"url", r.Request.URL,
				"status", r.StatusCode(),
				"cost", r.Time().String(),
			)
			return nil
		})

	interval := time.Duration(cfg.PollInterval) * time.Second
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Client{http: client, pollInterval: interval}
}

// Run 创建预测并阻塞轮询，超时由 ctx 控制
func (c *Client) Run(ctx context.Context, model string, input map[string]any) (*Prediction, error) {
	pred, err := c.create(ctx, model, input)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for !pred.terminal() {
		select {
		case <-ctx.Done():
			return pred, errors.Wrapf(ctx.Err(), "wait prediction %s", pred.ID)
		case <-ticker.C:
		}
		if pred, err = c.get(ctx, pred.ID); err != nil {
			return nil, err
		}
	}

	if pred.Status != statusSucceeded {
		return pred, errors.Wrapf(ErrPredictionFailed, "%s %s: %v", pred.ID, pred.Status, pred.Error)
	}
	return pred, nil
}

func (c *Client) create(ctx context.Context, model string, input map[string]any) (*Prediction, error) {
	var pred Prediction
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"input": input}).
		SetResult(&pred).
		Post(fmt.Sprintf("/models/%s/predictions", model))
	if err != nil {
		return nil, errors.Wrapf(err, "create prediction for %s", model)
	}
	if resp.IsError() {
		return nil, errors.Errorf("create prediction for %s: status %d: %s", model, resp.StatusCode(), resp.String())
	}
	return &pred, nil
}

func (c *Client) get(ctx context.Context, id string) (*Prediction, error) {
	var pred Prediction
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&pred).
		Get("/predictions/" + id)
	if err != nil {
		return nil, errors.Wrapf(err, "get prediction %s", id)
	}
	if resp.IsError() {
		return nil, errors.Errorf("get prediction %s: status %d", id, resp.StatusCode())
	}
	return &pred, nil
}

// FirstOutput 输出可能为单个 URL 或 URL 列表，取第一个
func FirstOutput(output any) (string, error) {
	switch v := output.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				return s, nil
			}
		}
	case []string:
		if len(v) > 0 && v[0] != "" {
			return v[0], nil
		}
	}
	return "", ErrEmptyOutput
}
