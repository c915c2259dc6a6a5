package replicate

import (
	"Lokiz/internal/api/config"
	"context"
)

// Result 生成结果
type Result struct {
	OutputURL    string `json:"output_url"`
	Model        string `json:"model"`
	PredictionID string `json:"prediction_id"`
}

// Generator 按业务场景选择模型并组装输入
type Generator struct {
	provider Provider
	models   config.ModelsConfig
}

func NewGenerator(provider Provider, models config.ModelsConfig) *Generator {
	return &Generator{provider: provider, models: models}
}

// I2VTemplate 图生视频模板
func (g *Generator) I2VTemplate(ctx context.Context, imageURL, prompt string, duration int) (*Result, error) {
	return g.run(ctx, g.models.Template, map[string]any{
		"image":    imageURL,
		"prompt":   prompt,
		"duration": duration,
	})
}

// GlitchAnimate 把模板视频的动作迁移到用户图片上
func (g *Generator) GlitchAnimate(ctx context.Context, videoURL, imageURL, prompt string) (*Result, error) {
	return g.run(ctx, g.models.Animate, withPrompt(map[string]any{
		"video": videoURL,
		"image": imageURL,
	}, prompt))
}

// GlitchReplace 用用户图片替换模板视频主体
func (g *Generator) GlitchReplace(ctx context.Context, videoURL, imageURL, prompt string) (*Result, error) {
	return g.run(ctx, g.models.Replace, withPrompt(map[string]any{
		"video": videoURL,
		"image": imageURL,
	}, prompt))
}

// StickerToReality 将图片融入视频片段
func (g *Generator) StickerToReality(ctx context.Context, videoURL, imageURL string, start, end float64, prompt string) (*Result, error) {
	return g.run(ctx, g.models.Sticker, map[string]any{
		"video":             videoURL,
		"image":             imageURL,
		"start_time":        start,
		"end_time":          end,
		"prompt":            prompt,
		"remove_background": true,
		"context_aware":     true,
	})
}

func (g *Generator) Music(ctx context.Context, prompt string, duration int) (*Result, error) {
	return g.run(ctx, g.models.Music, map[string]any{
		"prompt":   prompt,
		"duration": duration,
	})
}

func (g *Generator) run(ctx context.Context, model string, input map[string]any) (*Result, error) {
	pred, err := g.provider.Run(ctx, model, input)
	if err != nil {
		return nil, err
	}
	url, err := FirstOutput(pred.Output)
	if err != nil {
		return nil, err
	}
	return &Result{OutputURL: url, Model: model, PredictionID: pred.ID}, nil
}

func withPrompt(input map[string]any, prompt string) map[string]any {
	if prompt != "" {
		input["prompt"] = prompt
	}
	return input
}
