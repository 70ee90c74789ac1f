package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"valentine-server/internal/config"
)

// ErrImageGenerationFailed marks failures of the illustration call.
var ErrImageGenerationFailed = errors.New("image generation failed")

// ImageClient produces one illustration URL for a prompt. Failures are
// non-fatal to the letter pipeline; callers simply omit the image.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type openAIImageClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

// NewImageClient builds the illustration client from configuration.
func NewImageClient(cfg *config.Config, logger *zap.Logger) ImageClient {
	openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
	openaiConfig.BaseURL = cfg.AIBaseURL
	openaiConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}
	return &openAIImageClient{
		client: openaigo.NewClientWithConfig(openaiConfig),
		model:  cfg.AIImageModel,
		logger: logger.Named("ImageClient"),
	}
}

func (c *openAIImageClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateImage(ctx, openaigo.ImageRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		ResponseFormat: openaigo.CreateImageResponseFormatURL,
	})
	if err != nil {
		c.logger.Debug("Image request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrImageGenerationFailed, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("%w: empty image response", ErrImageGenerationFailed)
	}
	return resp.Data[0].URL, nil
}

// dayImagePrompts maps each day of the sequence to its illustration prompt.
var dayImagePrompts = map[int]string{
	1: "Soft cinematic illustration of morning light through curtains onto an empty chair, muted warm tones, intimate quiet domestic scene, no text, atmospheric",
	2: "Soft cinematic illustration of two coffee cups on a wooden table by a window with soft rain outside, muted nostalgic tones, intimate quiet scene, no text",
	3: "Soft cinematic illustration of hands gently holding a worn book, soft afternoon light, muted warm palette, intimate contemplative mood, no text",
	4: "Soft cinematic illustration of an unmade bed with morning light, soft shadows, muted intimate tones, vulnerability and trust, no text",
	5: "Soft cinematic illustration of two pairs of shoes by a doorway, one neat one messy, muted warm light, quiet domestic intimacy, no text",
	6: "Soft cinematic illustration of a kitchen counter with two mugs and soft evening light, muted cozy tones, everyday love scene, no text",
	7: "Soft cinematic illustration of intertwined hands resting on a blanket, soft golden hour light, muted romantic tones, quiet affection, no text",
}

// ImagePromptForDay returns the illustration prompt for a day, defaulting to day 1.
func ImagePromptForDay(day int) string {
	if p, ok := dayImagePrompts[day]; ok {
		return p
	}
	return dayImagePrompts[1]
}
