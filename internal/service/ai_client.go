package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"valentine-server/internal/config"
)

// ErrAIGenerationFailed marks failures of the upstream AI gateway.
var ErrAIGenerationFailed = errors.New("ai text generation failed")

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "letter_server_ai_requests_total",
			Help: "Total number of requests to the AI gateway.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "letter_server_ai_request_duration_seconds",
			Help:    "Histogram of AI gateway request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
)

// AIClient generates text from a system prompt and a user prompt.
type AIClient interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// openAIClient implements AIClient on top of go-openai against an
// OpenAI-compatible gateway.
type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

// NewAIClient builds the gateway client from configuration.
// Callers must not construct one without an API key; pass nil to the
// generator instead so the fallback path is taken.
func NewAIClient(cfg *config.Config, logger *zap.Logger) AIClient {
	openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
	openaiConfig.BaseURL = cfg.AIBaseURL
	openaiConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}
	client := openaigo.NewClientWithConfig(openaiConfig)

	logger.Info("AI client created",
		zap.String("baseURL", cfg.AIBaseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout),
	)
	return &openAIClient{
		client: client,
		model:  cfg.AIModel,
		logger: logger.Named("AIClient"),
	}
}

// GenerateText sends a chat completion request and returns the raw completion.
func (c *openAIClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", fmt.Errorf("%w: system prompt is empty", ErrAIGenerationFailed)
	}

	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if userPrompt != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleUser,
			Content: userPrompt,
		})
	}

	startTime := time.Now()
	c.logger.Debug("Sending AI request",
		zap.String("model", c.model),
		zap.Int("systemPromptBytes", len(systemPrompt)),
		zap.Int("userPromptBytes", len(userPrompt)),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Warn("AI gateway error", zap.Duration("after", duration), zap.Error(err))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn("AI gateway returned empty response", zap.Duration("after", duration))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return "", fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	content := resp.Choices[0].Message.Content
	c.logger.Debug("AI response received",
		zap.Duration("latency", duration),
		zap.Int("responseChars", len(content)),
	)
	return content, nil
}
