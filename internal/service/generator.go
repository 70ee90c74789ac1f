package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"valentine-server/internal/models"
)

// GenerationStage labels the real backend stages of a generation request.
// Stages are published to connected progress listeners, so the client-side
// indicator follows actual work instead of a cosmetic timer.
type GenerationStage string

const (
	StageBuildingPrompt GenerationStage = "building_prompt"
	StageCallingModel   GenerationStage = "calling_model"
	StageValidating     GenerationStage = "validating"
	StageImages         GenerationStage = "rendering_images"
	StageFallback       GenerationStage = "fallback"
	StageComplete       GenerationStage = "complete"
)

// ProgressNotifier pushes stage events for a story to any listener.
type ProgressNotifier interface {
	Notify(storyID string, stage GenerationStage)
}

// NopNotifier drops all progress events.
type NopNotifier struct{}

func (NopNotifier) Notify(string, GenerationStage) {}

// EmailGenerator turns accumulated form data into generated letters.
// It never fails the primary action: any AI or validation problem falls back
// to the deterministic templated output.
type EmailGenerator interface {
	Generate(ctx context.Context, storyID string, formData models.StoryFormData) ([]models.GeneratedEmail, error)
}

type emailGenerator struct {
	ai       AIClient // nil when no API key is configured
	images   ImageClient
	notifier ProgressNotifier
	shape    models.ProductShape
	logger   *zap.Logger
}

// NewEmailGenerator wires the generation pipeline. Pass ai == nil to force
// the fallback path (missing API key), and images == nil to skip illustrations.
func NewEmailGenerator(ai AIClient, images ImageClient, notifier ProgressNotifier, shape models.ProductShape, logger *zap.Logger) EmailGenerator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &emailGenerator{
		ai:       ai,
		images:   images,
		notifier: notifier,
		shape:    shape,
		logger:   logger.Named("EmailGenerator"),
	}
}

func (g *emailGenerator) Generate(ctx context.Context, storyID string, formData models.StoryFormData) ([]models.GeneratedEmail, error) {
	if g.ai == nil {
		g.logger.Warn("AI key missing, using fallback generation", zap.String("storyID", storyID))
		g.notifier.Notify(storyID, StageFallback)
		emails := BuildFallbackEmails(formData, g.shape)
		g.notifier.Notify(storyID, StageComplete)
		return emails, nil
	}

	emails, err := g.generateWithAI(ctx, storyID, formData)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.logger.Warn("AI generation failed, falling back",
			zap.String("storyID", storyID), zap.Error(err))
		g.notifier.Notify(storyID, StageFallback)
		emails = BuildFallbackEmails(formData, g.shape)
	}

	g.notifier.Notify(storyID, StageComplete)
	return emails, nil
}

func (g *emailGenerator) generateWithAI(ctx context.Context, storyID string, formData models.StoryFormData) ([]models.GeneratedEmail, error) {
	g.notifier.Notify(storyID, StageBuildingPrompt)
	systemPrompt := BuildSystemPrompt(formData, g.shape)
	userPrompt := BuildUserPrompt(formData, g.shape)

	g.notifier.Notify(storyID, StageCallingModel)
	raw, err := g.ai.GenerateText(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	g.notifier.Notify(storyID, StageValidating)
	arrayText, err := extractJSONArray(raw)
	if err != nil {
		return nil, err
	}
	emails, err := validateEmails([]byte(arrayText), g.shape.Count())
	if err != nil {
		return nil, err
	}

	if g.images != nil {
		g.notifier.Notify(storyID, StageImages)
		g.attachImages(ctx, emails)
	}
	return emails, nil
}

// attachImages renders one illustration per email. Failures only omit the
// image URL; the letters themselves are already final.
func (g *emailGenerator) attachImages(ctx context.Context, emails []models.GeneratedEmail) {
	for i := range emails {
		url, err := g.images.GenerateImage(ctx, ImagePromptForDay(emails[i].Day))
		if err != nil {
			g.logger.Debug("Skipping illustration", zap.Int("day", emails[i].Day), zap.Error(err))
			continue
		}
		emails[i].ImageURL = url
	}
}

// extractJSONArray pulls the first top-level JSON array out of a raw
// completion, tolerating prose or fencing around it.
func extractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON array found in response", models.ErrGenerationFailed)
	}
	return text[start : end+1], nil
}

// validateEmails strictly checks the model output against the declared shape:
// exact array length, correct field types, non-empty subject and body.
func validateEmails(data []byte, want int) ([]models.GeneratedEmail, error) {
	var emails []models.GeneratedEmail
	if err := json.Unmarshal(data, &emails); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}
	if len(emails) != want {
		return nil, fmt.Errorf("%w: got %d items, want %d", models.ErrInvalidShape, len(emails), want)
	}
	for i, email := range emails {
		if email.Day <= 0 || strings.TrimSpace(email.Theme) == "" ||
			strings.TrimSpace(email.Subject) == "" || strings.TrimSpace(email.Body) == "" {
			return nil, fmt.Errorf("%w: item %d is missing required fields", models.ErrInvalidShape, i)
		}
	}
	return emails, nil
}
