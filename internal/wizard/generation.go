package wizard

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"valentine-server/internal/models"
)

// GenerateFunc produces the letters for a story. In the server it is backed
// by the generation pipeline; embedders can point it at the HTTP API.
type GenerateFunc func(ctx context.Context, storyID string, formData models.StoryFormData) ([]models.GeneratedEmail, error)

// GenerationOrchestrator runs generation for a store and keeps retries
// sane: every run takes a fresh request token, and only the newest run is
// allowed to publish its result. A slow earlier attempt that resolves after
// a retry is discarded instead of overwriting the retry's letters.
type GenerationOrchestrator struct {
	store    *Store
	generate GenerateFunc
	token    atomic.Uint64
	logger   *zap.Logger
}

func NewGenerationOrchestrator(store *Store, generate GenerateFunc, logger *zap.Logger) *GenerationOrchestrator {
	return &GenerationOrchestrator{
		store:    store,
		generate: generate,
		logger:   logger.Named("GenerationOrchestrator"),
	}
}

// Run executes one generation attempt. On success the letters are stored
// and the flow advances to the preview. On failure the flow stays on the
// generating step so the user can retry; the error is returned for surfacing.
func (o *GenerationOrchestrator) Run(ctx context.Context) error {
	snapshot := o.store.Snapshot()
	storyID := snapshot.StoryID
	if storyID == "" {
		storyID = uuid.New().String()
		o.store.SetStoryID(ctx, storyID)
	}

	token := o.token.Add(1)
	o.store.SetGenerating(true)

	emails, err := o.generate(ctx, storyID, snapshot.FormData)

	if token != o.token.Load() {
		o.logger.Debug("Discarding stale generation result",
			zap.String("storyID", storyID), zap.Uint64("token", token))
		return nil
	}

	o.store.SetGenerating(false)
	if err != nil {
		o.logger.Warn("Generation attempt failed",
			zap.String("storyID", storyID), zap.Error(err))
		return err
	}

	o.store.SetEmails(ctx, emails)
	o.store.NextStep(ctx)
	return nil
}
