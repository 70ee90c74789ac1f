package wizard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"valentine-server/internal/models"
	"valentine-server/internal/wizard"
)

func TestGenerationOrchestrator_Success(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	store.SetStep(ctx, wizard.GeneratingStepIndex)

	emails := []models.GeneratedEmail{{Day: 1, Theme: "Valentine's Day", Subject: "s", Body: "b"}}
	orch := wizard.NewGenerationOrchestrator(store,
		func(_ context.Context, storyID string, _ models.StoryFormData) ([]models.GeneratedEmail, error) {
			assert.NotEmpty(t, storyID)
			return emails, nil
		}, zap.NewNop())

	require.NoError(t, orch.Run(ctx))

	snapshot := store.Snapshot()
	assert.Equal(t, emails, snapshot.Emails)
	assert.Equal(t, wizard.PreviewStepIndex, snapshot.CurrentStep)
	assert.False(t, snapshot.IsGenerating)
	assert.NotEmpty(t, snapshot.StoryID, "a story id is assigned for progress tracking")
}

func TestGenerationOrchestrator_FailureStaysOnGeneratingStep(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	store.SetStep(ctx, wizard.GeneratingStepIndex)

	orch := wizard.NewGenerationOrchestrator(store,
		func(context.Context, string, models.StoryFormData) ([]models.GeneratedEmail, error) {
			return nil, errors.New("backend down")
		}, zap.NewNop())

	require.Error(t, orch.Run(ctx))

	snapshot := store.Snapshot()
	assert.Equal(t, wizard.GeneratingStepIndex, snapshot.CurrentStep, "a failed attempt must not advance")
	assert.Empty(t, snapshot.Emails)
	assert.False(t, snapshot.IsGenerating)
}

func TestGenerationOrchestrator_StaleResultIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	store.SetStep(ctx, wizard.GeneratingStepIndex)

	slowEmails := []models.GeneratedEmail{{Day: 1, Theme: "t", Subject: "slow", Body: "slow"}}
	fastEmails := []models.GeneratedEmail{{Day: 1, Theme: "t", Subject: "fast", Body: "fast"}}

	slowEntered := make(chan struct{})
	slowRelease := make(chan struct{})
	calls := 0

	orch := wizard.NewGenerationOrchestrator(store,
		func(context.Context, string, models.StoryFormData) ([]models.GeneratedEmail, error) {
			calls++
			if calls == 1 {
				close(slowEntered)
				<-slowRelease
				return slowEmails, nil
			}
			return fastEmails, nil
		}, zap.NewNop())

	firstDone := make(chan error, 1)
	go func() { firstDone <- orch.Run(ctx) }()
	<-slowEntered

	// The retry finishes while the first attempt is still in flight.
	require.NoError(t, orch.Run(ctx))
	require.Equal(t, "fast", store.Snapshot().Emails[0].Subject)

	close(slowRelease)
	select {
	case err := <-firstDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first attempt did not finish")
	}

	snapshot := store.Snapshot()
	assert.Equal(t, "fast", snapshot.Emails[0].Subject, "the stale first result must not overwrite the retry")
	assert.Equal(t, wizard.PreviewStepIndex, snapshot.CurrentStep, "the flow advances exactly once")
}
