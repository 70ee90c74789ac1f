package wizard_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"valentine-server/internal/models"
	"valentine-server/internal/wizard"
)

func newTestStore() (*wizard.Store, *wizard.MemoryAdapter) {
	adapter := wizard.NewMemoryAdapter()
	return wizard.NewStore(adapter, zap.NewNop()), adapter
}

func TestStore_StepNavigation(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	store.NextStep(ctx)
	store.NextStep(ctx)
	assert.Equal(t, 2, store.Snapshot().CurrentStep)

	store.PrevStep(ctx)
	assert.Equal(t, 1, store.Snapshot().CurrentStep)

	store.PrevStep(ctx)
	store.PrevStep(ctx)
	assert.Equal(t, 0, store.Snapshot().CurrentStep, "going back never drops below the first step")
}

func TestStore_AnswerStep(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the answer and advances", func(t *testing.T) {
		store, _ := newTestStore()
		require.NoError(t, store.AnswerStep(ctx, 0, "me@example.com"))

		snapshot := store.Snapshot()
		assert.Equal(t, "me@example.com", snapshot.FormData.UserEmail)
		assert.Equal(t, 1, snapshot.CurrentStep)
	})

	t.Run("rejects an empty required answer", func(t *testing.T) {
		store, _ := newTestStore()
		err := store.AnswerStep(ctx, 2, "   ")
		require.Error(t, err)
		assert.Equal(t, 0, store.Snapshot().CurrentStep, "a failed answer must not advance")
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		store, _ := newTestStore()
		assert.Error(t, store.AnswerStep(ctx, 0, "not-an-email"))
	})

	t.Run("recipient step stores both name and address", func(t *testing.T) {
		store, _ := newTestStore()
		store.SetStep(ctx, 1)
		require.NoError(t, store.AnswerStep(ctx, 1, "Priya", "priya@example.com"))

		snapshot := store.Snapshot()
		assert.Equal(t, "Priya", snapshot.FormData.RecipientName)
		assert.Equal(t, "priya@example.com", snapshot.FormData.RecipientEmail)
		assert.Equal(t, 2, snapshot.CurrentStep)
	})

	t.Run("recipient step rejects a bad address without storing the name", func(t *testing.T) {
		store, _ := newTestStore()
		store.SetStep(ctx, 1)
		require.Error(t, store.AnswerStep(ctx, 1, "Priya", "not-an-email"))

		snapshot := store.Snapshot()
		assert.Empty(t, snapshot.FormData.RecipientName)
		assert.Empty(t, snapshot.FormData.RecipientEmail)
		assert.Equal(t, 1, snapshot.CurrentStep)
	})

	t.Run("validates the tone choice", func(t *testing.T) {
		store, _ := newTestStore()
		require.NoError(t, store.AnswerStep(ctx, 11, "playful"))
		assert.Equal(t, models.TonePlayful, store.Snapshot().FormData.Tone)

		assert.Error(t, store.AnswerStep(ctx, 11, "sarcastic"))
	})
}

func TestStore_SkipStep(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	// early-impression is skippable
	store.SetStep(ctx, 4)
	require.NoError(t, store.SkipStep(ctx, 4))

	snapshot := store.Snapshot()
	assert.Empty(t, snapshot.FormData.EarlyImpression)
	assert.Equal(t, 5, snapshot.CurrentStep)

	assert.Error(t, store.SkipStep(ctx, 2), "required steps cannot be skipped")
}

func TestStore_ToggleEmotionalIntent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	require.NoError(t, store.ToggleEmotionalIntent(ctx, models.IntentLoved))
	require.NoError(t, store.ToggleEmotionalIntent(ctx, models.IntentMissed))
	assert.Equal(t, []models.EmotionalIntent{models.IntentLoved, models.IntentMissed},
		store.Snapshot().FormData.EmotionalIntent)

	t.Run("third selection evicts the oldest", func(t *testing.T) {
		require.NoError(t, store.ToggleEmotionalIntent(ctx, models.IntentCloser))
		assert.Equal(t, []models.EmotionalIntent{models.IntentMissed, models.IntentCloser},
			store.Snapshot().FormData.EmotionalIntent)
	})

	t.Run("selecting again deselects", func(t *testing.T) {
		require.NoError(t, store.ToggleEmotionalIntent(ctx, models.IntentMissed))
		assert.Equal(t, []models.EmotionalIntent{models.IntentCloser},
			store.Snapshot().FormData.EmotionalIntent)
	})

	t.Run("unknown intent is rejected", func(t *testing.T) {
		assert.Error(t, store.ToggleEmotionalIntent(ctx, "terrified"))
	})
}

func TestStore_UpdateFormDataMerges(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	name := "Priya"
	store.UpdateFormData(ctx, wizard.FormPatch{RecipientName: &name})

	hope := "completely at ease"
	store.UpdateFormData(ctx, wizard.FormPatch{ValentineHope: &hope})

	snapshot := store.Snapshot()
	assert.Equal(t, "Priya", snapshot.FormData.RecipientName, "earlier fields survive later patches")
	assert.Equal(t, "completely at ease", snapshot.FormData.ValentineHope)
}

func TestStore_EmailsAndVisibility(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	emails := []models.GeneratedEmail{
		{Day: 1, Theme: "Acknowledgement", Subject: "s1", Body: "b1"},
		{Day: 2, Theme: "Origin", Subject: "s2", Body: "b2"},
	}
	store.SetEmails(ctx, emails)

	assert.True(t, store.CanViewEmail(0), "the first letter is always free")
	assert.False(t, store.CanViewEmail(1), "later letters are locked by default")
	assert.False(t, store.CanViewEmail(5), "out of range is never viewable")

	store.SetUnlocked(ctx, true)
	assert.True(t, store.CanViewEmail(1))

	t.Run("no gate when unlock is not required", func(t *testing.T) {
		free, _ := newTestStore()
		free.SetEmails(ctx, emails)
		free.SetUnlockRequired(false)

		assert.True(t, free.CanViewEmail(0))
		assert.True(t, free.CanViewEmail(1), "every letter is viewable without payment")
		assert.False(t, free.CanViewEmail(5), "out of range stays hidden")
	})

	t.Run("update replaces a single letter", func(t *testing.T) {
		edited := emails[1]
		edited.Body = "edited"
		require.NoError(t, store.UpdateEmail(ctx, 1, edited))

		snapshot := store.Snapshot()
		assert.Equal(t, "edited", snapshot.Emails[1].Body)
		assert.Equal(t, "b1", snapshot.Emails[0].Body)

		assert.Error(t, store.UpdateEmail(ctx, 9, edited))
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		snapshot := store.Snapshot()
		snapshot.Emails[0].Body = "mutated"
		assert.Equal(t, "b1", store.Snapshot().Emails[0].Body)
	})
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	require.NoError(t, store.AnswerStep(ctx, 0, "me@example.com"))
	store.SetEmails(ctx, []models.GeneratedEmail{{Day: 1, Subject: "s", Body: "b", Theme: "t"}})
	store.SetPaid(ctx, true)
	store.SetUnlocked(ctx, true)

	store.Reset(ctx)

	snapshot := store.Snapshot()
	assert.Equal(t, 0, snapshot.CurrentStep)
	assert.Equal(t, models.StoryFormData{}, snapshot.FormData)
	assert.Empty(t, snapshot.Emails)
	assert.Empty(t, snapshot.StoryID)
	assert.False(t, snapshot.IsPaid)
	assert.False(t, snapshot.IsUnlocked)
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := wizard.NewMemoryAdapter()

	store := wizard.NewStore(adapter, zap.NewNop())
	require.NoError(t, store.AnswerStep(ctx, 0, "me@example.com"))
	store.SetStoryID(ctx, "story-1")
	store.SetGenerating(true)
	store.SetPaid(ctx, true)

	restored := wizard.NewStore(adapter, zap.NewNop())
	require.NoError(t, restored.Load(ctx))

	snapshot := restored.Snapshot()
	assert.Equal(t, 1, snapshot.CurrentStep)
	assert.Equal(t, "me@example.com", snapshot.FormData.UserEmail)
	assert.Equal(t, "story-1", snapshot.StoryID)
	assert.True(t, snapshot.IsPaid)
	assert.False(t, snapshot.IsGenerating, "the generating flag never survives a reload")
}

func TestStore_LoadClampsOutOfRangeStep(t *testing.T) {
	ctx := context.Background()
	adapter := wizard.NewMemoryAdapter()

	blob, err := json.Marshal(map[string]any{"currentStep": 99})
	require.NoError(t, err)
	require.NoError(t, adapter.Save(ctx, wizard.SnapshotKey, blob))

	store := wizard.NewStore(adapter, zap.NewNop())
	require.NoError(t, store.Load(ctx))
	assert.Equal(t, 0, store.Snapshot().CurrentStep)
}

func TestStore_LoadWithoutSnapshotKeepsInitialState(t *testing.T) {
	store, _ := newTestStore()
	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, 0, store.Snapshot().CurrentStep)
}

func TestState_GeneratingFlagIsNotPersisted(t *testing.T) {
	state := wizard.NewState()
	state.IsGenerating = true

	blob, err := json.Marshal(state)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), "isGenerating")
	assert.Contains(t, string(blob), "currentStep")
}
