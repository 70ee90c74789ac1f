package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"valentine-server/internal/models"
)

func TestBuildSystemPrompt(t *testing.T) {
	t.Run("unknown tone defaults to warm", func(t *testing.T) {
		prompt := BuildSystemPrompt(models.StoryFormData{Tone: "sarcastic"}, models.ShapeSequence)
		assert.Contains(t, prompt, "TONE: warm")
	})

	t.Run("guardrails become a never-mention rule", func(t *testing.T) {
		prompt := BuildSystemPrompt(models.StoryFormData{Guardrails: "the lost dog"}, models.ShapeSequence)
		assert.Contains(t, prompt, "NEVER MENTION: the lost dog")
	})

	t.Run("no guardrails means no never-mention rule", func(t *testing.T) {
		prompt := BuildSystemPrompt(models.StoryFormData{}, models.ShapeSequence)
		assert.NotContains(t, prompt, "NEVER MENTION")
	})

	t.Run("emotional intents are listed", func(t *testing.T) {
		prompt := BuildSystemPrompt(models.StoryFormData{
			EmotionalIntent: []models.EmotionalIntent{models.IntentLoved, models.IntentMissed},
		}, models.ShapeSequence)
		assert.Contains(t, prompt, "FEELING: loved, missed")
	})

	t.Run("shape changes the framing", func(t *testing.T) {
		sequence := BuildSystemPrompt(models.StoryFormData{}, models.ShapeSequence)
		single := BuildSystemPrompt(models.StoryFormData{}, models.ShapeSingle)
		assert.Contains(t, sequence, "7-day Valentine's Week email sequence")
		assert.Contains(t, single, "single Valentine's Day letter")
	})
}

func TestBuildUserPrompt(t *testing.T) {
	formData := models.StoryFormData{
		RecipientName:  "Maya",
		LatelyThinking: "her terrible puns",
	}

	t.Run("sequence asks for seven objects", func(t *testing.T) {
		prompt := BuildUserPrompt(formData, models.ShapeSequence)
		assert.Contains(t, prompt, "Create 7 emails for Maya.")
		assert.Contains(t, prompt, "exactly 7 objects")
		assert.Contains(t, prompt, `"her terrible puns"`)
		assert.Contains(t, prompt, "FINAL CHECKLIST")
	})

	t.Run("single asks for one object", func(t *testing.T) {
		prompt := BuildUserPrompt(formData, models.ShapeSingle)
		assert.Contains(t, prompt, "Create 1 letter for Maya.")
		assert.Contains(t, prompt, "exactly 1 object")
	})

	t.Run("missing fields get explicit not-provided directions", func(t *testing.T) {
		prompt := BuildUserPrompt(models.StoryFormData{}, models.ShapeSequence)
		assert.Contains(t, prompt, "Create 7 emails for my partner.")
		assert.True(t, strings.Contains(prompt, "Not provided - use a gentle opening"))
		assert.True(t, strings.Contains(prompt, "Not provided - be vague about the meeting"))
	})
}
