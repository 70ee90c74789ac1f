package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"valentine-server/internal/wizard"
)

func TestDefaultSteps_Shape(t *testing.T) {
	assert.Len(t, wizard.DefaultSteps, 14)
	assert.Equal(t, 12, wizard.TotalFormSteps)

	generating := wizard.DefaultSteps[wizard.GeneratingStepIndex]
	assert.Equal(t, wizard.KindGenerating, generating.Kind)
	assert.False(t, generating.ShowProgress)

	preview := wizard.DefaultSteps[wizard.PreviewStepIndex]
	assert.Equal(t, wizard.KindPreview, preview.Kind)
	assert.False(t, preview.ShowProgress)

	for i, step := range wizard.DefaultSteps[:wizard.TotalFormSteps] {
		assert.True(t, step.ShowProgress, "form step %d (%s) shows progress", i, step.ID)
	}
}

func TestStepAt_ClampsToFirst(t *testing.T) {
	assert.Equal(t, "email-signup", wizard.StepAt(-1).ID)
	assert.Equal(t, "email-signup", wizard.StepAt(99).ID)
	assert.Equal(t, "tone", wizard.StepAt(11).ID)
}

func TestValidateAnswer(t *testing.T) {
	emailStep := wizard.DefaultSteps[0]
	requiredStep := wizard.DefaultSteps[2]
	skippableStep := wizard.DefaultSteps[10]

	t.Run("email format", func(t *testing.T) {
		assert.NoError(t, wizard.ValidateAnswer(emailStep, "me@example.com"))
		assert.Error(t, wizard.ValidateAnswer(emailStep, "me@example"))
		assert.Error(t, wizard.ValidateAnswer(emailStep, "me @example.com"))
	})

	t.Run("required text", func(t *testing.T) {
		assert.NoError(t, wizard.ValidateAnswer(requiredStep, "their laugh"))
		assert.Error(t, wizard.ValidateAnswer(requiredStep, ""))
		assert.Error(t, wizard.ValidateAnswer(requiredStep, "   "))
	})

	t.Run("optional step accepts empty", func(t *testing.T) {
		assert.NoError(t, wizard.ValidateAnswer(skippableStep, ""))
		assert.NoError(t, wizard.ValidateAnswer(skippableStep, "no mention of the dog"))
	})

	t.Run("recipient step takes name and address", func(t *testing.T) {
		recipient := wizard.DefaultSteps[1]
		assert.Equal(t, []string{"recipientName", "recipientEmail"}, recipient.FieldKeys)

		assert.NoError(t, wizard.ValidateAnswer(recipient, "Priya", "priya@example.com"))
		assert.Error(t, wizard.ValidateAnswer(recipient, "Priya", "not-an-email"))
		assert.Error(t, wizard.ValidateAnswer(recipient, "", "priya@example.com"))
		assert.Error(t, wizard.ValidateAnswer(recipient, "Priya"), "both answers must be given")
	})
}
