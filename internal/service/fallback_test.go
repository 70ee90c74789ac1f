package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valentine-server/internal/models"
)

func TestBuildFallbackEmails_Sequence(t *testing.T) {
	formData := models.StoryFormData{
		RecipientName:  "Priya",
		LatelyThinking: "the way you laugh at your own jokes",
		Admiration:     "how patient you are with everyone",
	}

	emails := BuildFallbackEmails(formData, models.ShapeSequence)
	require.Len(t, emails, 7)

	for i, email := range emails {
		assert.Equal(t, i+1, email.Day)
		assert.Equal(t, models.SequenceThemes[i].Theme, email.Theme)
		assert.NotEmpty(t, email.Subject)
		assert.True(t, strings.HasPrefix(email.Body, "Hi Priya,\n\n"), "day %d greeting", email.Day)
	}

	assert.Contains(t, emails[0].Body, "the way you laugh at your own jokes")
	assert.Contains(t, emails[2].Body, "how patient you are with everyone")
	assert.Equal(t, "Acknowledgement: a note for today", emails[0].Subject)
}

func TestBuildFallbackEmails_MissingFieldsUseNeutralText(t *testing.T) {
	emails := BuildFallbackEmails(models.StoryFormData{}, models.ShapeSequence)
	require.Len(t, emails, 7)

	for _, email := range emails {
		assert.True(t, strings.HasPrefix(email.Body, "Hi there,\n\n"), "day %d", email.Day)
	}
	assert.Contains(t, emails[0].Body, "I've been sitting with some thoughts about you")
}

func TestBuildFallbackEmails_Single(t *testing.T) {
	formData := models.StoryFormData{
		RecipientName: "Sam",
		OriginStory:   "we met in a queue that never moved",
		ValentineHope: "completely at ease",
	}

	emails := BuildFallbackEmails(formData, models.ShapeSingle)
	require.Len(t, emails, 1)

	letter := emails[0]
	assert.Equal(t, 1, letter.Day)
	assert.Equal(t, "Valentine's Day", letter.Theme)
	assert.True(t, strings.HasPrefix(letter.Body, "Hi Sam,\n\n"))
	assert.Contains(t, letter.Body, "we met in a queue that never moved")
	assert.Contains(t, letter.Body, "completely at ease")
	assert.NotContains(t, letter.Body, "I've been sitting with some thoughts",
		"single letter skips the placeholder paragraphs")
}
