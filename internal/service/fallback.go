package service

import (
	"fmt"
	"strings"

	"valentine-server/internal/models"
)

// BuildFallbackEmails produces the deterministic templated output used when
// the AI gateway is unavailable, unconfigured, or returns an invalid shape.
// It is built from the same form fields as the prompt, so the user always
// receives a usable result for the primary action.
func BuildFallbackEmails(formData models.StoryFormData, shape models.ProductShape) []models.GeneratedEmail {
	if shape == models.ShapeSingle {
		return []models.GeneratedEmail{buildFallbackLetter(formData)}
	}

	recipientName := models.SafeString(formData.RecipientName, "there")
	emails := make([]models.GeneratedEmail, 0, len(models.SequenceThemes))
	for _, d := range models.SequenceThemes {
		body := fmt.Sprintf("Hi %s,\n\n%s\n\n", recipientName, fallbackParagraph(d.Day, formData))
		emails = append(emails, models.GeneratedEmail{
			Day:     d.Day,
			Theme:   d.Theme,
			Subject: fmt.Sprintf("%s: a note for today", d.Theme),
			Body:    body,
		})
	}
	return emails
}

func fallbackParagraph(day int, formData models.StoryFormData) string {
	latelyThinking := models.SafeString(formData.LatelyThinking, "")
	originStory := models.SafeString(formData.OriginStory, "")
	earlyImpression := models.SafeString(formData.EarlyImpression, "")
	admiration := models.SafeString(formData.Admiration, "")
	vulnerability := models.SafeString(formData.VulnerabilityFeeling, "")
	growthChange := models.SafeString(formData.GrowthChange, "")
	everydayChoice := models.SafeString(formData.EverydayChoice, "")
	valentineHope := models.SafeString(formData.ValentineHope, "")

	switch {
	case day == 1 && latelyThinking != "":
		return fmt.Sprintf("Lately I've been thinking about %s. I don't know why it keeps coming back to me, but it does.\n\nThis week I wanted to slow down and say some things I don't usually say out loud.", latelyThinking)
	case day == 2:
		var b strings.Builder
		if originStory != "" {
			fmt.Fprintf(&b, "I keep coming back to how we started. %s. It feels different now, looking back. Something ordinary became something else entirely.", originStory)
		} else {
			b.WriteString("I've been thinking about how things started between us. The small moments that didn't seem important at the time.")
		}
		if earlyImpression != "" {
			fmt.Fprintf(&b, "\n\nEarly on, I noticed %s. I still notice it.", earlyImpression)
		}
		return b.String()
	case day == 3 && admiration != "":
		return fmt.Sprintf("There's something I don't say enough: %s. It's one of those things I think about but rarely put into words.", admiration)
	case day == 4 && vulnerability != "":
		return fmt.Sprintf("Being with you has made me feel more %s. That's not something I expected. But it's true.", vulnerability)
	case day == 5 && growthChange != "":
		return fmt.Sprintf("I've been thinking about how we've changed. %s. Not dramatic stuff. Just the quiet kind of growing.", growthChange)
	case day == 6 && everydayChoice != "":
		return fmt.Sprintf("You know what makes me choose you on ordinary days? %s. Not the special moments. Just the regular ones.", everydayChoice)
	case day == 7 && valentineHope != "":
		return fmt.Sprintf("Today I just want you to feel %s. Nothing more complicated than that.", valentineHope)
	default:
		return "I've been sitting with some thoughts about you and wanted to share them, even if they're not perfect."
	}
}

// buildFallbackLetter folds the provided narrative fields into one letter.
func buildFallbackLetter(formData models.StoryFormData) models.GeneratedEmail {
	recipientName := models.SafeString(formData.RecipientName, "there")

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", recipientName)
	b.WriteString("It's Valentine's Day, and I wanted to slow down and say some things I don't usually say out loud.\n\n")
	for _, day := range []int{1, 2, 3, 4, 5, 6, 7} {
		paragraph := fallbackParagraph(day, formData)
		if strings.HasPrefix(paragraph, "I've been sitting with some thoughts") {
			continue
		}
		b.WriteString(paragraph)
		b.WriteString("\n\n")
	}

	return models.GeneratedEmail{
		Day:     1,
		Theme:   "Valentine's Day",
		Subject: "A letter for today",
		Body:    b.String(),
	}
}
