package service

import (
	"fmt"
	"strings"

	"valentine-server/internal/models"
)

// toneNotes expands the selected tone into concrete writing direction.
var toneNotes = map[models.Tone]string{
	models.ToneSimple:  "Super straightforward. Say what you mean, nothing extra.",
	models.ToneWarm:    "Affectionate but not cheesy. Like how you'd actually talk to someone you love.",
	models.TonePlayful: "Light, fun, maybe teasing. Keep it genuine though.",
	models.ToneDeep:    "Reflective, but sounds like thinking out loud, not writing poetry.",
}

// BuildSystemPrompt composes the writing-style instructions for the model.
// The rules exist to keep output personal: anything that could be sent to a
// different recipient unchanged is treated as a failure by the prompt itself.
func BuildSystemPrompt(formData models.StoryFormData, shape models.ProductShape) string {
	var b strings.Builder

	if shape == models.ShapeSingle {
		b.WriteString("You are writing a single Valentine's Day letter. Write it as a private letter, not a greeting card. It should feel like an inner thought finally put into words.\n\n")
	} else {
		b.WriteString("You are writing a 7-day Valentine's Week email sequence. Write emails as if they are private letters, not greeting cards. Each email should feel like an inner thought finally put into words.\n\n")
	}

	b.WriteString(`CORE PHILOSOPHY:
- Write as if the reader is the only person in the world reading this
- Each email is an inner thought finally put into words
- The tone should feel intimate, reflective, and emotionally honest
- Write with depth. Write with patience.

WRITING STYLE:
- Use specific emotional observations, not generic phrases
- Reference time, pauses, everyday moments
- Allow silence and restraint in your writing
- Let sentences breathe
- Prefer short paragraphs (2-3 sentences max)
- Use contractions naturally (don't, can't, I'm, you're)
- Incomplete sentences are okay. Like this.

ABSOLUTELY FORBIDDEN - NEVER USE THESE:
- Em dashes or double hyphens (--). NEVER. Use commas, periods, or separate sentences instead.
- Generic phrases: "you mean a lot to me", "special feeling", "thinking of us", "special bond", "means so much"
- AI-sounding phrases: "I find myself", "in this moment", "journey", "truly", "deeply", "grateful for", "cherish"
- Hallmark card phrases or cliches of any kind
- Metaphors unless they feel grounded and specific
- Dramatic sign-offs
- Any flowery or greeting-card language

EACH EMAIL MUST INCLUDE:
- One inner realization (a quiet discovery about self or the relationship)
- One emotional contrast (quiet vs loud, then vs now, said vs unsaid, visible vs hidden)
- One forward-looking line that gently leads to the next day

LENGTH: 250-300 words. Long enough to feel substantial, but not verbose. Count your words.

CRITICAL TEST: If an email could be sent to anyone without changing a sentence, it fails. Rewrite it with specifics from the provided context.
`)

	tone := formData.Tone
	if !tone.Valid() {
		tone = models.ToneWarm
	}
	fmt.Fprintf(&b, "\nTONE: %s\n%s\n", tone, toneNotes[tone])

	if len(formData.EmotionalIntent) > 0 {
		intents := make([]string, 0, len(formData.EmotionalIntent))
		for _, intent := range formData.EmotionalIntent {
			intents = append(intents, string(intent))
		}
		fmt.Fprintf(&b, "\nTHE READER SHOULD COME AWAY FEELING: %s\n", strings.Join(intents, ", "))
	}

	if guardrails := models.SafeString(formData.Guardrails, ""); guardrails != "" {
		fmt.Fprintf(&b, "\nNEVER MENTION: %s\n", guardrails)
	}

	return b.String()
}

// BuildUserPrompt composes the per-day context and the strict output format.
func BuildUserPrompt(formData models.StoryFormData, shape models.ProductShape) string {
	recipientName := models.SafeString(formData.RecipientName, "my partner")

	var b strings.Builder
	if shape == models.ShapeSingle {
		fmt.Fprintf(&b, "Create 1 letter for %s.\n\n", recipientName)
	} else {
		fmt.Fprintf(&b, "Create 7 emails for %s.\n\n", recipientName)
	}

	b.WriteString("PERSONAL CONTEXT FOR EACH DAY:\n\n")
	fmt.Fprintf(&b, "Day 1 - Acknowledgement (what's been on their mind lately):\n%q\n\n",
		models.SafeString(formData.LatelyThinking, "Not provided - use a gentle opening about noticing small things"))
	fmt.Fprintf(&b, "Day 2 - Origin (how they met + early impressions):\nHow they met: %q\nWhat was noticed early: %q\n\n",
		models.SafeString(formData.OriginStory, "Not provided - be vague about the meeting"),
		models.SafeString(formData.EarlyImpression, "Not provided - focus on the origin story"))
	fmt.Fprintf(&b, "Day 3 - Appreciation (what they admire but rarely say):\n%q\n\n",
		models.SafeString(formData.Admiration, "Not provided - focus on quiet observation"))
	fmt.Fprintf(&b, "Day 4 - Vulnerability (how being with them has changed the sender):\n%q\n\n",
		models.SafeString(formData.VulnerabilityFeeling, "Not provided - focus on inner emotional change"))
	fmt.Fprintf(&b, "Day 5 - Growth (how the relationship has changed over time):\n%q\n\n",
		models.SafeString(formData.GrowthChange, "Not provided - focus on steadiness and evolution"))
	fmt.Fprintf(&b, "Day 6 - Choice (what makes them choose this person on ordinary days):\n%q\n\n",
		models.SafeString(formData.EverydayChoice, "Not provided - focus on everyday presence"))
	fmt.Fprintf(&b, "Day 7 - Valentine's Day (what the sender hopes they feel today):\n%q\n\n",
		models.SafeString(formData.ValentineHope, "Not provided - keep it simple and grounded"))

	if shape == models.ShapeSingle {
		b.WriteString(`Weave all of the context above into ONE letter that moves through acknowledgement, origin, appreciation, vulnerability, growth, choice, and lands on what you hope they feel on Valentine's Day.

OUTPUT FORMAT - Return a JSON array with exactly 1 object:
[
  {
    "day": 1,
    "theme": "Valentine's Day",
    "subject": "Short, intimate subject line (not generic)",
    "body": "Letter body here. Use \n\n for paragraph breaks. 350-450 words. ABSOLUTELY NO em dashes or double hyphens (--)."
  }
]
`)
	} else {
		b.WriteString(`THE 7-DAY EMOTIONAL ARC:

Day 1 - Acknowledgement: A quiet realization about the present. Use the "lately thinking" context. Set the intention for the week. Include a line that leads to Day 2.

Day 2 - Origin: Ground in memory. Use the origin story and early impression. Contrast: then vs now. Include a line that leads to Day 3.

Day 3 - Appreciation: Being truly seen. Use the admiration context. One specific trait or habit, why it matters quietly. Include a line that leads to Day 4.

Day 4 - Vulnerability: Emotional honesty without pressure. Use the vulnerability context. Contrast: what's visible vs what's hidden. Include a line that leads to Day 5.

Day 5 - Growth: Quiet evolution. Use the growth context. Contrast: who you were vs who you're becoming. Include a line that leads to Day 6.

Day 6 - Choice: Intentionality in ordinary moments. Use the everyday choice context. Contrast: loud declarations vs quiet presence. Include a line that leads to Day 7.

Day 7 - Valentine's Day: Emotional landing. Use the valentine hope context. Simplicity, presence. Let it land softly. No forward line needed, this is the ending.

OUTPUT FORMAT - Return a JSON array with exactly 7 objects:
[
  {
    "day": 1,
    "theme": "Acknowledgement",
    "subject": "Short, intimate subject line (not generic)",
    "body": "Email body here. Use \n\n for paragraph breaks. 250-300 words. ABSOLUTELY NO em dashes or double hyphens (--)."
  },
  ...
]

FINAL CHECKLIST BEFORE RESPONDING:
1. Did you count words? Each email MUST be 250-300 words.
2. Did you remove ALL em dashes and double hyphens (--)? Replace with commas or periods.
3. Does each email have an inner realization, emotional contrast, and forward-looking line?
4. Did you avoid ALL generic phrases like "means so much", "special bond", "grateful for"?
5. Does each email feel like it could ONLY be written for this specific person?

If any check fails, rewrite before responding.
`)
	}

	return b.String()
}
