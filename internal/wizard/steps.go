package wizard

import (
	"fmt"
	"regexp"
	"strings"
)

// StepKind distinguishes how a step collects its answer.
type StepKind int

const (
	// KindInput is a free-text or email answer stored under FieldKeys.
	KindInput StepKind = iota
	// KindChoice is a pick-one answer that advances immediately.
	KindChoice
	// KindGenerating runs letter generation; it has no answer.
	KindGenerating
	// KindPreview shows the result; it has no answer.
	KindPreview
)

// StepDefinition describes one screen of the flow. A screen may collect
// more than one form field; answers are given in FieldKeys order.
type StepDefinition struct {
	ID           string
	FieldKeys    []string
	Prompt       string
	HelperText   string
	Required     bool
	Skippable    bool
	Kind         StepKind
	ShowProgress bool
	AutoAdvance  bool
}

// TotalFormSteps is the number of answer-collecting steps; the generating
// and preview screens are excluded from the progress bar.
const TotalFormSteps = 12

// DefaultSteps is the flow in order. Index positions are load-bearing: the
// persisted CurrentStep refers to them.
var DefaultSteps = []StepDefinition{
	{ID: "email-signup", FieldKeys: []string{"userEmail"}, Prompt: "Where should we send your copy?", HelperText: "We only use this to send you the letters.", Required: true, Kind: KindInput, ShowProgress: true},
	{ID: "recipient", FieldKeys: []string{"recipientName", "recipientEmail"}, Prompt: "Who is this for?", HelperText: "Their name and the address the letters go to.", Required: true, Kind: KindInput, ShowProgress: true},
	{ID: "lately-thinking", FieldKeys: []string{"latelyThinking"}, Prompt: "What's been coming up most when you think about them lately?", HelperText: "Maybe it's something they said, a feeling you can't shake, or just... them.", Required: true, Kind: KindInput, ShowProgress: true},
	{ID: "origin-story", FieldKeys: []string{"originStory"}, Prompt: "How did the two of you start?", HelperText: "The real version, not the polished one.", Required: true, Kind: KindInput, ShowProgress: true},
	{ID: "early-impression", FieldKeys: []string{"earlyImpression"}, Prompt: "What did you notice about them early on?", HelperText: "Something small counts.", Required: false, Skippable: true, Kind: KindInput, ShowProgress: true},
	{ID: "admiration", FieldKeys: []string{"admiration"}, Prompt: "What do you admire about them but rarely say?", HelperText: "The thing you think about but keep to yourself.", Required: true, Kind: KindInput, ShowProgress: true},
	{ID: "vulnerability", FieldKeys: []string{"vulnerabilityFeeling"}, Prompt: "How has being with them changed how you feel?", HelperText: "Honest beats impressive here.", Required: true, Kind: KindInput, ShowProgress: true},
	{ID: "growth", FieldKeys: []string{"growthChange"}, Prompt: "How have the two of you changed together?", HelperText: "Not dramatic stuff. The quiet kind of growing.", Required: true, Kind: KindInput, ShowProgress: true},
	{ID: "everyday-choice", FieldKeys: []string{"everydayChoice"}, Prompt: "What makes you choose them on ordinary days?", HelperText: "Not the special moments. The regular ones.", Required: true, Kind: KindInput, ShowProgress: true},
	{ID: "valentine-hope", FieldKeys: []string{"valentineHope"}, Prompt: "What do you hope they feel on Valentine's Day?", HelperText: "One feeling is enough.", Required: true, Kind: KindInput, ShowProgress: true},
	{ID: "guardrails", FieldKeys: []string{"guardrails"}, Prompt: "Anything the letters should never mention?", HelperText: "Topics, people, inside jokes gone wrong.", Required: false, Skippable: true, Kind: KindInput, ShowProgress: true},
	{ID: "tone", FieldKeys: []string{"tone"}, Prompt: "How should the letters sound?", Required: true, Kind: KindChoice, ShowProgress: true, AutoAdvance: true},
	{ID: "generating", Kind: KindGenerating},
	{ID: "preview", Kind: KindPreview},
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isEmailField(key string) bool {
	return key == "userEmail" || key == "recipientEmail"
}

// ValidateAnswer checks raw answers, one per field in FieldKeys order,
// against the step's rules. Empty answers on a skippable step are valid.
func ValidateAnswer(step StepDefinition, values ...string) error {
	if len(values) != len(step.FieldKeys) {
		return fmt.Errorf("step %q expects %d answers, got %d", step.ID, len(step.FieldKeys), len(values))
	}
	for i, key := range step.FieldKeys {
		trimmed := strings.TrimSpace(values[i])
		if trimmed == "" {
			if step.Required {
				return fmt.Errorf("answer for %q is required", step.ID)
			}
			continue
		}
		if isEmailField(key) && !emailPattern.MatchString(trimmed) {
			return fmt.Errorf("invalid email address for %q", step.ID)
		}
	}
	return nil
}

// StepAt returns the definition for an index, clamping out-of-range values
// to the first step the way the flow screen does.
func StepAt(index int) StepDefinition {
	if index < 0 || index >= len(DefaultSteps) {
		return DefaultSteps[0]
	}
	return DefaultSteps[index]
}

// GeneratingStepIndex and PreviewStepIndex locate the two terminal screens.
var (
	GeneratingStepIndex = len(DefaultSteps) - 2
	PreviewStepIndex    = len(DefaultSteps) - 1
)
