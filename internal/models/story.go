package models

import "strings"

// RelationshipType classifies the relationship stage picked on the context step.
type RelationshipType string

const (
	RelationshipNew          RelationshipType = "new"
	RelationshipSteady       RelationshipType = "relationship"
	RelationshipLongTerm     RelationshipType = "long-term"
	RelationshipLongDistance RelationshipType = "long-distance"
	RelationshipComplicated  RelationshipType = "complicated"
)

// Valid reports whether the value is one of the known relationship types.
func (r RelationshipType) Valid() bool {
	switch r {
	case RelationshipNew, RelationshipSteady, RelationshipLongTerm,
		RelationshipLongDistance, RelationshipComplicated:
		return true
	}
	return false
}

// ExpressionComfort captures how easily the sender expresses feelings.
type ExpressionComfort string

const (
	ExpressionGood     ExpressionComfort = "good"
	ExpressionTry      ExpressionComfort = "try"
	ExpressionStruggle ExpressionComfort = "struggle"
)

func (e ExpressionComfort) Valid() bool {
	switch e {
	case ExpressionGood, ExpressionTry, ExpressionStruggle:
		return true
	}
	return false
}

// Tone selects the writing voice for the generated letters.
type Tone string

const (
	ToneSimple  Tone = "simple"
	ToneWarm    Tone = "warm"
	TonePlayful Tone = "playful"
	ToneDeep    Tone = "deep"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneSimple, ToneWarm, TonePlayful, ToneDeep:
		return true
	}
	return false
}

// EmotionalIntent is what the sender wants the recipient to feel.
// At most two can be selected at once.
type EmotionalIntent string

const (
	IntentLoved       EmotionalIntent = "loved"
	IntentReassured   EmotionalIntent = "reassured"
	IntentAppreciated EmotionalIntent = "appreciated"
	IntentMissed      EmotionalIntent = "missed"
	IntentCloser      EmotionalIntent = "closer"
)

func (i EmotionalIntent) Valid() bool {
	switch i {
	case IntentLoved, IntentReassured, IntentAppreciated, IntentMissed, IntentCloser:
		return true
	}
	return false
}

// MaxEmotionalIntents is the selection cap; picking a third evicts the oldest.
const MaxEmotionalIntents = 2

// StoryFormData accumulates everything the user enters across the wizard.
// Fields stay empty until the step that sets them runs. Each narrative field
// feeds one day theme of the generated sequence.
type StoryFormData struct {
	UserEmail      string `json:"userEmail,omitempty"`
	RecipientName  string `json:"recipientName,omitempty"`
	RecipientEmail string `json:"recipientEmail,omitempty"`

	RelationshipType  RelationshipType  `json:"relationshipType,omitempty"`
	ExpressionComfort ExpressionComfort `json:"expressionComfort,omitempty"`

	LatelyThinking       string `json:"latelyThinking,omitempty"`       // Day 1 - Acknowledgement
	OriginStory          string `json:"originStory,omitempty"`          // Day 2 - Origin
	EarlyImpression      string `json:"earlyImpression,omitempty"`      // Day 2 - noticed early on
	Admiration           string `json:"admiration,omitempty"`           // Day 3 - Appreciation
	VulnerabilityFeeling string `json:"vulnerabilityFeeling,omitempty"` // Day 4 - Vulnerability
	GrowthChange         string `json:"growthChange,omitempty"`         // Day 5 - Growth
	EverydayChoice       string `json:"everydayChoice,omitempty"`       // Day 6 - Choice
	ValentineHope        string `json:"valentineHope,omitempty"`        // Day 7 - Valentine's Day

	EmotionalIntent []EmotionalIntent `json:"emotionalIntent,omitempty"`
	Guardrails      string            `json:"guardrails,omitempty"`
	Tone            Tone              `json:"tone,omitempty"`
}

// GeneratedEmail is one output unit of the generation contract.
// Body uses literal "\n\n" paragraph breaks.
type GeneratedEmail struct {
	Day      int    `json:"day"`
	Theme    string `json:"theme"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ProductShape declares how many output units the generation contract returns.
type ProductShape string

const (
	// ShapeSequence is the 7-day Valentine's week email series.
	ShapeSequence ProductShape = "sequence"
	// ShapeSingle is the consolidated single-letter variant.
	ShapeSingle ProductShape = "single"
)

// Count returns the exact array length the shape requires.
func (s ProductShape) Count() int {
	if s == ShapeSingle {
		return 1
	}
	return 7
}

// DayTheme pairs a day ordinal with its theme label.
type DayTheme struct {
	Day   int
	Theme string
}

// SequenceThemes is the fixed emotional arc of the 7-day sequence.
var SequenceThemes = []DayTheme{
	{Day: 1, Theme: "Acknowledgement"},
	{Day: 2, Theme: "Origin"},
	{Day: 3, Theme: "Appreciation"},
	{Day: 4, Theme: "Vulnerability"},
	{Day: 5, Theme: "Growth"},
	{Day: 6, Theme: "Choice"},
	{Day: 7, Theme: "Valentine's Day"},
}

// SafeString trims v and caps it at 2000 characters, returning fallback when empty.
// Mirrors the sanitization applied before any field reaches a prompt or template.
func SafeString(v, fallback string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return fallback
	}
	if len(trimmed) > 2000 {
		trimmed = trimmed[:2000]
	}
	return trimmed
}
