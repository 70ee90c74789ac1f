package wizard

import "valentine-server/internal/models"

// SnapshotKey is the storage key for a session snapshot. Embedders running
// multiple sessions suffix it with their own session identifier.
const SnapshotKey = "story-storage"

// State is everything the flow tracks for one session. IsGenerating is
// deliberately excluded from persistence: a reloaded session must never
// come back stuck on the generating screen.
type State struct {
	CurrentStep int                     `json:"currentStep"`
	FormData    models.StoryFormData    `json:"formData"`
	Emails      []models.GeneratedEmail `json:"emails"`
	StoryID     string                  `json:"storyId"`
	IsUnlocked  bool                    `json:"isUnlocked"`
	IsPaid      bool                    `json:"isPaid"`

	IsGenerating bool `json:"-"`
}

// NewState returns the initial session state.
func NewState() State {
	return State{Emails: []models.GeneratedEmail{}}
}
