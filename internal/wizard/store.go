package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"valentine-server/internal/models"
)

// Store owns the session state and writes every mutation through the
// persistence adapter. All methods are safe for concurrent use.
type Store struct {
	mu             sync.Mutex
	state          State
	adapter        PersistenceAdapter
	key            string
	unlockRequired bool
	logger         *zap.Logger
}

// NewStore creates a session store over the adapter under the default key.
func NewStore(adapter PersistenceAdapter, logger *zap.Logger) *Store {
	return NewStoreWithKey(adapter, SnapshotKey, logger)
}

// NewStoreWithKey creates a store persisting under a caller-chosen key.
func NewStoreWithKey(adapter PersistenceAdapter, key string, logger *zap.Logger) *Store {
	return &Store{
		state:          NewState(),
		adapter:        adapter,
		key:            key,
		unlockRequired: true,
		logger:         logger.Named("WizardStore"),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState()
}

func (s *Store) copyState() State {
	out := s.state
	out.Emails = make([]models.GeneratedEmail, len(s.state.Emails))
	copy(out.Emails, s.state.Emails)
	out.FormData.EmotionalIntent = append([]models.EmotionalIntent(nil), s.state.FormData.EmotionalIntent...)
	return out
}

// save persists the snapshot. A storage failure never fails the mutation;
// the in-memory state is already updated and the next save retries.
func (s *Store) save(ctx context.Context) {
	blob, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("Failed to marshal snapshot", zap.Error(err))
		return
	}
	if err := s.adapter.Save(ctx, s.key, blob); err != nil {
		s.logger.Warn("Failed to persist snapshot", zap.Error(err))
	}
}

// Load restores a persisted session. A missing snapshot leaves the initial
// state in place. The restored step is clamped into range and the
// generating flag is always cleared.
func (s *Store) Load(ctx context.Context) error {
	blob, err := s.adapter.Load(ctx, s.key)
	if err != nil {
		if err == ErrSnapshotNotFound {
			return nil
		}
		return err
	}

	var restored State
	if err := json.Unmarshal(blob, &restored); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if restored.CurrentStep < 0 || restored.CurrentStep >= len(DefaultSteps) {
		restored.CurrentStep = 0
	}
	if restored.Emails == nil {
		restored.Emails = []models.GeneratedEmail{}
	}
	restored.IsGenerating = false
	s.state = restored
	return nil
}

// SetStep jumps to an absolute step.
func (s *Store) SetStep(ctx context.Context, step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentStep = step
	s.save(ctx)
}

// NextStep advances one step.
func (s *Store) NextStep(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentStep++
	s.save(ctx)
}

// PrevStep goes back one step, never below zero.
func (s *Store) PrevStep(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentStep > 0 {
		s.state.CurrentStep--
	}
	s.save(ctx)
}

// AnswerStep validates and stores the answers for the step at index, one
// per declared field, then advances. Nothing is stored on a failed
// validation.
func (s *Store) AnswerStep(ctx context.Context, index int, values ...string) error {
	step := StepAt(index)
	if step.Kind != KindInput && step.Kind != KindChoice {
		return fmt.Errorf("step %q does not take an answer", step.ID)
	}
	if err := ValidateAnswer(step, values...); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, key := range step.FieldKeys {
		if err := setFormField(&s.state.FormData, key, strings.TrimSpace(values[i])); err != nil {
			return err
		}
	}
	s.state.CurrentStep++
	s.save(ctx)
	return nil
}

// SkipStep records empty answers for a skippable step and advances.
func (s *Store) SkipStep(ctx context.Context, index int) error {
	step := StepAt(index)
	if !step.Skippable {
		return fmt.Errorf("step %q cannot be skipped", step.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range step.FieldKeys {
		if err := setFormField(&s.state.FormData, key, ""); err != nil {
			return err
		}
	}
	s.state.CurrentStep++
	s.save(ctx)
	return nil
}

// setFormField routes a step answer into its form field.
func setFormField(fd *models.StoryFormData, key, value string) error {
	switch key {
	case "userEmail":
		fd.UserEmail = value
	case "recipientName":
		fd.RecipientName = value
	case "recipientEmail":
		fd.RecipientEmail = value
	case "latelyThinking":
		fd.LatelyThinking = value
	case "originStory":
		fd.OriginStory = value
	case "earlyImpression":
		fd.EarlyImpression = value
	case "admiration":
		fd.Admiration = value
	case "vulnerabilityFeeling":
		fd.VulnerabilityFeeling = value
	case "growthChange":
		fd.GrowthChange = value
	case "everydayChoice":
		fd.EverydayChoice = value
	case "valentineHope":
		fd.ValentineHope = value
	case "guardrails":
		fd.Guardrails = value
	case "tone":
		tone := models.Tone(value)
		if value != "" && !tone.Valid() {
			return fmt.Errorf("unknown tone %q", value)
		}
		fd.Tone = tone
	default:
		return fmt.Errorf("unknown form field %q", key)
	}
	return nil
}

// UpdateFormData merges non-nil patch fields into the form data, the same
// shallow merge the flow screens perform.
func (s *Store) UpdateFormData(ctx context.Context, patch FormPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	patch.apply(&s.state.FormData)
	s.save(ctx)
}

// ToggleEmotionalIntent adds or removes an intent. Selecting beyond the cap
// evicts the oldest selection instead of rejecting the new one.
func (s *Store) ToggleEmotionalIntent(ctx context.Context, intent models.EmotionalIntent) error {
	if !intent.Valid() {
		return fmt.Errorf("unknown emotional intent %q", intent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.state.FormData.EmotionalIntent
	for i, existing := range current {
		if existing == intent {
			s.state.FormData.EmotionalIntent = append(current[:i], current[i+1:]...)
			s.save(ctx)
			return nil
		}
	}
	current = append(current, intent)
	if len(current) > models.MaxEmotionalIntents {
		current = current[len(current)-models.MaxEmotionalIntents:]
	}
	s.state.FormData.EmotionalIntent = current
	s.save(ctx)
	return nil
}

// SetEmails replaces the generated letters.
func (s *Store) SetEmails(ctx context.Context, emails []models.GeneratedEmail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Emails = make([]models.GeneratedEmail, len(emails))
	copy(s.state.Emails, emails)
	s.save(ctx)
}

// UpdateEmail replaces the letter at index with an edited copy.
func (s *Store) UpdateEmail(ctx context.Context, index int, email models.GeneratedEmail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.Emails) {
		return fmt.Errorf("no letter at index %d", index)
	}
	s.state.Emails[index] = email
	s.save(ctx)
	return nil
}

// SetUnlockRequired toggles the payment gate on letters after the first.
// The single-letter product runs with the gate off, so its one letter is
// fully viewable as soon as it is generated.
func (s *Store) SetUnlockRequired(required bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlockRequired = required
}

// CanViewEmail reports whether the letter at index is visible. The first
// letter is always free; the rest require the unlock when the gate is on.
func (s *Store) CanViewEmail(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.Emails) {
		return false
	}
	return index == 0 || s.state.IsUnlocked || !s.unlockRequired
}

// SetStoryID records the backend story id for progress tracking.
func (s *Store) SetStoryID(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.StoryID = id
	s.save(ctx)
}

// SetGenerating flips the transient generating flag. It is not persisted.
func (s *Store) SetGenerating(generating bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsGenerating = generating
}

// SetUnlocked marks all letters viewable.
func (s *Store) SetUnlocked(ctx context.Context, unlocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsUnlocked = unlocked
	s.save(ctx)
}

// SetPaid records a verified payment.
func (s *Store) SetPaid(ctx context.Context, paid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsPaid = paid
	s.save(ctx)
}

// Reset returns the session to its initial state and persists the blank
// snapshot over the old one.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NewState()
	s.save(ctx)
}

// FormPatch is a partial form update; nil fields are left untouched.
// A non-nil EmotionalIntent replaces the whole selection.
type FormPatch struct {
	UserEmail      *string
	RecipientName  *string
	RecipientEmail *string

	RelationshipType  *models.RelationshipType
	ExpressionComfort *models.ExpressionComfort

	LatelyThinking       *string
	OriginStory          *string
	EarlyImpression      *string
	Admiration           *string
	VulnerabilityFeeling *string
	GrowthChange         *string
	EverydayChoice       *string
	ValentineHope        *string

	EmotionalIntent []models.EmotionalIntent
	Guardrails      *string
	Tone            *models.Tone
}

func (p FormPatch) apply(fd *models.StoryFormData) {
	if p.UserEmail != nil {
		fd.UserEmail = *p.UserEmail
	}
	if p.RecipientName != nil {
		fd.RecipientName = *p.RecipientName
	}
	if p.RecipientEmail != nil {
		fd.RecipientEmail = *p.RecipientEmail
	}
	if p.RelationshipType != nil {
		fd.RelationshipType = *p.RelationshipType
	}
	if p.ExpressionComfort != nil {
		fd.ExpressionComfort = *p.ExpressionComfort
	}
	if p.LatelyThinking != nil {
		fd.LatelyThinking = *p.LatelyThinking
	}
	if p.OriginStory != nil {
		fd.OriginStory = *p.OriginStory
	}
	if p.EarlyImpression != nil {
		fd.EarlyImpression = *p.EarlyImpression
	}
	if p.Admiration != nil {
		fd.Admiration = *p.Admiration
	}
	if p.VulnerabilityFeeling != nil {
		fd.VulnerabilityFeeling = *p.VulnerabilityFeeling
	}
	if p.GrowthChange != nil {
		fd.GrowthChange = *p.GrowthChange
	}
	if p.EverydayChoice != nil {
		fd.EverydayChoice = *p.EverydayChoice
	}
	if p.ValentineHope != nil {
		fd.ValentineHope = *p.ValentineHope
	}
	if p.EmotionalIntent != nil {
		fd.EmotionalIntent = append([]models.EmotionalIntent(nil), p.EmotionalIntent...)
	}
	if p.Guardrails != nil {
		fd.Guardrails = *p.Guardrails
	}
	if p.Tone != nil {
		fd.Tone = *p.Tone
	}
}
