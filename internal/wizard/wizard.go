// Package wizard drives the step-by-step resume flow. It is renderer-agnostic: any
// surface reads State, calls Dispatch and subscribes to changes.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-forge/internal/assistant"
	"github.com/jonathan/resume-forge/internal/clock"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/types"
)

// Step is a wizard screen index
type Step int

// Steps in display order
const (
	StepPurpose Step = iota
	StepPersonal
	StepContext
	StepSummary
	StepExperience
	StepEducation
	StepProjects
	StepSkills
	StepPreview
)

var stepNames = [...]string{"purpose", "personal", "context", "summary", "experience", "education", "projects", "skills", "preview"}

func (s Step) String() string {
	if s < StepPurpose || s > StepPreview {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s >= StepPurpose && s <= StepPreview
}

// ErrProcessing is returned for navigation attempted during the AI interstitial.
var ErrProcessing = errors.New("wizard is processing")

// Timing holds the fixed delays of the AI transition
type Timing struct {
	// MinAIDuration is the shortest time the interstitial is shown when AI runs
	MinAIDuration time.Duration
	// FailureDelay is the pause after an AI failure before showing the preview
	FailureDelay time.Duration
	// SkipDelay is the interstitial duration when AI is skipped
	SkipDelay time.Duration
}

// DefaultTiming returns the standard delays.
func DefaultTiming() Timing {
	return Timing{
		MinAIDuration: 3500 * time.Millisecond,
		FailureDelay:  1500 * time.Millisecond,
		SkipDelay:     2500 * time.Millisecond,
	}
}

// Options configure a Controller. Zero values select defaults.
type Options struct {
	Clock    clock.Clock
	Timing   *Timing
	Notifier *Notifier
}

// State is a snapshot of the wizard for renderers
type State struct {
	CurrentStep   Step           `json:"current_step"`
	StepName      string         `json:"step_name"`
	IsProcessing  bool           `json:"is_processing"`
	Notifications []Notification `json:"notifications"`
}

// StateListener receives a snapshot after every state change
type StateListener func(State)

// Controller owns the current step and the processing flag
type Controller struct {
	store  *document.Store
	ai     assistant.Adapter
	clock  clock.Clock
	timing Timing
	notes  *Notifier

	mu         sync.Mutex
	step       Step
	processing bool
	listeners  map[int]StateListener
	nextID     int
}

// NewController creates a controller at the purpose step.
func NewController(store *document.Store, ai assistant.Adapter, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	timing := DefaultTiming()
	if opts.Timing != nil {
		timing = *opts.Timing
	}
	if opts.Notifier == nil {
		opts.Notifier = NewNotifier(opts.Clock)
	}
	if ai == nil {
		ai = assistant.Unconfigured{}
	}
	return &Controller{
		store:     store,
		ai:        ai,
		clock:     opts.Clock,
		timing:    timing,
		notes:     opts.Notifier,
		listeners: make(map[int]StateListener),
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	return State{
		CurrentStep:   c.step,
		StepName:      c.step.String(),
		IsProcessing:  c.processing,
		Notifications: c.notes.Active(),
	}
}

// Notifier returns the controller's notification queue.
func (c *Controller) Notifier() *Notifier {
	return c.notes
}

// Notify pushes a notification and publishes the new state.
func (c *Controller) Notify(level Level, message string, ttl time.Duration) {
	c.notes.Push(level, message, ttl)
	c.publish()
}

// Subscribe registers l and returns a function that removes it.
func (c *Controller) Subscribe(l StateListener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Controller) publish() {
	c.mu.Lock()
	state := c.stateLocked()
	listeners := make([]StateListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}

// navigate moves to the step returned by next unless the interstitial is showing.
func (c *Controller) navigate(next func(current Step) Step) error {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return ErrProcessing
	}
	c.step = next(c.step)
	c.mu.Unlock()
	c.publish()
	return nil
}

// Start records purpose and mode on the document and moves to the personal step.
func (c *Controller) Start(ctx context.Context, purpose types.Purpose, manual bool) error {
	if _, err := c.store.Start(ctx, purpose, manual); err != nil {
		return err
	}
	return c.navigate(func(Step) Step { return StepPersonal })
}

// Advance moves one step forward, stopping at the preview.
func (c *Controller) Advance() error {
	return c.navigate(func(s Step) Step {
		if s >= StepPreview {
			return StepPreview
		}
		return s + 1
	})
}

// Retreat moves one step back, stopping at the purpose step.
func (c *Controller) Retreat() error {
	return c.navigate(func(s Step) Step {
		if s <= StepPurpose {
			return StepPurpose
		}
		return s - 1
	})
}

// JumpTo moves directly to step. Any step is reachable regardless of completion.
func (c *Controller) JumpTo(step Step) error {
	if !step.Valid() {
		return &document.ValidationError{Field: "step", Message: fmt.Sprintf("unknown step %d", int(step))}
	}
	return c.navigate(func(Step) Step { return step })
}

// JumpToIndicator moves to the wizard step shown by step indicator index i.
func (c *Controller) JumpToIndicator(i int) error {
	return c.JumpTo(Step(i + 1))
}

// beginProcessing sets the processing flag, reporting false when it was already set.
func (c *Controller) beginProcessing() bool {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return false
	}
	c.processing = true
	c.mu.Unlock()
	c.publish()
	return true
}

func (c *Controller) finish(processing bool, step *Step) {
	c.mu.Lock()
	c.processing = processing
	if step != nil {
		c.step = *step
	}
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-c.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunAITransition analyzes the document while the interstitial shows for at least the
// minimum duration, merges the result and moves to the preview. On failure the document
// is unchanged, a notification is recorded and the preview follows after a short delay.
// A call made while processing is ignored. Manual mode documents take the skip path.
func (c *Controller) RunAITransition(ctx context.Context) error {
	if c.store.Snapshot().IsManualMode {
		log.Printf("[wizard] Manual mode, skipping AI optimization")
		return c.SkipAI(ctx)
	}
	if !c.beginProcessing() {
		return nil
	}

	doc := c.store.Snapshot()
	var result *types.AnalysisResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := c.ai.AnalyzeDocument(gctx, doc)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	g.Go(func() error {
		return c.wait(gctx, c.timing.MinAIDuration)
	})

	err := g.Wait()
	if err == nil {
		_, err = c.store.ApplyAnalysis(ctx, result)
	}

	preview := StepPreview
	if err == nil {
		log.Printf("[wizard] AI optimization applied (ats=%d)", result.Score.ATS)
		c.finish(false, &preview)
		return nil
	}

	log.Printf("[wizard] AI optimization failed: %v", err)
	c.finish(false, nil)
	c.Notify(LevelInfo, "AI optimization skipped: "+userMessage(err), 0)

	if werr := c.wait(ctx, c.timing.FailureDelay); werr != nil {
		return werr
	}
	c.finish(false, &preview)
	return nil
}

// SkipAI shows the interstitial for the skip delay, then moves to the preview without
// calling the AI. A call made while processing is ignored.
func (c *Controller) SkipAI(ctx context.Context) error {
	if !c.beginProcessing() {
		return nil
	}
	if err := c.wait(ctx, c.timing.SkipDelay); err != nil {
		c.finish(false, nil)
		return err
	}
	preview := StepPreview
	c.finish(false, &preview)
	return nil
}

// userMessage prefers the classified message of an AI failure.
func userMessage(err error) string {
	var aiErr *llm.Error
	if errors.As(err, &aiErr) {
		return aiErr.Message
	}
	return err.Error()
}

// EventType names a user intent
type EventType string

// Event types accepted by Dispatch
const (
	EventStart   EventType = "start"
	EventNext    EventType = "next"
	EventBack    EventType = "back"
	EventJump    EventType = "jump"
	EventRunAI   EventType = "run_ai"
	EventSkipAI  EventType = "skip_ai"
	EventDismiss EventType = "dismiss"
)

// Event is a user intent. Only the fields of the event's type are read.
type Event struct {
	Type           EventType     `json:"type" validate:"required"`
	Purpose        types.Purpose `json:"purpose,omitempty"`
	Manual         bool          `json:"manual,omitempty"`
	Step           Step          `json:"step,omitempty"`
	NotificationID int64         `json:"notification_id,omitempty"`
}

// Dispatch applies ev. RunAI and SkipAI block until their transition completes.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventStart:
		return c.Start(ctx, ev.Purpose, ev.Manual)
	case EventNext:
		return c.Advance()
	case EventBack:
		return c.Retreat()
	case EventJump:
		return c.JumpTo(ev.Step)
	case EventRunAI:
		return c.RunAITransition(ctx)
	case EventSkipAI:
		return c.SkipAI(ctx)
	case EventDismiss:
		c.notes.Dismiss(ev.NotificationID)
		c.publish()
		return nil
	}
	return &document.ValidationError{Field: "type", Message: fmt.Sprintf("unknown event %q", ev.Type)}
}
