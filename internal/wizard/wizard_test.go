package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resume-forge/internal/clock"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/persistence"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 2 * time.Millisecond
)

type fakeAdapter struct {
	AnalyzeFunc func(ctx context.Context, doc *types.ResumeDocument) (*types.AnalysisResult, error)

	mu    sync.Mutex
	calls int
}

func (f *fakeAdapter) AnalyzeDocument(ctx context.Context, doc *types.ResumeDocument) (*types.AnalysisResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.AnalyzeFunc(ctx, doc)
}

func (f *fakeAdapter) RefineFragment(context.Context, string, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeAdapter) SuggestSkills(context.Context, *types.ResumeDocument) (*types.SkillSuggestions, error) {
	return nil, errors.New("not used")
}

func (f *fakeAdapter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newController(t *testing.T, ai *fakeAdapter) (*Controller, *document.Store, *clock.Fake) {
	t.Helper()
	store := document.NewStore(nil, persistence.NewMemoryStore(), &document.SequentialGenerator{Prefix: "id-"})
	expID, err := store.AddExperience(context.Background())
	require.NoError(t, err)
	_, err = store.UpdateExperience(context.Background(), expID, func(e *types.Experience) {
		e.Company, e.Role = "Acme", "Engineer"
	})
	require.NoError(t, err)

	clk := clock.NewFake(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	return NewController(store, ai, Options{Clock: clk}), store, clk
}

func runAsync(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	return done
}

func docJSON(t *testing.T, store *document.Store) string {
	t.Helper()
	data, err := json.Marshal(store.Snapshot())
	require.NoError(t, err)
	return string(data)
}

func TestNavigation(t *testing.T) {
	c, store, _ := newController(t, &fakeAdapter{})
	ctx := context.Background()

	require.NoError(t, c.Retreat())
	assert.Equal(t, StepPurpose, c.State().CurrentStep, "retreat clamps at zero")

	require.NoError(t, c.Start(ctx, types.PurposeInternship, true))
	assert.Equal(t, StepPersonal, c.State().CurrentStep)
	assert.Equal(t, types.PurposeInternship, store.Snapshot().Purpose)
	assert.True(t, store.Snapshot().IsManualMode)

	require.NoError(t, c.Advance())
	require.NoError(t, c.Advance())
	assert.Equal(t, StepSummary, c.State().CurrentStep)
	assert.Equal(t, "summary", c.State().StepName)

	require.NoError(t, c.JumpTo(StepSkills))
	assert.Equal(t, StepSkills, c.State().CurrentStep, "jumps ignore completion")

	require.NoError(t, c.JumpToIndicator(0))
	assert.Equal(t, StepPersonal, c.State().CurrentStep)

	require.NoError(t, c.JumpTo(StepPreview))
	require.NoError(t, c.Advance())
	assert.Equal(t, StepPreview, c.State().CurrentStep)

	var verr *document.ValidationError
	assert.True(t, errors.As(c.JumpTo(Step(12)), &verr))
	assert.True(t, errors.As(c.Start(ctx, "unknown", false), &verr))
}

func TestRunAITransition_WaitsForMinimumDuration(t *testing.T) {
	ai := &fakeAdapter{
		AnalyzeFunc: func(context.Context, *types.ResumeDocument) (*types.AnalysisResult, error) {
			return &types.AnalysisResult{
				Summary:            "Optimized summary",
				ImprovedExperience: []types.DescriptionRewrite{{ID: "id-3", Description: []string{"Shipped 5 services"}}},
				Score:              types.Score{ATS: 88, Readability: 80, Depth: 70},
			}, nil
		},
	}
	c, store, clk := newController(t, ai)

	done := runAsync(func() error { return c.RunAITransition(context.Background()) })
	clk.BlockUntil(1)

	require.Eventually(t, func() bool { return ai.Calls() == 1 }, waitFor, tick)
	assert.True(t, c.State().IsProcessing)

	clk.Advance(3499 * time.Millisecond)
	assert.Never(t, func() bool { return len(done) > 0 }, 20*time.Millisecond, tick)
	assert.True(t, c.State().IsProcessing)
	assert.Empty(t, store.Snapshot().Summary, "result is not applied before the timer")

	clk.Advance(time.Millisecond)
	require.NoError(t, <-done)

	state := c.State()
	assert.False(t, state.IsProcessing)
	assert.Equal(t, StepPreview, state.CurrentStep)

	doc := store.Snapshot()
	assert.Equal(t, "Optimized summary", doc.Summary)
	assert.Equal(t, 88, doc.Score.ATS)
	assert.Len(t, doc.Skills, 2, "empty skills in the result keep the current categories")
}

func TestRunAITransition_SlowAIAfterTimer(t *testing.T) {
	release := make(chan struct{})
	ai := &fakeAdapter{
		AnalyzeFunc: func(context.Context, *types.ResumeDocument) (*types.AnalysisResult, error) {
			<-release
			return &types.AnalysisResult{Summary: "late"}, nil
		},
	}
	c, store, clk := newController(t, ai)

	done := runAsync(func() error { return c.RunAITransition(context.Background()) })
	clk.BlockUntil(1)
	clk.Advance(10 * time.Second)

	assert.Never(t, func() bool { return len(done) > 0 }, 20*time.Millisecond, tick)
	assert.True(t, c.State().IsProcessing)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StepPreview, c.State().CurrentStep)
	assert.Equal(t, "late", store.Snapshot().Summary)
}

func TestRunAITransition_FailureSkipsToPreview(t *testing.T) {
	ai := &fakeAdapter{
		AnalyzeFunc: func(context.Context, *types.ResumeDocument) (*types.AnalysisResult, error) {
			return nil, &llm.Error{Kind: llm.KindRateLimited, Message: llm.MessageRateLimited}
		},
	}
	c, store, clk := newController(t, ai)
	require.NoError(t, c.JumpTo(StepSkills))
	before := docJSON(t, store)

	done := runAsync(func() error { return c.RunAITransition(context.Background()) })

	// the minimum timer is abandoned as soon as the analysis fails
	require.Eventually(t, func() bool {
		state := c.State()
		return ai.Calls() == 1 && !state.IsProcessing && len(state.Notifications) == 1
	}, waitFor, tick)
	state := c.State()
	assert.Equal(t, StepSkills, state.CurrentStep)
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, "AI optimization skipped: Rate limit reached! Please wait 60 seconds.", state.Notifications[0].Message)
	assert.Equal(t, LevelInfo, state.Notifications[0].Level)

	clk.BlockUntil(2)
	clk.Advance(1500 * time.Millisecond)
	require.NoError(t, <-done)

	assert.Equal(t, StepPreview, c.State().CurrentStep)
	assert.Equal(t, before, docJSON(t, store))
}

func TestRunAITransition_IgnoredWhileProcessing(t *testing.T) {
	release := make(chan struct{})
	ai := &fakeAdapter{
		AnalyzeFunc: func(context.Context, *types.ResumeDocument) (*types.AnalysisResult, error) {
			<-release
			return &types.AnalysisResult{}, nil
		},
	}
	c, _, clk := newController(t, ai)

	done := runAsync(func() error { return c.RunAITransition(context.Background()) })
	clk.BlockUntil(1)

	require.NoError(t, c.RunAITransition(context.Background()))
	require.NoError(t, c.SkipAI(context.Background()))
	assert.ErrorIs(t, c.Advance(), ErrProcessing)

	close(release)
	clk.Advance(3500 * time.Millisecond)
	require.NoError(t, <-done)
	assert.Equal(t, 1, ai.Calls())
}

func TestSkipAI(t *testing.T) {
	ai := &fakeAdapter{}
	c, store, clk := newController(t, ai)
	before := docJSON(t, store)

	done := runAsync(func() error { return c.SkipAI(context.Background()) })
	clk.BlockUntil(1)
	assert.True(t, c.State().IsProcessing)

	clk.Advance(2499 * time.Millisecond)
	assert.True(t, c.State().IsProcessing)
	clk.Advance(time.Millisecond)
	require.NoError(t, <-done)

	state := c.State()
	assert.False(t, state.IsProcessing)
	assert.Equal(t, StepPreview, state.CurrentStep)
	assert.Equal(t, 0, ai.Calls())
	assert.Equal(t, before, docJSON(t, store))
}

func TestRunAITransition_ManualModeSkipsAI(t *testing.T) {
	ai := &fakeAdapter{AnalyzeFunc: func(context.Context, *types.ResumeDocument) (*types.AnalysisResult, error) {
		return &types.AnalysisResult{Summary: "AI rewrote this", Score: types.Score{ATS: 91}}, nil
	}}
	c, store, clk := newController(t, ai)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx, types.PurposeFirstJob, true))
	before := docJSON(t, store)

	done := runAsync(func() error { return c.RunAITransition(ctx) })
	clk.BlockUntil(1)
	assert.True(t, c.State().IsProcessing)
	clk.Advance(2500 * time.Millisecond)
	require.NoError(t, <-done)

	assert.Equal(t, 0, ai.Calls())
	assert.Equal(t, StepPreview, c.State().CurrentStep)
	assert.Equal(t, before, docJSON(t, store))
}

func TestSkipAI_ContextCancelled(t *testing.T) {
	c, _, _ := newController(t, &fakeAdapter{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.SkipAI(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.State().IsProcessing)
	assert.Equal(t, StepPurpose, c.State().CurrentStep)
}

func TestSubscribe(t *testing.T) {
	c, _, _ := newController(t, &fakeAdapter{})

	var mu sync.Mutex
	var seen []Step
	unsubscribe := c.Subscribe(func(s State) {
		mu.Lock()
		seen = append(seen, s.CurrentStep)
		mu.Unlock()
	})

	require.NoError(t, c.Advance())
	require.NoError(t, c.Advance())
	unsubscribe()
	require.NoError(t, c.Advance())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Step{StepPersonal, StepContext}, seen)
}

func TestDispatch(t *testing.T) {
	c, store, clk := newController(t, &fakeAdapter{})
	ctx := context.Background()

	require.NoError(t, c.Dispatch(ctx, Event{Type: EventStart, Purpose: types.PurposeExperienced}))
	require.NoError(t, c.Dispatch(ctx, Event{Type: EventNext}))
	require.NoError(t, c.Dispatch(ctx, Event{Type: EventBack}))
	assert.Equal(t, StepPersonal, c.State().CurrentStep)
	assert.Equal(t, types.PurposeExperienced, store.Snapshot().Purpose)

	require.NoError(t, c.Dispatch(ctx, Event{Type: EventJump, Step: StepProjects}))
	assert.Equal(t, StepProjects, c.State().CurrentStep)

	c.Notify(LevelSuccess, "hello", 0)
	id := c.State().Notifications[0].ID
	require.NoError(t, c.Dispatch(ctx, Event{Type: EventDismiss, NotificationID: id}))
	assert.Empty(t, c.State().Notifications)

	done := runAsync(func() error { return c.Dispatch(ctx, Event{Type: EventSkipAI}) })
	clk.BlockUntil(1)
	clk.Advance(2500 * time.Millisecond)
	require.NoError(t, <-done)
	assert.Equal(t, StepPreview, c.State().CurrentStep)

	var verr *document.ValidationError
	assert.True(t, errors.As(c.Dispatch(ctx, Event{Type: "fly"}), &verr))
}

func TestNotifier_Expiry(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	n := NewNotifier(clk)

	n.Push(LevelSuccess, "Welcome back, Ada!", 0)
	n.Push(LevelInfo, "Logged out successfully.", 3*time.Second)
	assert.Len(t, n.Active(), 2)

	clk.Advance(3 * time.Second)
	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Welcome back, Ada!", active[0].Message)

	clk.Advance(time.Second)
	assert.Empty(t, n.Active())
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "purpose", StepPurpose.String())
	assert.Equal(t, "preview", StepPreview.String())
	assert.Equal(t, "step(42)", Step(42).String())
}
