package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/persistence"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeoutWait = time.Second
	tick        = 5 * time.Millisecond
)

// fakeAdapter answers RefineFragment through a function field
type fakeAdapter struct {
	mu    sync.Mutex
	calls []refineCall

	RefineFunc func(ctx context.Context, text, contextHint string) (string, error)
}

type refineCall struct {
	Text    string
	Context string
}

func (f *fakeAdapter) AnalyzeDocument(context.Context, *types.ResumeDocument) (*types.AnalysisResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeAdapter) RefineFragment(ctx context.Context, text, contextHint string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, refineCall{Text: text, Context: contextHint})
	f.mu.Unlock()
	if f.RefineFunc != nil {
		return f.RefineFunc(ctx, text, contextHint)
	}
	return "refined " + text, nil
}

func (f *fakeAdapter) SuggestSkills(context.Context, *types.ResumeDocument) (*types.SkillSuggestions, error) {
	return nil, errors.New("not used")
}

func setup(t *testing.T, ai *fakeAdapter) (*Reconciler, *document.Store, string) {
	t.Helper()
	ctx := context.Background()
	store := document.NewStore(nil, persistence.NewMemoryStore(), &document.SequentialGenerator{Prefix: "id-"})

	expID, err := store.AddExperience(ctx)
	require.NoError(t, err)
	_, err = store.UpdateExperience(ctx, expID, func(e *types.Experience) {
		e.Company = "Acme"
		e.Role = "Engineer"
		e.Description = []string{"built things", "  ", "fixed bugs"}
	})
	require.NoError(t, err)

	return NewReconciler(store, ai), store, expID
}

func marshal(t *testing.T, doc *types.ResumeDocument) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

func TestRequestAndAccept_Experience(t *testing.T) {
	ai := &fakeAdapter{
		RefineFunc: func(context.Context, string, string) (string, error) {
			return "• Built 3 services\n\n- Fixed 40 bugs\n1. Cut latency 20%", nil
		},
	}
	r, store, expID := setup(t, ai)
	ctx := context.Background()

	p, err := r.Request(ctx, GroupExperience, expID)
	require.NoError(t, err)
	require.NotNil(t, p)

	require.Len(t, ai.calls, 1)
	assert.Equal(t, "built things\nfixed bugs", ai.calls[0].Text)
	assert.Equal(t, "Role: Engineer at Acme", ai.calls[0].Context)
	assert.Equal(t, []string{"Built 3 services", "Fixed 40 bugs", "Cut latency 20%"}, p.Bullets)
	assert.True(t, r.IsLocked(expID))
	assert.Empty(t, r.InFlight(GroupExperience))

	doc, err := r.Accept(ctx, GroupExperience)
	require.NoError(t, err)
	assert.Equal(t, p.Bullets, doc.Experience[0].Description)
	assert.Nil(t, r.Pending(GroupExperience))
	assert.False(t, r.IsLocked(expID))
	assert.Equal(t, p.Bullets, store.Snapshot().Experience[0].Description)
}

func TestDiscard_LeavesDocumentIdentical(t *testing.T) {
	r, store, expID := setup(t, &fakeAdapter{})
	ctx := context.Background()
	before := marshal(t, store.Snapshot())

	_, err := r.Request(ctx, GroupExperience, expID)
	require.NoError(t, err)
	require.NotNil(t, r.Pending(GroupExperience))

	assert.ErrorIs(t, r.Editable(expID), ErrLocked)
	assert.NoError(t, r.Editable("other-entry"))

	r.Discard(GroupExperience)
	assert.Nil(t, r.Pending(GroupExperience))
	assert.NoError(t, r.Editable(expID))
	assert.Equal(t, before, marshal(t, store.Snapshot()))
}

func TestRequest_FailureLeavesNoProposal(t *testing.T) {
	ai := &fakeAdapter{
		RefineFunc: func(context.Context, string, string) (string, error) {
			return "", &llm.Error{Kind: llm.KindRateLimited, Message: llm.MessageRateLimited}
		},
	}
	r, store, expID := setup(t, ai)
	before := marshal(t, store.Snapshot())

	p, err := r.Request(context.Background(), GroupExperience, expID)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Nil(t, r.Pending(GroupExperience))
	assert.Empty(t, r.InFlight(GroupExperience))
	assert.Equal(t, before, marshal(t, store.Snapshot()))
}

func TestRequest_BlankTextGenerates(t *testing.T) {
	r, store, _ := setup(t, &fakeAdapter{})
	ctx := context.Background()
	projID, err := store.AddProject(ctx)
	require.NoError(t, err)
	_, err = store.UpdateProject(ctx, projID, func(p *types.Project) { p.Name = "Ledger" })
	require.NoError(t, err)

	ai := &fakeAdapter{}
	r = NewReconciler(store, ai)
	_, err = r.Request(ctx, GroupProjects, projID)
	require.NoError(t, err)

	require.Len(t, ai.calls, 1)
	assert.Equal(t, "", ai.calls[0].Text, "blank bullets are dropped so the request is a generation")
	assert.Equal(t, "Project: Ledger", ai.calls[0].Context)
}

func TestRequest_Education(t *testing.T) {
	r, store, _ := setup(t, &fakeAdapter{})
	ctx := context.Background()
	eduID, err := store.AddEducation(ctx)
	require.NoError(t, err)
	_, err = store.UpdateEducation(ctx, eduID, func(e *types.Education) {
		e.Institution = "mit"
		e.Degree = "bsc cs"
	})
	require.NoError(t, err)

	ai := &fakeAdapter{}
	r = NewReconciler(store, ai)
	p, err := r.Request(ctx, GroupEducation, eduID)
	require.NoError(t, err)

	assert.Equal(t, []refineCall{
		{Text: "mit", Context: "Educational Institution Name"},
		{Text: "bsc cs", Context: "Degree or Certification Name"},
	}, ai.calls)
	assert.Equal(t, "refined mit", p.Institution)
	assert.Equal(t, "refined bsc cs", p.Degree)

	doc, err := r.Accept(ctx, GroupEducation)
	require.NoError(t, err)
	assert.Equal(t, "refined mit", doc.Education[0].Institution)
	assert.Equal(t, "refined bsc cs", doc.Education[0].Degree)
}

func TestRequest_Summary(t *testing.T) {
	r, store, _ := setup(t, &fakeAdapter{})
	ctx := context.Background()
	_, err := store.SetSummary(ctx, "i like go")
	require.NoError(t, err)

	p, err := r.Request(ctx, GroupSummary, "ignored")
	require.NoError(t, err)
	assert.Equal(t, SummaryEntity, p.EntityID)
	assert.Equal(t, "refined i like go", p.Text)

	_, err = r.Accept(ctx, GroupSummary)
	require.NoError(t, err)
	assert.Equal(t, "refined i like go", store.Snapshot().Summary)
}

func TestRequest_UnknownEntity(t *testing.T) {
	r, _, _ := setup(t, &fakeAdapter{})

	_, err := r.Request(context.Background(), GroupExperience, "missing")
	var notFound *document.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestRequest_BusyForOtherEntity(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	ai := &fakeAdapter{
		RefineFunc: func(context.Context, string, string) (string, error) {
			close(started)
			<-release
			return "slow", nil
		},
	}
	r, store, expID := setup(t, ai)
	ctx := context.Background()
	otherID, err := store.AddExperience(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Request(ctx, GroupExperience, expID)
	}()
	<-started
	assert.Equal(t, expID, r.InFlight(GroupExperience))

	_, err = r.Request(ctx, GroupExperience, otherID)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	<-done
	assert.Equal(t, expID, r.Pending(GroupExperience).EntityID)
}

func TestRequest_LastResolvedWins(t *testing.T) {
	first := make(chan struct{})
	second := make(chan struct{})
	var n int
	var mu sync.Mutex
	ai := &fakeAdapter{
		RefineFunc: func(context.Context, string, string) (string, error) {
			mu.Lock()
			n++
			call := n
			mu.Unlock()
			if call == 1 {
				<-first
				return "from first", nil
			}
			<-second
			return "from second", nil
		},
	}
	r, _, expID := setup(t, ai)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.Request(ctx, GroupExperience, expID)
	}()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return n == 1
	}, timeoutWait, tick)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.Request(ctx, GroupExperience, expID)
	}()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return n == 2
	}, timeoutWait, tick)

	// second resolves first, then the first request resolves last
	close(second)
	require.Eventually(t, func() bool { return r.Pending(GroupExperience) != nil }, timeoutWait, tick)
	close(first)
	wg.Wait()

	assert.Equal(t, []string{"from first"}, r.Pending(GroupExperience).Bullets)
	assert.Empty(t, r.InFlight(GroupExperience))
}

func TestAccept_RemovedEntityClearsWithoutEffect(t *testing.T) {
	r, store, expID := setup(t, &fakeAdapter{})
	ctx := context.Background()

	_, err := r.Request(ctx, GroupExperience, expID)
	require.NoError(t, err)
	_, err = store.RemoveExperience(ctx, expID)
	require.NoError(t, err)
	before := marshal(t, store.Snapshot())

	_, err = r.Accept(ctx, GroupExperience)
	require.NoError(t, err)
	assert.Nil(t, r.Pending(GroupExperience))
	assert.Equal(t, before, marshal(t, store.Snapshot()))
}

func TestAcceptAndRegenerate_NothingPending(t *testing.T) {
	r, _, _ := setup(t, &fakeAdapter{})

	_, err := r.Accept(context.Background(), GroupSummary)
	assert.ErrorIs(t, err, ErrNoProposal)
	_, err = r.Regenerate(context.Background(), GroupSummary)
	assert.ErrorIs(t, err, ErrNoProposal)
}

func TestRegenerate(t *testing.T) {
	var n int
	ai := &fakeAdapter{
		RefineFunc: func(context.Context, string, string) (string, error) {
			n++
			if n == 1 {
				return "first", nil
			}
			return "second", nil
		},
	}
	r, _, expID := setup(t, ai)
	ctx := context.Background()

	_, err := r.Request(ctx, GroupExperience, expID)
	require.NoError(t, err)
	p, err := r.Regenerate(ctx, GroupExperience)
	require.NoError(t, err)

	assert.Equal(t, []string{"second"}, p.Bullets)
	assert.Equal(t, expID, r.Pending(GroupExperience).EntityID)
}

func TestParseGroup(t *testing.T) {
	g, err := ParseGroup("projects")
	require.NoError(t, err)
	assert.Equal(t, GroupProjects, g)

	_, err = ParseGroup("skills")
	var verr *document.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestSplitBullets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "bullets", input: "• one\n• two", want: []string{"one", "two"}},
		{name: "mangled bullet", input: "â€¢ one", want: []string{"one"}},
		{name: "numbered", input: "1. one\n2. two", want: []string{"one", "two"}},
		{name: "dash and star", input: "- one\n* two", want: []string{"one", "two"}},
		{name: "blank lines dropped", input: "\none\n  \ntwo\n", want: []string{"one", "two"}},
		{name: "indented marker", input: "   - one", want: []string{"one"}},
		{name: "plain", input: "Led the team", want: []string{"Led the team"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitBullets(tt.input))
		})
	}
}

func TestJoinBullets(t *testing.T) {
	assert.Equal(t, "a\nb", JoinBullets([]string{"a", "", "  ", "b"}))
	assert.Equal(t, "", JoinBullets(nil))
}
