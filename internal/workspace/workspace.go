// Package workspace assembles the single-user resume session: the document store, the
// wizard, proposal reconciliation, skill suggestions, sign-in, theme and export.
package workspace

import (
	"context"
	"errors"
	"log"
	"reflect"
	"sync"
	"time"

	"github.com/jonathan/resume-forge/internal/assistant"
	"github.com/jonathan/resume-forge/internal/clock"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/export"
	"github.com/jonathan/resume-forge/internal/identity"
	"github.com/jonathan/resume-forge/internal/persistence"
	"github.com/jonathan/resume-forge/internal/proposal"
	"github.com/jonathan/resume-forge/internal/rendering"
	"github.com/jonathan/resume-forge/internal/skills"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/jonathan/resume-forge/internal/wizard"
)

// Notification lifetimes for sign-in and sign-out
const (
	SignInNotificationTTL  = 4 * time.Second
	SignOutNotificationTTL = 3 * time.Second
)

// ErrExportInProgress is returned while a previous export is still running.
var ErrExportInProgress = errors.New("an export is already in progress")

// Options configure Open. Zero values select production defaults.
type Options struct {
	Port     persistence.Port
	IDs      document.IDGenerator
	AI       assistant.Adapter
	Clock    clock.Clock
	Timing   *wizard.Timing
	Renderer export.Renderer
	// LiveIdentity signs in through real providers once a provider config is stored
	LiveIdentity identity.Provider
}

// Workspace is one user's session
type Workspace struct {
	Store     *document.Store
	Wizard    *wizard.Controller
	Proposals *proposal.Reconciler
	Skills    *skills.Suggester
	Identity  *identity.Service
	Renderer  export.Renderer

	port      persistence.Port
	mu        sync.Mutex
	exporting bool
}

// Open restores the document from opts.Port and wires every component around it.
func Open(ctx context.Context, opts Options) *Workspace {
	if opts.Port == nil {
		opts.Port = persistence.NewMemoryStore()
	}
	if opts.AI == nil {
		opts.AI = assistant.Unconfigured{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Renderer == nil {
		opts.Renderer = export.NewChromeRenderer()
	}

	store := document.Open(ctx, opts.Port, opts.IDs)

	w := &Workspace{
		Store:     store,
		Wizard:    wizard.NewController(store, opts.AI, wizard.Options{Clock: opts.Clock, Timing: opts.Timing}),
		Proposals: proposal.NewReconciler(store, opts.AI),
		Skills:    skills.NewSuggester(store, opts.AI),
		Identity: &identity.Service{
			Configs: identity.NewConfigStore(opts.Port),
			Demo:    identity.NewDemoProvider(opts.Clock),
			Live:    opts.LiveIdentity,
			Session: identity.NewSession(),
		},
		Renderer: opts.Renderer,
		port:     opts.Port,
	}
	w.fetchSuggestionsOnSkillsStep(context.WithoutCancel(ctx))
	return w
}

// fetchSuggestionsOnSkillsStep refreshes the skill suggestions each time the wizard
// enters the Skills step.
func (w *Workspace) fetchSuggestionsOnSkillsStep(ctx context.Context) {
	var mu sync.Mutex
	last := w.Wizard.State().CurrentStep
	w.Wizard.Subscribe(func(s wizard.State) {
		mu.Lock()
		entered := s.CurrentStep == wizard.StepSkills && last != wizard.StepSkills
		last = s.CurrentStep
		mu.Unlock()
		if entered {
			log.Printf("[workspace] Entered skills step, fetching suggestions")
			w.Skills.RefreshAsync(ctx)
		}
	})
}

// SignInResult is the outcome of a successful sign-in
type SignInResult struct {
	User     *types.User
	Document *types.ResumeDocument
	Seeded   bool
	Message  string
}

// SignIn authenticates, merges the provider's seed profile into the document and
// posts the welcome notification.
func (w *Workspace) SignIn(ctx context.Context, provider types.ProviderName, code string) (*SignInResult, error) {
	user, seed, err := w.Identity.SignIn(ctx, provider, code)
	if err != nil {
		return nil, err
	}

	res := &SignInResult{User: user, Seeded: !emptySeed(seed), Document: w.Store.Snapshot()}
	if res.Seeded {
		res.Document, err = w.Store.ApplySeed(ctx, seed)
		if err != nil {
			return nil, err
		}
	}
	res.Message = identity.WelcomeMessage(user, res.Seeded)

	log.Printf("[workspace] Signed in %s via %s (seeded: %v)", user.Name, user.Provider, res.Seeded)
	w.Wizard.Notify(wizard.LevelSuccess, res.Message, SignInNotificationTTL)
	return res, nil
}

// SignOut ends the session. The document is kept.
func (w *Workspace) SignOut(ctx context.Context) {
	w.Identity.SignOut(ctx)
	w.Wizard.Notify(wizard.LevelInfo, identity.MessageLoggedOut, SignOutNotificationTTL)
}

func emptySeed(seed *types.SeedData) bool {
	return seed == nil || reflect.ValueOf(*seed).IsZero()
}

// Reset restores the default document and returns the wizard to the first step. It is
// rejected with wizard.ErrProcessing while an AI transition is running, leaving the
// document untouched.
func (w *Workspace) Reset(ctx context.Context) (*types.ResumeDocument, error) {
	if err := w.Wizard.JumpTo(wizard.StepPurpose); err != nil {
		return nil, err
	}
	doc, err := w.Store.Reset(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range proposal.Groups {
		w.Proposals.Discard(g)
	}
	return doc, nil
}

// Theme returns the stored UI theme.
func (w *Workspace) Theme(ctx context.Context) persistence.Theme {
	return persistence.LoadTheme(ctx, w.port)
}

// SetTheme stores the UI theme.
func (w *Workspace) SetTheme(ctx context.Context, theme persistence.Theme) error {
	return persistence.SaveTheme(ctx, w.port, theme)
}

// Preview renders the current document with its own design settings.
func (w *Workspace) Preview() (*rendering.Layout, string, error) {
	return rendering.RenderDocument(w.Store.Snapshot())
}

// Export renders and converts the current document. One export runs at a time.
func (w *Workspace) Export(ctx context.Context, format export.Format) (*export.Result, error) {
	w.mu.Lock()
	if w.exporting {
		w.mu.Unlock()
		return nil, ErrExportInProgress
	}
	w.exporting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.exporting = false
		w.mu.Unlock()
	}()

	res, err := export.Export(ctx, w.Renderer, w.Store.Snapshot(), format)
	if err != nil {
		log.Printf("[workspace] Export failed: %v", err)
		return nil, err
	}
	return res, nil
}
