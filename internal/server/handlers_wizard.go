package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/resume-forge/internal/progress"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/jonathan/resume-forge/internal/wizard"
)

// keepAliveInterval is how often an idle event stream gets a comment line
const keepAliveInterval = 15 * time.Second

// StartRequest is the body of POST /wizard/start
type StartRequest struct {
	Purpose types.Purpose `json:"purpose"`
	Manual  bool          `json:"manual"`
}

// ProgressResponse is the step indicator overview
type ProgressResponse struct {
	CurrentStep wizard.Step             `json:"current_step"`
	Steps       []progress.StepProgress `json:"steps"`
}

func (s *Server) handleWizardState(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.ws.Wizard.State())
}

// wizardResult writes the wizard state after a navigation, or the error that blocked it
func (s *Server) wizardResult(w http.ResponseWriter, err error) {
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.ws.Wizard.State())
}

func (s *Server) handleWizardStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeBody(r, &req); err != nil {
		s.failure(w, err)
		return
	}
	if !req.Purpose.Valid() {
		s.failure(w, &ErrValidation{Field: "purpose", Message: "unknown purpose " + string(req.Purpose)})
		return
	}
	s.wizardResult(w, s.ws.Wizard.Start(r.Context(), req.Purpose, req.Manual))
}

func (s *Server) handleWizardAdvance(w http.ResponseWriter, _ *http.Request) {
	s.wizardResult(w, s.ws.Wizard.Advance())
}

func (s *Server) handleWizardRetreat(w http.ResponseWriter, _ *http.Request) {
	s.wizardResult(w, s.ws.Wizard.Retreat())
}

// handleWizardJump accepts a step name ("skills") or index ("7")
func (s *Server) handleWizardJump(w http.ResponseWriter, r *http.Request) {
	step, ok := parseStep(r.PathValue("step"))
	if !ok {
		s.failure(w, &ErrValidation{Field: "step", Message: "unknown step " + r.PathValue("step")})
		return
	}
	s.wizardResult(w, s.ws.Wizard.JumpTo(step))
}

func parseStep(v string) (wizard.Step, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		step := wizard.Step(n)
		return step, step.Valid()
	}
	for step := wizard.StepPurpose; step <= wizard.StepPreview; step++ {
		if step.String() == v {
			return step, true
		}
	}
	return 0, false
}

// handleWizardAI starts the AI transition in the background and answers 202 at once.
// Progress is observable through GET /wizard or the event stream.
func (s *Server) handleWizardAI(w http.ResponseWriter, r *http.Request) {
	s.background(r.Context(), "AI transition", s.ws.Wizard.RunAITransition)
	s.jsonResponse(w, http.StatusAccepted, s.ws.Wizard.State())
}

func (s *Server) handleWizardSkip(w http.ResponseWriter, r *http.Request) {
	s.background(r.Context(), "AI skip", s.ws.Wizard.SkipAI)
	s.jsonResponse(w, http.StatusAccepted, s.ws.Wizard.State())
}

// handleWizardDispatch applies a raw wizard event. Long transitions run in the background.
func (s *Server) handleWizardDispatch(w http.ResponseWriter, r *http.Request) {
	var ev wizard.Event
	if err := decodeBody(r, &ev); err != nil {
		s.failure(w, err)
		return
	}
	if ev.Type == wizard.EventRunAI || ev.Type == wizard.EventSkipAI {
		s.background(r.Context(), string(ev.Type), func(ctx context.Context) error {
			return s.ws.Wizard.Dispatch(ctx, ev)
		})
		s.jsonResponse(w, http.StatusAccepted, s.ws.Wizard.State())
		return
	}
	s.wizardResult(w, s.ws.Wizard.Dispatch(r.Context(), ev))
}

// background runs fn detached from the request's cancellation
func (s *Server) background(ctx context.Context, name string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := fn(ctx); err != nil {
			log.Printf("[server] %s failed: %v", name, err)
		}
	}()
}

// handleWizardEvents streams wizard state and document changes as Server-Sent Events
func (s *Server) handleWizardEvents(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	type event struct {
		name string
		data any
	}
	events := make(chan event, 32)
	send := func(ev event) {
		select {
		case events <- ev:
		default:
			log.Printf("[server] Event stream is behind, dropping %s event", ev.name)
		}
	}

	unsubscribeState := s.ws.Wizard.Subscribe(func(st wizard.State) {
		send(event{name: "state", data: st})
	})
	defer unsubscribeState()
	unsubscribeDoc := s.ws.Store.Subscribe(func(doc *types.ResumeDocument) {
		send(event{name: "document", data: doc})
	})
	defer unsubscribeDoc()

	if err := sse.WriteEvent("state", s.ws.Wizard.State()); err != nil {
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			if err := sse.WriteEvent(ev.name, ev.data); err != nil {
				return
			}
		case <-ticker.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleProgress(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, ProgressResponse{
		CurrentStep: s.ws.Wizard.State().CurrentStep,
		Steps:       progress.Overview(s.ws.Store.Snapshot()),
	})
}
