package server

import (
	"net/http"

	"github.com/jonathan/resume-forge/internal/proposal"
	"github.com/jonathan/resume-forge/internal/types"
)

// ProposalResponse is the proposal state of one field group. Proposal is nil when
// nothing is pending, including after a failed refinement.
type ProposalResponse struct {
	Group    proposal.Group     `json:"group"`
	Proposal *proposal.Proposal `json:"proposal"`
	InFlight string             `json:"in_flight,omitempty"`
	// Locked is set while the proposal's entity rejects edits
	Locked bool `json:"locked"`
}

// SuggestionsResponse is the skill suggestion pool
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
	Loading     bool     `json:"loading"`
}

// AcceptSkillResponse reports the outcome of accepting one suggestion
type AcceptSkillResponse struct {
	Added       bool                  `json:"added"`
	Suggestions []string              `json:"suggestions"`
	Document    *types.ResumeDocument `json:"document"`
}

// group parses the {group} path value, writing a 400 when it is unknown
func (s *Server) group(w http.ResponseWriter, r *http.Request) (proposal.Group, bool) {
	g, err := proposal.ParseGroup(r.PathValue("group"))
	if err != nil {
		s.failure(w, err)
		return "", false
	}
	return g, true
}

func (s *Server) proposalResponse(g proposal.Group, p *proposal.Proposal) ProposalResponse {
	resp := ProposalResponse{Group: g, Proposal: p, InFlight: s.ws.Proposals.InFlight(g)}
	if p != nil {
		resp.Locked = s.ws.Proposals.IsLocked(p.EntityID)
	}
	return resp
}

// handleRequestProposal asks the AI for a replacement of one entity's field group.
// The call blocks until the refinement resolves.
func (s *Server) handleRequestProposal(w http.ResponseWriter, r *http.Request) {
	g, ok := s.group(w, r)
	if !ok {
		return
	}
	p, err := s.ws.Proposals.Request(r.Context(), g, r.PathValue("id"))
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.proposalResponse(g, p))
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	g, ok := s.group(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.proposalResponse(g, s.ws.Proposals.Pending(g)))
}

func (s *Server) handleAcceptProposal(w http.ResponseWriter, r *http.Request) {
	g, ok := s.group(w, r)
	if !ok {
		return
	}
	doc, err := s.ws.Proposals.Accept(r.Context(), g)
	s.documentResult(w, doc, err)
}

func (s *Server) handleDiscardProposal(w http.ResponseWriter, r *http.Request) {
	g, ok := s.group(w, r)
	if !ok {
		return
	}
	s.ws.Proposals.Discard(g)
	s.jsonResponse(w, http.StatusOK, s.proposalResponse(g, nil))
}

func (s *Server) handleRegenerateProposal(w http.ResponseWriter, r *http.Request) {
	g, ok := s.group(w, r)
	if !ok {
		return
	}
	p, err := s.ws.Proposals.Regenerate(r.Context(), g)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.proposalResponse(g, p))
}

func (s *Server) handleGetSuggestions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, SuggestionsResponse{
		Suggestions: s.ws.Skills.Pool(),
		Loading:     s.ws.Skills.Loading(),
	})
}

func (s *Server) handleRefreshSuggestions(w http.ResponseWriter, r *http.Request) {
	pool := s.ws.Skills.Refresh(r.Context())
	s.jsonResponse(w, http.StatusOK, SuggestionsResponse{Suggestions: pool})
}

func (s *Server) handleAcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	var req SkillRequest
	if err := decodeBody(r, &req); err != nil {
		s.failure(w, err)
		return
	}
	added, err := s.ws.Skills.Accept(r.Context(), req.Skill)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, AcceptSkillResponse{
		Added:       added,
		Suggestions: s.ws.Skills.Pool(),
		Document:    s.ws.Store.Snapshot(),
	})
}
