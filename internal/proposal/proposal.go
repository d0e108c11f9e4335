// Package proposal manages AI rewrite proposals for single fragments of the document.
// A proposal is held beside the committed document until it is accepted or discarded;
// there is at most one per field group.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/jonathan/resume-forge/internal/assistant"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/types"
)

// Group identifies a field group eligible for refinement
type Group string

// Field groups
const (
	GroupSummary    Group = "summary"
	GroupExperience Group = "experience"
	GroupProjects   Group = "projects"
	GroupEducation  Group = "education"
)

// Groups lists every field group.
var Groups = []Group{GroupSummary, GroupExperience, GroupProjects, GroupEducation}

// SummaryEntity is the entity id used for the single summary field.
const SummaryEntity = "summary"

// ParseGroup validates a group name.
func ParseGroup(s string) (Group, error) {
	for _, g := range Groups {
		if string(g) == s {
			return g, nil
		}
	}
	return "", &document.ValidationError{Field: "group", Message: fmt.Sprintf("unknown field group %q", s)}
}

// ErrBusy is returned when a request for another entity of the same group is in flight.
var ErrBusy = errors.New("a refinement for another entry is already in progress")

// ErrLocked is returned by Editable for an entity with a pending proposal.
var ErrLocked = errors.New("entry has a pending AI proposal; accept or discard it first")

// ErrNoProposal is returned by Accept and Regenerate when nothing is pending.
var ErrNoProposal = errors.New("no pending proposal")

// Proposal is a suggested replacement for one entity's field group. Only the fields of
// the proposal's group are meaningful.
type Proposal struct {
	Group       Group    `json:"group"`
	EntityID    string   `json:"entity_id"`
	Text        string   `json:"text,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
	Institution string   `json:"institution,omitempty"`
	Degree      string   `json:"degree,omitempty"`
}

type slot struct {
	pending  *Proposal
	inFlight string
	active   int
}

// Reconciler owns the pending proposal and in-flight state of every field group.
type Reconciler struct {
	store *document.Store
	ai    assistant.Adapter

	mu    sync.Mutex
	slots map[Group]*slot
}

// NewReconciler creates a reconciler committing into store.
func NewReconciler(store *document.Store, ai assistant.Adapter) *Reconciler {
	slots := make(map[Group]*slot, len(Groups))
	for _, g := range Groups {
		slots[g] = &slot{}
	}
	return &Reconciler{store: store, ai: ai, slots: slots}
}

// Request asks for a rewrite of entityID's field group. Any pending proposal of the group
// is cleared first. AI failures are logged and leave no proposal; the returned proposal is
// nil in that case. Overlapping requests for the same entity resolve last-wins.
func (r *Reconciler) Request(ctx context.Context, group Group, entityID string) (*Proposal, error) {
	if group == GroupSummary {
		entityID = SummaryEntity
	}
	doc := r.store.Snapshot()
	if err := entityExists(doc, group, entityID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	s, ok := r.slots[group]
	if !ok {
		r.mu.Unlock()
		return nil, &document.ValidationError{Field: "group", Message: fmt.Sprintf("unknown field group %q", group)}
	}
	if s.active > 0 && s.inFlight != entityID {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	s.inFlight = entityID
	s.active++
	s.pending = nil
	r.mu.Unlock()

	p, err := r.refine(ctx, doc, group, entityID)

	r.mu.Lock()
	defer r.mu.Unlock()
	s.active--
	if s.active == 0 {
		s.inFlight = ""
	}
	if err != nil {
		log.Printf("[proposal] Refinement of %s %s failed: %v", group, entityID, err)
		return nil, nil
	}
	s.pending = p
	return clone(p), nil
}

// Accept commits the pending proposal of group into the document and clears it. When the
// entity no longer exists the proposal is cleared without effect.
func (r *Reconciler) Accept(ctx context.Context, group Group) (*types.ResumeDocument, error) {
	r.mu.Lock()
	s, ok := r.slots[group]
	if !ok || s.pending == nil {
		r.mu.Unlock()
		return nil, ErrNoProposal
	}
	p := s.pending
	s.pending = nil
	r.mu.Unlock()

	doc, err := r.store.Update(ctx, func(doc *types.ResumeDocument) error {
		apply(doc, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit proposal: %w", err)
	}
	return doc, nil
}

// Discard clears the pending proposal of group. The document is not touched.
func (r *Reconciler) Discard(group Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[group]; ok {
		s.pending = nil
	}
}

// Regenerate discards the pending proposal and requests a fresh one for the same entity.
func (r *Reconciler) Regenerate(ctx context.Context, group Group) (*Proposal, error) {
	r.mu.Lock()
	s, ok := r.slots[group]
	if !ok || s.pending == nil {
		r.mu.Unlock()
		return nil, ErrNoProposal
	}
	entityID := s.pending.EntityID
	s.pending = nil
	r.mu.Unlock()

	return r.Request(ctx, group, entityID)
}

// Pending returns a copy of the group's pending proposal, or nil.
func (r *Reconciler) Pending(group Group) *Proposal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[group]; ok {
		return clone(s.pending)
	}
	return nil
}

// InFlight returns the entity id with a request in flight for group, or "".
func (r *Reconciler) InFlight(group Group) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[group]; ok {
		return s.inFlight
	}
	return ""
}

// IsLocked reports whether entityID has a pending proposal. Its fields are not editable
// until the proposal is accepted or discarded.
func (r *Reconciler) IsLocked(entityID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		if s.pending != nil && s.pending.EntityID == entityID {
			return true
		}
	}
	return false
}

// Editable returns ErrLocked while entityID has a pending proposal.
func (r *Reconciler) Editable(entityID string) error {
	if r.IsLocked(entityID) {
		return ErrLocked
	}
	return nil
}

func (r *Reconciler) refine(ctx context.Context, doc *types.ResumeDocument, group Group, entityID string) (*Proposal, error) {
	p := &Proposal{Group: group, EntityID: entityID}

	switch group {
	case GroupSummary:
		text, err := r.ai.RefineFragment(ctx, doc.Summary, doc.PersonalInfo.JobTitle)
		if err != nil {
			return nil, err
		}
		p.Text = text

	case GroupExperience:
		e := doc.Experience[doc.FindExperience(entityID)]
		text, err := r.ai.RefineFragment(ctx, JoinBullets(e.Description), fmt.Sprintf("Role: %s at %s", e.Role, e.Company))
		if err != nil {
			return nil, err
		}
		p.Bullets = SplitBullets(text)

	case GroupProjects:
		pr := doc.Projects[doc.FindProject(entityID)]
		text, err := r.ai.RefineFragment(ctx, JoinBullets(pr.Description), "Project: "+pr.Name)
		if err != nil {
			return nil, err
		}
		p.Bullets = SplitBullets(text)

	case GroupEducation:
		e := doc.Education[doc.FindEducation(entityID)]
		institution, err := r.ai.RefineFragment(ctx, e.Institution, "Educational Institution Name")
		if err != nil {
			return nil, err
		}
		degree, err := r.ai.RefineFragment(ctx, e.Degree, "Degree or Certification Name")
		if err != nil {
			return nil, err
		}
		p.Institution, p.Degree = institution, degree
	}
	return p, nil
}

func entityExists(doc *types.ResumeDocument, group Group, id string) error {
	found := true
	switch group {
	case GroupExperience:
		found = doc.FindExperience(id) >= 0
	case GroupProjects:
		found = doc.FindProject(id) >= 0
	case GroupEducation:
		found = doc.FindEducation(id) >= 0
	}
	if !found {
		return &document.NotFoundError{Kind: string(group), ID: id}
	}
	return nil
}

func apply(doc *types.ResumeDocument, p *Proposal) {
	switch p.Group {
	case GroupSummary:
		doc.Summary = p.Text
	case GroupExperience:
		if i := doc.FindExperience(p.EntityID); i >= 0 {
			doc.Experience[i].Description = append([]string{}, p.Bullets...)
		}
	case GroupProjects:
		if i := doc.FindProject(p.EntityID); i >= 0 {
			doc.Projects[i].Description = append([]string{}, p.Bullets...)
		}
	case GroupEducation:
		if i := doc.FindEducation(p.EntityID); i >= 0 {
			doc.Education[i].Institution = p.Institution
			doc.Education[i].Degree = p.Degree
		}
	}
}

func clone(p *Proposal) *Proposal {
	if p == nil {
		return nil
	}
	out := *p
	if p.Bullets != nil {
		out.Bullets = append([]string{}, p.Bullets...)
	}
	return &out
}

// bulletMarker matches list markers at the start of a model response line, including
// the UTF-8 bullet decoded as Latin-1.
var bulletMarker = regexp.MustCompile(`^[•â€¢\-*\d.]+\s*`)

// JoinBullets joins the non-blank bullets with newlines.
func JoinBullets(bullets []string) string {
	kept := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n")
}

// SplitBullets splits a model response into bullets, dropping blank lines and markers.
func SplitBullets(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(bulletMarker.ReplaceAllString(strings.TrimSpace(line), "")))
	}
	return out
}
