// Package document owns the single in-memory resume document: its defaults, every
// mutation, the AI/sign-in merges, and write-through mirroring to a persistence port.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/jonathan/resume-forge/internal/persistence"
	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/types"
)

// Listener is notified with a snapshot after every committed change
type Listener func(doc *types.ResumeDocument)

// Store is the explicit state container for the document. Every change goes through
// Update, which applies the mutation to a private copy and swaps it in only on success.
type Store struct {
	mu        sync.Mutex
	doc       *types.ResumeDocument
	port      persistence.Port
	ids       IDGenerator
	listeners map[int]Listener
	nextID    int
}

// NewStore wraps doc. A nil port disables mirroring; a nil generator uses UUIDs.
func NewStore(doc *types.ResumeDocument, port persistence.Port, ids IDGenerator) *Store {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if doc == nil {
		doc = Default(ids)
	}
	return &Store{
		doc:       doc.Clone(),
		port:      port,
		ids:       ids,
		listeners: make(map[int]Listener),
	}
}

// Open restores the document from port. An absent, unparsable or schema-invalid value
// yields the defaults; the corrupt value is logged and left to be overwritten.
func Open(ctx context.Context, port persistence.Port, ids IDGenerator) *Store {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	doc, err := load(ctx, port)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			log.Printf("[persistence] Stored document unusable, starting from defaults: %v", err)
		}
		doc = Default(ids)
	}
	return NewStore(doc, port, ids)
}

func load(ctx context.Context, port persistence.Port) (*types.ResumeDocument, error) {
	if port == nil {
		return nil, persistence.ErrNotFound
	}
	raw, err := port.Load(ctx, persistence.KeyDocument)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.DocumentSchema, raw); err != nil {
		return nil, err
	}
	var doc types.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	normalize(&doc)
	return &doc, nil
}

// normalize fills defaults a stored document may be missing
func normalize(doc *types.ResumeDocument) {
	if !doc.Purpose.Valid() {
		doc.Purpose = types.PurposeFirstJob
	}
	if !doc.TemplateID.Valid() {
		doc.TemplateID = types.DefaultTemplate
	}
	if doc.ThemeColor == "" {
		doc.ThemeColor = types.DefaultThemeColor
	}
	if doc.BackgroundColor == "" {
		doc.BackgroundColor = types.DefaultBackgroundColor
	}
	if doc.FontFamily == "" {
		doc.FontFamily = types.DefaultFontFamily
	}
}

// Default returns a fresh document with the two seeded skill categories.
func Default(ids IDGenerator) *types.ResumeDocument {
	return &types.ResumeDocument{
		Purpose:    types.PurposeFirstJob,
		Experience: []types.Experience{},
		Education:  []types.Education{},
		Projects:   []types.Project{},
		Skills: []types.SkillCategory{
			{ID: ids.NewID(), Name: "Technical Skills", Skills: []string{}},
			{ID: ids.NewID(), Name: "Soft Skills", Skills: []string{}},
		},
		Certifications:  []string{},
		Achievements:    []string{},
		ThemeColor:      types.DefaultThemeColor,
		BackgroundColor: types.DefaultBackgroundColor,
		TemplateID:      types.DefaultTemplate,
		FontFamily:      types.DefaultFontFamily,
		Score:           types.Score{Feedback: []string{}},
	}
}

// IDs returns the store's id generator.
func (s *Store) IDs() IDGenerator {
	return s.ids
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *types.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Update applies fn to a copy of the document. When fn returns an error the document is
// unchanged; otherwise the copy replaces it, is mirrored to persistence and listeners run.
func (s *Store) Update(ctx context.Context, fn func(doc *types.ResumeDocument) error) (*types.ResumeDocument, error) {
	s.mu.Lock()
	next := s.doc.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.doc = next
	s.persist(ctx, next)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next.Clone())
	}
	return next.Clone(), nil
}

// persist writes doc through to the port. Failures are logged: there is no durability guarantee.
func (s *Store) persist(ctx context.Context, doc *types.ResumeDocument) {
	if s.port == nil {
		return
	}
	data, err := json.Marshal(doc)
	if err != nil {
		log.Printf("[persistence] Failed to encode document: %v", err)
		return
	}
	if err := s.port.Save(ctx, persistence.KeyDocument, data); err != nil {
		log.Printf("[persistence] Failed to save document: %v", err)
	}
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
