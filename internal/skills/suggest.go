// Package skills offers AI skill suggestions as one-click additions to the document.
package skills

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/jonathan/resume-forge/internal/assistant"
	"github.com/jonathan/resume-forge/internal/document"
)

// Suggester holds the current suggestion pool for the Skills step
type Suggester struct {
	store *document.Store
	ai    assistant.Adapter

	mu     sync.Mutex
	pool   []string
	active int // refreshes running
}

// NewSuggester creates a suggester with an empty pool.
func NewSuggester(store *document.Store, ai assistant.Adapter) *Suggester {
	return &Suggester{store: store, ai: ai}
}

// Refresh replaces the pool with fresh suggestions: technical first, then soft, minus
// anything already in the document. Failures leave an empty pool.
func (s *Suggester) Refresh(ctx context.Context) []string {
	s.mu.Lock()
	s.active++
	s.mu.Unlock()
	return s.fetch(ctx)
}

// RefreshAsync starts a refresh in the background. Loading reports true from the
// moment it returns until the refresh completes.
func (s *Suggester) RefreshAsync(ctx context.Context) {
	s.mu.Lock()
	s.active++
	s.mu.Unlock()
	go s.fetch(ctx)
}

func (s *Suggester) fetch(ctx context.Context) []string {
	doc := s.store.Snapshot()
	var pool []string
	suggestions, err := s.ai.SuggestSkills(ctx, doc)
	if err != nil {
		log.Printf("[skills] Suggestions unavailable: %v", err)
	} else {
		pool = Filter(suggestions.All(), func(tag string) bool { return document.HasSkill(doc, tag) })
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active--
	s.pool = pool
	return append([]string{}, pool...)
}

// Pool returns the current suggestions.
func (s *Suggester) Pool() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.pool...)
}

// Loading reports whether a refresh is running.
func (s *Suggester) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active > 0
}

// Accept adds tag to the first skill category and drops it from the pool. The pool is
// not re-fetched. It reports whether the document changed.
func (s *Suggester) Accept(ctx context.Context, tag string) (bool, error) {
	added, err := s.store.AddSkillToFirstCategory(ctx, tag)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.pool[:0]
	for _, p := range s.pool {
		if !strings.EqualFold(p, strings.TrimSpace(tag)) {
			kept = append(kept, p)
		}
	}
	s.pool = kept
	return added, nil
}

// Filter trims candidates and drops blanks, case-insensitive duplicates and anything
// exists reports as already present.
func Filter(candidates []string, exists func(tag string) bool) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] || exists(c) {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
