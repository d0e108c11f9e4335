// Package identity signs the single workspace user in through an external provider and
// produces the seed profile that is merged into the document on login.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jonathan/resume-forge/internal/types"
)

// User-facing sign-in failure messages
const (
	MessageLoginFailed     = "Login failed."
	MessageLoginCancelled  = "Login cancelled."
	MessageAccountExists   = "Account exists with a different provider."
	MessageUnknownProvider = "Unsupported sign-in provider."
	MessageLoggedOut       = "Logged out successfully."
	messageSyncedTemplate  = "Synced with %s! Data Updated."
	messageWelcomeTemplate = "Welcome back, %s!"
	anonymousUserName      = "Anonymous User"
)

// Provider authenticates against one backend and returns the user and the profile seed.
// code is the authorization code for OAuth backends and is ignored in demo mode.
type Provider interface {
	SignIn(ctx context.Context, provider types.ProviderName, code string) (*types.User, *types.SeedData, error)
}

// Error is a sign-in failure. Message is always one of the user-facing messages.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// MessageFor returns the user-facing message for a sign-in failure.
func MessageFor(err error) string {
	var idErr *Error
	if errors.As(err, &idErr) {
		return idErr.Message
	}
	return MessageLoginFailed
}

// WelcomeMessage is the toast shown after sign-in. A non-empty seed means the
// document was updated from the provider profile.
func WelcomeMessage(user *types.User, seeded bool) string {
	if seeded {
		return fmt.Sprintf(messageSyncedTemplate, user.Provider)
	}
	return fmt.Sprintf(messageWelcomeTemplate, user.Name)
}

// Listener observes session changes. user is nil when signed out.
type Listener func(user *types.User)

// Session holds the signed-in user and notifies listeners when it changes.
type Session struct {
	mu        sync.Mutex
	user      *types.User
	listeners map[int]Listener
	next      int
}

// NewSession returns a signed-out session.
func NewSession() *Session {
	return &Session{listeners: make(map[int]Listener)}
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.user)
}

// Set replaces the signed-in user and notifies listeners.
func (s *Session) Set(user *types.User) {
	s.mu.Lock()
	s.user = copyUser(user)
	listeners := s.snapshotLocked()
	current := copyUser(s.user)
	s.mu.Unlock()

	for _, l := range listeners {
		l(copyUser(current))
	}
}

// Clear signs the user out.
func (s *Session) Clear() {
	s.Set(nil)
}

// OnChange registers l. It is invoked immediately with the current user and again on
// every change until the returned function is called.
func (s *Session) OnChange(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.listeners[id] = l
	current := copyUser(s.user)
	s.mu.Unlock()

	l(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshotLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func copyUser(u *types.User) *types.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Service picks the live OAuth provider when a provider configuration is stored and
// the demo provider otherwise, and keeps the session current.
type Service struct {
	Configs *ConfigStore
	Demo    Provider
	Live    Provider
	Session *Session
}

// Configured reports whether sign-in goes through the live provider.
func (s *Service) Configured(ctx context.Context) bool {
	if s.Live == nil {
		return false
	}
	_, ok := s.Configs.Load(ctx)
	return ok
}

// SignIn authenticates with provider and records the user on the session.
func (s *Service) SignIn(ctx context.Context, provider types.ProviderName, code string) (*types.User, *types.SeedData, error) {
	if !provider.Valid() {
		return nil, nil, &Error{Message: MessageUnknownProvider}
	}

	backend := s.Demo
	if s.Configured(ctx) {
		backend = s.Live
	} else {
		log.Printf("[identity] Demo mode: simulating %s sign-in", provider)
	}

	user, seed, err := backend.SignIn(ctx, provider, code)
	if err != nil {
		log.Printf("[identity] Sign-in with %s failed: %v", provider, err)
		return nil, nil, err
	}

	s.Session.Set(user)
	return user, seed, nil
}

// SignOut clears the session.
func (s *Service) SignOut(_ context.Context) {
	s.Session.Clear()
}
