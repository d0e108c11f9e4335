package wizard

import (
	"sync"
	"time"

	"github.com/jonathan/resume-forge/internal/clock"
)

// Level is the tone of a notification
type Level string

// Notification levels
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 4 * time.Second

// Notification is a transient, non-blocking message for the user
type Notification struct {
	ID        int64     `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier keeps notifications until they expire
type Notifier struct {
	clock clock.Clock

	mu    sync.Mutex
	items []Notification
	next  int64
}

// NewNotifier creates a notifier reading time from clk.
func NewNotifier(clk clock.Clock) *Notifier {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Notifier{clock: clk}
}

// Push adds a notification that expires after ttl (DefaultNotificationTTL when ttl <= 0).
func (n *Notifier) Push(level Level, message string, ttl time.Duration) Notification {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	item := Notification{ID: n.next, Level: level, Message: message, ExpiresAt: n.clock.Now().Add(ttl)}
	n.items = append(n.items, item)
	return item
}

// Active returns unexpired notifications, oldest first, dropping expired ones.
func (n *Notifier) Active() []Notification {
	now := n.clock.Now()
	n.mu.Lock()
	defer n.mu.Unlock()
	kept := n.items[:0]
	for _, item := range n.items {
		if now.Before(item.ExpiresAt) {
			kept = append(kept, item)
		}
	}
	n.items = kept
	return append([]Notification{}, kept...)
}

// Dismiss removes the notification with id.
func (n *Notifier) Dismiss(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return
		}
	}
}
