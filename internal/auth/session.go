package auth

import (
	"sync"

	"github.com/google/uuid"
)

// SessionChange describes what happened to a user's session.
type SessionChange string

const (
	SessionLogin   SessionChange = "login"
	SessionLogout  SessionChange = "logout"
	SessionProfile SessionChange = "profile"

	SessionPassword SessionChange = "password"
	SessionEmail    SessionChange = "email"
)

// SessionEvent is delivered to every subscriber of a SessionNotifier.
type SessionEvent struct {
	UserID uuid.UUID     `json:"user_id"`
	Change SessionChange `json:"change"`
}

// SessionNotifier fans session changes out to subscribers. Subscribers are
// called synchronously, in subscription order, and must not block.
type SessionNotifier struct {
	mu        sync.RWMutex
	observers []func(SessionEvent)
}

func NewSessionNotifier() *SessionNotifier {
	return &SessionNotifier{}
}

// Subscribe registers fn to receive every future session event.
func (n *SessionNotifier) Subscribe(fn func(SessionEvent)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, fn)
}

// Notify delivers ev to all subscribers. A nil notifier is a no-op.
func (n *SessionNotifier) Notify(ev SessionEvent) {
	if n == nil {
		return
	}
	n.mu.RLock()
	observers := make([]func(SessionEvent), len(n.observers))
	copy(observers, n.observers)
	n.mu.RUnlock()

	for _, fn := range observers {
		fn(ev)
	}
}
