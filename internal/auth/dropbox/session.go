package dropbox

import (
	"fmt"
	"sync"
	"time"
)

// sessionPrefix is combined with the current timestamp to name a pending
// authorization session.
const sessionPrefix = "dropbox-auth-"

// SessionRegistry tracks pending authorization sessions. Each entry maps a
// generated session id to a one-shot completion handler; the callback
// listener, which runs outside the initiating call, is handed only the
// session id and the ability to complete it with the final redirect URL.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]func(redirectURL string)
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]func(string))}
}

// newSessionID derives an identifier from the current time. Nanosecond
// resolution keeps ids distinct across rapid consecutive flows.
func newSessionID() string {
	return fmt.Sprintf("%s%d", sessionPrefix, time.Now().UnixNano())
}

// Register stores the handler under a fresh session id and returns the id.
// The handler will be invoked at most once.
func (r *SessionRegistry) Register(handler func(redirectURL string)) string {
	id := newSessionID()
	r.mu.Lock()
	r.sessions[id] = handler
	r.mu.Unlock()
	return id
}

// Complete removes the handler registered under id and invokes it with the
// redirect URL. Completing an id that is not registered is a no-op. It
// reports whether a pending session was completed.
func (r *SessionRegistry) Complete(id, redirectURL string) bool {
	r.mu.Lock()
	handler, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	handler(redirectURL)
	return true
}

// Cancel drops a pending session without invoking its handler. Used when
// the initiating call gives up waiting.
func (r *SessionRegistry) Cancel(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
