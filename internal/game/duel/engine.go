package duel

import "sync"

// Engine manages all live duel sessions, keyed by channel key.
// All methods are safe for concurrent use; sessions under different keys
// are fully independent.
type Engine struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewEngine creates an empty duel Engine.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine() *Engine {
	return &Engine{sessions: make(map[string]*Session)}
}

// StartSession creates a new session for the two players on channelKey.
//
// Precondition: channelKey non-empty; p1 != p2.
// Postcondition: Returns the new Session, or ErrSessionExists if a session
// is already live on channelKey.
func (e *Engine) StartSession(channelKey string, p1, p2 int64) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.sessions[channelKey]; exists {
		return nil, ErrSessionExists
	}
	s := NewSession(channelKey, p1, p2)
	e.sessions[channelKey] = s
	return s, nil
}

// Get returns the live session on channelKey.
//
// Postcondition: Returns ErrNoSession when no session is live on the key.
func (e *Engine) Get(channelKey string) (*Session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.sessions[channelKey]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// End removes the session on channelKey from the live set. Removing an
// absent key is a no-op.
func (e *Engine) End(channelKey string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, channelKey)
}

// Len returns the number of live sessions.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sessions)
}
