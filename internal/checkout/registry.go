package checkout

import (
	"sync"
	"time"
)

type registryEntry struct {
	session *Session
	touched time.Time
}

// Registry keeps live checkout sessions in memory. Sessions idle for longer
// than the TTL are dropped; drafts are never persisted.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]registryEntry
	ttl      time.Duration
	nowFunc  func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]registryEntry),
		ttl:      ttl,
		nowFunc:  time.Now,
	}
}

// Put registers a session under its id.
func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = registryEntry{session: s, touched: r.nowFunc()}
}

// Get returns the session owned by userID and refreshes its idle timer.
// Sessions of other users are reported as not found.
func (r *Registry) Get(id, userID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := r.nowFunc()
	if now.Sub(e.touched) > r.ttl {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	if e.session.UserID() != userID {
		return nil, ErrSessionNotFound
	}
	e.touched = now
	r.sessions[id] = e
	return e.session, nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Sweep drops expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	n := 0
	for id, e := range r.sessions {
		if now.Sub(e.touched) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
