package engine

import (
	"log/slog"
	"sync"
	"time"
)

// Registry tracks live sessions by ID.
//
// Sessions share the Engine (and therefore the Table); they never share a
// Selection. Idle sessions are dropped by Sweep so an unattended server does
// not accumulate state from abandoned browser tabs.
//
// Thread-safety: all methods are safe for concurrent use.
type Registry struct {
	engine  *Engine
	maxIdle time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock overrides the wall clock used for idle tracking.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates an empty registry. A non-positive maxIdle disables
// idle expiry.
func NewRegistry(e *Engine, maxIdle time.Duration, opts ...RegistryOption) *Registry {
	r := &Registry{
		engine:   e,
		maxIdle:  maxIdle,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the engine sessions are created from.
func (r *Registry) Engine() *Engine {
	return r.engine
}

// Create starts and registers a new session.
func (r *Registry) Create() *Session {
	s := r.engine.NewSession()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = &entry{session: s, lastSeen: r.now()}
	return s
}

// Get returns the session with the given ID and marks it as active.
// Returns an *InputError with ErrCodeUnknownSession if there is none.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, NewUnknownSessionError(id)
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Drop removes a session. Returns false if it did not exist.
func (r *Registry) Drop(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were dropped.
func (r *Registry) Sweep() int {
	if r.maxIdle <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.maxIdle)
	dropped := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		slog.Debug("idle sessions dropped", "count", dropped, "remaining", len(r.sessions))
	}
	return dropped
}
