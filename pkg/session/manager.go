package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/media"
	"github.com/matzehuels/reelstack/pkg/project"
)

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the idle lifetime of sessions.
func WithTTL(d time.Duration) Option { return func(m *Manager) { m.ttl = d } }

// WithLogger sets the logger passed to sessions and their compositors.
func WithLogger(l *log.Logger) Option { return func(m *Manager) { m.logger = l } }

// WithCompositorOptions adds options to every session's compositor.
func WithCompositorOptions(opts ...compositor.Option) Option {
	return func(m *Manager) { m.compOpts = append(m.compOpts, opts...) }
}

// WithMediaOptions configures the media elements sessions create.
func WithMediaOptions(opts ...media.ElementOption) Option {
	return func(m *Manager) { m.mediaOpts = append(m.mediaOpts, opts...) }
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store     project.Store
	ttl       time.Duration
	logger    *log.Logger
	compOpts  []compositor.Option
	mediaOpts []media.ElementOption
}

// NewManager creates a manager over store.
func NewManager(store project.Store, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		ttl:      DefaultTTL,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open starts a session on an existing project and renders its first
// frame.
func (m *Manager) Open(ctx context.Context, projectID string) (*Session, error) {
	if _, err := m.store.Get(ctx, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	lib := media.NewLibrary(m.mediaOpts...)
	window := drag.NewWindow()
	applier := project.NewApplier()
	opts := append([]compositor.Option{
		compositor.WithLogger(m.logger),
		compositor.WithMedia(lib),
	}, m.compOpts...)

	s := &Session{
		ID:        NewID(),
		ProjectID: projectID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		store:     m.store,
		logger:    m.logger,
		window:    window,
		applier:   applier,
		media:     lib,
		comp:      compositor.New(window, applier, opts...),
	}
	if _, err := s.Frame(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.logger.Debug("session opened", "session", s.ID, "project", projectID)
	return s, nil
}

// Get returns a live session and extends its lifetime.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok || s.IsExpired() {
		if ok {
			m.Close(id)
		}
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	s.touch(m.ttl)
	return s, nil
}

// Close ends and forgets a session. Closing an unknown session is a no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
		m.logger.Debug("session closed", "session", id)
	}
}

// Cleanup closes expired sessions and returns how many were removed.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.IsExpired() {
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()
	for _, id := range expired {
		m.Close(id)
	}
	return len(expired)
}

// Run calls Cleanup every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Cleanup(); n > 0 {
				m.logger.Info("expired sessions", "count", n)
			}
		}
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CloseAll ends every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Close(id)
	}
}
