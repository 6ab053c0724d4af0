package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrTooManySessions is returned by Open when the manager is full.
var ErrTooManySessions = errors.New("too many game sessions")

// Manager tracks the sessions of a multi-user host (one per SSH
// connection) so they can be capped and drained on shutdown.
type Manager struct {
	mu       sync.Mutex
	sessions map[int]*Handle
	nextID   int
	max      int // 0 means unlimited
	seed     int64
	logger   *log.Logger
	metrics  *Metrics
}

// Handle is an open session. Close it when the client disconnects.
type Handle struct {
	ID     int
	Server *Server

	cancel  context.CancelFunc
	done    chan struct{}
	manager *Manager
}

// NewManager creates a manager. A non-zero seed makes the n-th session use
// seed+n, so runs are reproducible.
func NewManager(maxSessions int, seed int64, logger *log.Logger, metrics *Metrics) *Manager {
	return &Manager{
		sessions: make(map[int]*Handle),
		nextID:   1,
		max:      maxSessions,
		seed:     seed,
		logger:   logger,
		metrics:  metrics,
	}
}

// Open starts a new session whose loop runs until ctx is cancelled or the
// handle is closed.
func (m *Manager) Open(ctx context.Context) (*Handle, error) {
	m.mu.Lock()
	if m.max > 0 && len(m.sessions) >= m.max {
		m.mu.Unlock()
		return nil, ErrTooManySessions
	}
	id := m.nextID
	m.nextID++

	var rng Rand
	if m.seed != 0 {
		rng = NewRand(m.seed + int64(id))
	}
	logger := m.logger
	if logger != nil {
		logger = logger.With("session", id)
	}
	srv := NewServer(Options{Rand: rng, Logger: logger, Metrics: m.metrics})

	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{ID: id, Server: srv, cancel: cancel, done: make(chan struct{}), manager: m}
	m.sessions[id] = h
	m.mu.Unlock()

	m.metrics.sessionOpened()
	go func() {
		defer close(h.done)
		srv.Run(runCtx)
	}()
	return h, nil
}

// Close stops the session loop and removes the session from the manager.
// Safe to call more than once.
func (h *Handle) Close() {
	h.cancel()
	<-h.done

	m := h.manager
	m.mu.Lock()
	_, ok := m.sessions[h.ID]
	delete(m.sessions, h.ID)
	m.mu.Unlock()
	if ok {
		m.metrics.sessionClosed()
	}
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown notifies every open session that the server is going away and
// waits for their clients to disconnect, up to the given timeout.
// The caller should cancel the sessions' context after Shutdown returns.
func (m *Manager) Shutdown(timeout time.Duration) {
	m.mu.Lock()
	for _, h := range m.sessions {
		h.Server.NotifyShutdown()
	}
	m.mu.Unlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if m.Count() == 0 {
				return
			}
		}
	}
}
