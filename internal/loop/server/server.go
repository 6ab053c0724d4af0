package server

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/arcade/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples the Client from the concrete Server implementation, enabling
// testing with a fake.
type GameServer interface {
	Start()
	SetPointer(x, areaWidth float64)
	Shoot()
	Restart()
	GetSnapshot() *Snapshot
	Events() <-chan ClientEvent
}

// Server owns one Session and serializes everything that touches it: timer
// ticks and client commands are handled by the single goroutine in Run.
// The session clock only runs once Start has been called, so a client can
// show its title screen without the game playing out behind it.
type Server struct {
	session  *Session
	started  bool
	snapshot atomic.Pointer[Snapshot]
	inbox    chan any
	events   chan ClientEvent
	logger   *log.Logger
	metrics  *Metrics
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type  ClientEventType
	Score int // Final score for EventGameOver
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventGameOver ClientEventType = iota
	EventServerShutdown
)

// Commands accepted on the inbox.
type (
	startCmd   struct{}
	pointerCmd struct{ x, areaWidth float64 }
	shootCmd   struct{}
	restartCmd struct{}
)

// Options configures a Server.
type Options struct {
	Rand    Rand        // Spawn randomness; nil picks a clock-seeded source
	Logger  *log.Logger // nil discards logs
	Metrics *Metrics    // nil disables metrics
}

// NewServer creates a server with a fresh running session.
func NewServer(opts Options) *Server {
	s := &Server{
		inbox:   make(chan any, 64),
		events:  make(chan ClientEvent, 16),
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = NewRand(0)
	}
	s.session = NewSession(rng, s.handleSessionEvent)
	s.snapshot.Store(s.session.Snapshot())
	return s
}

// Run advances the session against the wall clock and applies client
// commands. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.ServerTickTime)
	defer ticker.Stop()

	s.logger.Debug("session started")
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("session stopped", "score", s.session.Score())
			return
		case now := <-ticker.C:
			if s.started {
				s.session.Advance(now.Sub(last))
			}
			last = now
		case cmd := <-s.inbox:
			s.handleCommand(cmd)
		}
		s.snapshot.Store(s.session.Snapshot())
	}
}

func (s *Server) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case startCmd:
		if !s.started {
			s.started = true
			s.logger.Info("game started")
		}
	case pointerCmd:
		s.session.SetAreaWidth(c.areaWidth)
		s.session.SetPointerPosition(c.x)
	case shootCmd:
		s.session.RequestShoot()
	case restartCmd:
		s.session.Restart()
	}
}

func (s *Server) handleSessionEvent(ev SessionEvent) {
	switch ev.Kind {
	case SessionOver:
		s.logger.Info("game over", "score", ev.Score, "at", ev.At)
		s.notify(ClientEvent{Type: EventGameOver, Score: ev.Score})
	case SessionRestarted:
		s.logger.Info("restart", "restarts", s.session.restarts)
	default:
		s.logger.Debug(ev.Kind.String(), "enemy", ev.Enemy, "powerup", ev.PowerUp, "score", ev.Score)
	}
	s.metrics.record(ev)
}

// notify delivers an event without blocking the session loop.
func (s *Server) notify(ev ClientEvent) {
	select {
	case s.events <- ev:
	default:
	}
}

// NotifyShutdown tells the client that the host is going away.
func (s *Server) NotifyShutdown() {
	s.notify(ClientEvent{Type: EventServerShutdown})
}

func (s *Server) send(cmd any) {
	select {
	case s.inbox <- cmd:
	default:
		// Inbox full, drop input
	}
}

// Start begins advancing the session clock.
func (s *Server) Start() {
	s.send(startCmd{})
}

// SetPointer moves the player to pointer position x within an area of the
// given width, both in the same units.
func (s *Server) SetPointer(x, areaWidth float64) {
	s.send(pointerCmd{x: x, areaWidth: areaWidth})
}

// Shoot requests a shot.
func (s *Server) Shoot() {
	s.send(shootCmd{})
}

// Restart starts a new game if the current one is over.
func (s *Server) Restart() {
	s.send(restartCmd{})
}

// GetSnapshot returns the latest published snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// Events returns the channel of events for the client.
func (s *Server) Events() <-chan ClientEvent {
	return s.events
}
