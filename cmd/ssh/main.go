package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/arcade/internal/config"
	"github.com/tomz197/arcade/internal/draw"
	"github.com/tomz197/arcade/internal/loop/client"
	"github.com/tomz197/arcade/internal/loop/server"
)

func main() {
	configDir := flag.String("config", ".", "directory containing an arcade.* config file")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		log.Fatal("failed to create logger", "err", err)
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("Failed to get working directory", "err", workErr)
	}
	logger.Info("SSH config",
		"host", cfg.SSH.Host, "port", cfg.SSH.Port,
		"hostKeyPath", cfg.SSH.HostKeyPath, "maxSessions", cfg.SSH.MaxSessions,
		"workingDir", workingDir)

	metrics, err := server.NewMetrics()
	if err != nil {
		logger.Fatal("failed to create metrics", "err", err)
	}

	// Every SSH connection gets its own game session from the manager
	ctx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()
	manager := server.NewManager(cfg.SSH.MaxSessions, cfg.Seed, logger, metrics)

	h := &sessionHandler{
		ctx:     ctx,
		manager: manager,
		logger:  logger,
		clientOpts: client.ClientOptions{
			InactivityWarn:       cfg.Inactivity.Warn,
			InactivityDisconnect: cfg.Inactivity.Disconnect,
		},
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			h.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify players and wait for them to disconnect
	logger.Info("Notifying connected players about shutdown...", "sessions", manager.Count())
	manager.Shutdown(cfg.SSH.ShutdownTimeout)
	cancelSessions()
	logger.Info("Game sessions stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// sessionHandler runs one game per SSH session.
type sessionHandler struct {
	ctx        context.Context
	manager    *server.Manager
	logger     *log.Logger
	clientOpts client.ClientOptions
}

func (h *sessionHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		handle, err := h.manager.Open(h.ctx)
		if errors.Is(err, server.ErrTooManySessions) {
			fmt.Fprintln(sess, "The arcade is full right now. Please try again in a few minutes.")
			h.logger.Warn("Rejected session, server full", "user", sess.User())
			return
		} else if err != nil {
			h.logger.Error("Failed to open session", "user", sess.User(), "err", err)
			return
		}
		defer handle.Close()

		logger := h.logger.With("session", handle.ID, "user", sess.User())
		logger.Info("New game session", "terminal", pty.Term,
			"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		opts := h.clientOpts
		opts.TermSizeFunc = sizeTracker.getSize

		c := client.NewClient(handle.Server, bufio.NewReader(sess), sess, opts)
		if err := c.Run(); err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended", "score", handle.Server.GetSnapshot().Score)
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
