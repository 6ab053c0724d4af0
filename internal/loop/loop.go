// Package loop wires a game server and a terminal client together for
// single-player play on a local terminal.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/arcade/internal/draw"
	"github.com/tomz197/arcade/internal/loop/client"
	"github.com/tomz197/arcade/internal/loop/server"
)

// Options configures a local game.
type Options struct {
	Seed         int64 // 0 picks a seed from the clock
	Logger       *log.Logger
	Metrics      *server.Metrics
	TermSizeFunc draw.TermSizeFunc
}

// Run plays one local game on the given terminal streams. It starts the
// server loop, runs the client until the player quits, then stops the
// server. Cancelling ctx shows the shutdown screen before the client exits.
// The reader should come from a terminal in raw mode.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	srv := server.NewServer(server.Options{
		Rand:    server.NewRand(opts.Seed),
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Run(runCtx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	go func() {
		select {
		case <-ctx.Done():
			srv.NotifyShutdown()
		case <-runCtx.Done():
		}
	}()

	c := client.NewClient(srv, r, w, client.ClientOptions{TermSizeFunc: opts.TermSizeFunc})
	return c.Run()
}
