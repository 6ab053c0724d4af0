package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/arcade/internal/config"
	"github.com/tomz197/arcade/internal/loop"
)

func main() {
	configDir := flag.String("config", ".", "directory containing an arcade.* config file")
	logPath := flag.String("log", "", "write logs to this file (stderr is the game screen)")
	seed := flag.Int64("seed", 0, "spawn seed, overrides the config value when non-zero")
	flag.Parse()

	if err := run(*configDir, *logPath, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, logPath string, seed int64) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := cfg.NewLogger(logOut)
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	logger.Info("Starting local game", "seed", cfg.Seed)
	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{
		Seed:   cfg.Seed,
		Logger: logger,
	})
	logger.Info("Local game ended", "err", err)
	return err
}
