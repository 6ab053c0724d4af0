package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/arcade/internal/config"
	"github.com/tomz197/arcade/internal/desktop"
	"github.com/tomz197/arcade/internal/loop/server"
)

func main() {
	configDir := flag.String("config", ".", "directory containing an arcade.* config file")
	seed := flag.Int64("seed", 0, "spawn seed, overrides the config value when non-zero")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		log.Fatal("failed to create logger", "err", err)
	}

	game := desktop.NewGame(desktop.Options{
		Width:  cfg.Desktop.Width,
		Height: cfg.Desktop.Height,
		Rand:   server.NewRand(cfg.Seed),
		Logger: logger,
	})

	ebiten.SetWindowSize(cfg.Desktop.Width, cfg.Desktop.Height)
	ebiten.SetWindowTitle("Arcade")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	logger.Info("Starting desktop game", "width", cfg.Desktop.Width, "height", cfg.Desktop.Height)
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game error", "err", err)
	}
}
