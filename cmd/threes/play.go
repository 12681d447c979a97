package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-threes/internal/core"
	"github.com/vovakirdan/tui-threes/internal/platform/tui"
	"github.com/vovakirdan/tui-threes/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start the game in the terminal, resuming the board saved on the cart.

Controls:
  Arrows/WASD/HJKL  - Slide the board
  R                 - Start a fresh board
  P/Esc             - Pause
  ?                 - Show all keys
  Q/Ctrl+C          - Save and quit

Examples:
  threes play
  threes play --cart weekend
  threes play --seed 42 --db ./threes.db`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	var logOut io.Writer = io.Discard
	if f, err := openLogFile(); err == nil {
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, "threes")

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	policy, err := cfg.SavePolicy()
	if err != nil {
		return err
	}

	opts := tui.Options{
		Policy:     policy,
		ShakeTicks: cfg.Game.ShakeTicks,
		Logger:     logger,
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		// The game still works, it just forgets everything on exit
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("playing without storage", "error", err)
	} else {
		defer store.Close()
		opts.Cart = store.Cart(cfg.Storage.Cart)
	}

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Game.TickRate,
		Seed:     cfg.Seed(),
	}
	logger.Info("starting game", "cart", cfg.Storage.Cart, "seed", rc.Seed, "policy", policy)

	return tui.Run(rc, opts)
}
