package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-threes/internal/platform/tui"
	"github.com/vovakirdan/tui-threes/internal/platform/ws"
	"github.com/vovakirdan/tui-threes/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagWSAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and WebSocket servers",
	Long: `Serve the game over SSH and WebSocket.

Each SSH user plays on their own cart ("ssh:<user>"), so a board
left mid-game is waiting at the next login. WebSocket clients pick
a cart with /play?cart=<name>; without one the session is not saved.
An empty address disables that listener.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.threes/host_key

Examples:
  threes serve                       # SSH on :2222, WebSocket on :8080
  threes serve --ssh :23234 --ws ""  # SSH only
  threes serve --idle-timeout 30m

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (overrides config)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (overrides config)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "WebSocket server address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if flags.Changed("ssh") {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flags.Changed("host-key") {
		cfg.Server.HostKey = flagHostKey
	}
	if flags.Changed("idle-timeout") {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	if flags.Changed("ws") {
		cfg.Server.WSAddr = flagWSAddr
	}
	if cfg.Server.SSHAddr == "" && cfg.Server.WSAddr == "" {
		return fmt.Errorf("nothing to serve: both --ssh and --ws are empty")
	}

	logger := newLogger(os.Stderr, "threes-server")

	policy, err := cfg.SavePolicy()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Server.SSHAddr != "" {
		sshCfg := tui.SSHServerConfig{
			Address:     cfg.Server.SSHAddr,
			HostKeyPath: cfg.Server.HostKey,
			IdleTimeout: cfg.Server.IdleTimeout,
			TickRate:    cfg.Game.TickRate,
			Policy:      policy,
			ShakeTicks:  cfg.Game.ShakeTicks,
		}
		sshServer, err := tui.NewSSHServer(sshCfg, store, logger.WithPrefix("ssh"))
		if err != nil {
			return err
		}
		g.Go(func() error { return sshServer.Serve(ctx) })
	}

	if cfg.Server.WSAddr != "" {
		wsServer := ws.NewServer(ws.Config{
			Address: cfg.Server.WSAddr,
			Policy:  policy,
			Seed:    cfg.Game.Seed,
		}, store, logger.WithPrefix("ws"))
		g.Go(func() error { return wsServer.Serve(ctx) })
	}

	logger.Info("press Ctrl+C to stop", "db", cfg.Storage.DBPath, "policy", policy)
	return g.Wait()
}
