// threes is a terminal Threes game with SSH and WebSocket play.
//
// Usage:
//
//	threes play              - Play in the terminal
//	threes serve             - Serve the game over SSH and WebSocket
//	threes scores [cart]     - Show high scores
//	threes show              - Print the saved board of a cart
//	threes new               - Start a fresh board on a cart
//	threes move <dirs...>    - Apply moves to a cart's board
//
// Global flags:
//
//	--config <path>    - Config file (default search: ~/.threes/config.yaml, ./configs/threes.yaml)
//	--db <path>        - Database path
//	--cart <name>      - Cart holding the saved game
//	--seed <value>     - RNG seed for reproducible games
//	--fps <rate>       - Tick rate
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-threes/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagCart     string
	flagSeed     int64
	flagFPS      int
	flagLogLevel string

	// cfg is loaded before any subcommand runs
	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "threes",
	Short: "Threes - slide and merge numbered cards in your terminal",
	Long: `Threes is a sliding card puzzle on a 4x4 board.

Ones and twos merge into threes; from there equal cards merge.
Every move that changes the board brings in the pending card on the
opposite wall. The game ends when no move changes the board.

Available commands:
  play     - Play in the terminal
  serve    - Start SSH and WebSocket servers
  scores   - View high scores
  show     - Print the saved board of a cart
  new      - Start a fresh board
  move     - Apply moves from the command line

Examples:
  threes play
  threes play --cart work
  threes serve --ssh :2222 --ws :8080
  threes move left up up --cart work`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagCart, "cart", "", "Cart holding the saved game (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(moveCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		loaded.Storage.DBPath = flagDBPath
	}
	if flags.Changed("cart") {
		loaded.Storage.Cart = flagCart
	}
	if flags.Changed("seed") {
		loaded.Game.Seed = flagSeed
	}
	if flags.Changed("fps") {
		loaded.Game.TickRate = flagFPS
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = flagLogLevel
	}

	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	return nil
}
