package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-threes/internal/core"
	"github.com/vovakirdan/tui-threes/internal/games/threes"
	"github.com/vovakirdan/tui-threes/internal/storage"
)

var (
	flagJSON bool
	flagWipe bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved board of a cart",
	Long: `Print the board, pending card and scores saved on a cart without
changing anything.

Examples:
  threes show
  threes show --cart ssh:alice
  threes show --json`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a fresh board on a cart",
	Long: `Deal a fresh board and save it, keeping the cart's high score.
An unfinished board is recorded on the scoreboard first.

With --wipe the saved board and high score are erased instead, and
nothing is recorded. The scoreboard is left alone; see 'threes scores --clear'.`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

var moveCmd = &cobra.Command{
	Use:   "move <direction>...",
	Short: "Apply moves to a cart's board",
	Long: `Slide the saved board once per argument and save the result.
Directions are up, down, left, right or their first letters.

Examples:
  threes move left
  threes move l u u r --cart scratch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMove,
}

func init() {
	for _, c := range []*cobra.Command{showCmd, newCmd, moveCmd} {
		c.Flags().BoolVar(&flagJSON, "json", false, "Print the board as JSON")
	}
	newCmd.Flags().BoolVar(&flagWipe, "wipe", false, "Erase the saved board and high score first")
}

// cartGame is a game booted from the configured cart that saves back to it.
type cartGame struct {
	*threes.Game
	cart    *storage.Cart
	store   *storage.Store
	resumed bool // the cart held a saved board
}

func (c *cartGame) Close() error {
	return c.store.Close()
}

// openGame boots the configured cart. With wipe the cart's memory is erased
// first, so the game boots as if the cart had never been played.
func openGame(wipe bool) (*cartGame, error) {
	policy, err := cfg.SavePolicy()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	cart := store.Cart(cfg.Storage.Cart)

	if wipe {
		if err := store.ClearMemory(cart.Name()); err != nil {
			store.Close()
			return nil, err
		}
	}

	mem, err := cart.Load()
	if err != nil {
		store.Close()
		return nil, err
	}

	g := threes.New(threes.Config{Persister: cart, Policy: policy, Memory: mem})
	rc := core.DefaultConfig()
	rc.Seed = cfg.Seed()
	if err := g.Reset(rc); err != nil {
		store.Close()
		return nil, err
	}
	return &cartGame{Game: g, cart: cart, store: store, resumed: !mem.IsZero()}, nil
}

func runShow(cmd *cobra.Command, _ []string) error {
	g, err := openGame(false)
	if err != nil {
		return err
	}
	defer g.Close()

	out := cmd.OutOrStdout()
	if err := printGame(out, g.Game); err != nil {
		return err
	}
	if flagJSON {
		return nil
	}

	record, err := g.cart.HighScore()
	if err != nil {
		return err
	}
	if record > 0 {
		fmt.Fprintf(out, "Best recorded run: %d\n", record)
	}
	return nil
}

func runNew(cmd *cobra.Command, _ []string) error {
	g, err := openGame(flagWipe)
	if err != nil {
		return err
	}
	defer g.Close()

	if snap := g.Snapshot(); g.resumed && snap.Score > 0 {
		if err := g.cart.RecordScore(snap.Score, snap.MaxTile); err != nil {
			return err
		}
	}
	if err := g.Session().Restart(); err != nil {
		return err
	}
	return printGame(cmd.OutOrStdout(), g.Game)
}

func runMove(cmd *cobra.Command, args []string) error {
	dirs := make([]threes.Direction, 0, len(args))
	for _, a := range args {
		d, err := threes.ParseDirection(a)
		if err != nil {
			return err
		}
		dirs = append(dirs, d)
	}

	g, err := openGame(false)
	if err != nil {
		return err
	}
	defer g.Close()

	out := cmd.OutOrStdout()
	for _, d := range dirs {
		res, err := g.Session().RequestMove(d)
		if err != nil {
			return err
		}
		if !flagJSON && !res.Moved {
			fmt.Fprintf(out, "%s: no change\n", d)
		}
	}
	if err := g.Persist(); err != nil {
		return err
	}
	return printGame(out, g.Game)
}

// printGame writes the rendered board, or its snapshot as JSON.
func printGame(w io.Writer, g *threes.Game) error {
	snap := g.Snapshot()
	if flagJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	screen := core.NewScreen(40, 16)
	g.Render(screen)
	for y := range screen.Height() {
		fmt.Fprintln(w, strings.TrimRight(screen.Row(y), " "))
	}
	if !snap.CanMove {
		fmt.Fprintln(w, "No moves left. Run 'threes new' for a fresh board.")
	}
	return nil
}
