package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-threes/internal/platform/tui"
	"github.com/vovakirdan/tui-threes/internal/storage"
)

var (
	flagScoresTUI   bool
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [cart]",
	Short: "Show high scores",
	Long: `Display the top scores recorded on a cart (default: the configured cart).

Examples:
  threes scores
  threes scores ssh:alice
  threes scores --tui
  threes scores weekend --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse every cart interactively")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to print")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the cart's scores")
}

func runScores(cmd *cobra.Command, args []string) error {
	cart := cfg.Storage.Cart
	if len(args) == 1 {
		cart = args[0]
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, cart, width, height)
	}

	if flagScoresClear {
		if err := store.ClearScores(cart); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared scores for %s\n", cart)
		return nil
	}

	scores, err := store.TopScores(cart, flagScoresLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "High Scores - %s\n\n", cart)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'threes play --cart %s' to set the first one!\n", cart)
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-10s  %-6s  %s\n", "Rank", "Score", "Tile", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %-6s  %s\n", "----", "-----", "----", "----")
	for i, e := range scores {
		fmt.Fprintf(out, "  %-4d  %-10d  %-6d  %s\n", i+1, e.Score, e.BestTile, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
