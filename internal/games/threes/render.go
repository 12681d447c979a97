package threes

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-threes/internal/core"
)

const (
	cardWidth  = 7 // Width of each card including its border
	cardHeight = 3 // Height of each card including its border

	boardW    = GridSize * cardWidth
	boardH    = GridSize * cardHeight
	hudHeight = 3

	minScreenW = boardW + 4
	minScreenH = hudHeight + boardH + 1
)

// CardColor returns the color a card value is drawn in.
func CardColor(v int) core.Color {
	switch v {
	case 0:
		return core.ColorGray
	case 1:
		return core.ColorBrightBlue
	case 2:
		return core.ColorBrightRed
	default:
		return core.ColorBrightWhite
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.session == nil {
		return
	}

	area := dst.Bounds().Centered(boardW, hudHeight+boardH)
	board := core.NewRect(area.X, area.Y+hudHeight, boardW, boardH)
	board.X = core.Clamp(board.X, 0, dst.Width()-boardW)

	// Rejected moves jitter the board sideways.
	if g.shake > 0 {
		board.X += []int{-1, 1}[g.shake%2]
	}

	g.renderHUD(dst, area)
	g.renderBoard(dst, board)
	g.renderOverlays(dst, board)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

// renderHUD draws score, pending card and best score above the board.
func (g *Game) renderHUD(dst *core.Screen, area core.Rect) {
	title := "THREES"
	dst.DrawText(area.X+(area.W-len(title))/2, area.Y, title)

	score := fmt.Sprintf("Score %d", g.session.Score())
	dst.DrawText(area.X, area.Y+1, score)

	best := fmt.Sprintf("Best %d", g.session.HighScore())
	dst.DrawText(area.Right()-len(best), area.Y+1, best)

	next := g.session.PendingNext()
	label := "Next "
	card := "[" + strconv.Itoa(next) + "]"
	x := area.X + (area.W-len(label)-len(card))/2
	dst.DrawText(x, area.Y+1, label)
	dst.DrawTextColored(x+len(label), area.Y+1, card, CardColor(next))
}

// renderBoard draws every card as a small box with its value centered.
func (g *Game) renderBoard(dst *core.Screen, board core.Rect) {
	grid := g.session.Grid()
	for y := range GridSize {
		for x := range GridSize {
			v := grid[y][x]
			r := core.NewRect(board.X+x*cardWidth, board.Y+y*cardHeight, cardWidth, cardHeight)
			color := CardColor(v)
			dst.DrawBox(r, color)

			if v == 0 {
				continue
			}
			label := strconv.Itoa(v)
			lx := r.X + (r.W-len(label))/2
			dst.DrawTextColored(lx, r.Y+1, label, color)
		}
	}

	// Mark where the last card came in
	if g.lastMove.Spawned {
		c := g.lastMove.SpawnCell
		dst.SetColored(board.X+c.X*cardWidth+1, board.Y+c.Y*cardHeight+1, '*', core.ColorYellow)
	}
}

// renderOverlays draws pause and game over messages over the board.
func (g *Game) renderOverlays(dst *core.Screen, board core.Rect) {
	var msg string
	switch {
	case g.paused:
		msg = " PAUSED "
	case !g.session.CanMove():
		msg = " NO MOVES - R TO RESTART "
	default:
		return
	}

	y := board.Y + board.H/2
	x := board.X + (board.W-len(msg))/2
	dst.DrawTextColored(x, y, msg, core.ColorYellow)
}
