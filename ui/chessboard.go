// Package ui specifies custom controls for tview to play chess in the terminal.
package ui

import (
	"errors"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termchess-local/config"
	"termchess-local/engine"
	"termchess-local/msgcat"
	"termchess-local/rules"
	"termchess-local/types"
)

// cellWidth is the number of terminal columns per square.
const cellWidth = 3

// rankMargin is the space left of the board for rank labels.
const rankMargin = 3

// Style slots, indexes into ChessBoardUI.styles.
const (
	styleLight = iota
	styleDark
	styleWhitePiece
	styleBlackPiece
	styleCursorFG
	styleCursorBG
	styleSelected
	styleQuiet
	styleCapture
	styleLastMove
	styleLowTime
)

type ChessBoardUI struct {
	Box       *tview.Box
	hint      *tview.TextView
	cfg       *config.Config
	cat       *msgcat.Catalog
	app       *tview.Application
	eng       engine.GameEngine
	styles    []tcell.Color
	infoPanel *GameInfoPanel
	focusMode bool

	onMove func(engine.MoveResult, engine.Snapshot)
	onEnd  func(engine.Reason, engine.Snapshot)

	mu      sync.Mutex
	snap    engine.Snapshot
	hasSnap bool
	message string
	cursor  types.Square
}

func NewChessBoard(app *tview.Application, c *config.Config, cat *msgcat.Catalog, hint *tview.TextView) *ChessBoardUI {
	board := &ChessBoardUI{
		Box:    tview.NewBox(),
		hint:   hint,
		cat:    cat,
		app:    app,
		cursor: types.Square{Row: 6, Col: 4},
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(board.draw)
	return board
}

// SetHooks registers extra handlers that run after the board has processed
// a move or the end of the game.
func (g *ChessBoardUI) SetHooks(onMove func(engine.MoveResult, engine.Snapshot), onEnd func(engine.Reason, engine.Snapshot)) {
	g.onMove = onMove
	g.onEnd = onEnd
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *ChessBoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *ChessBoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

func (g *ChessBoardUI) IsFocusMode() bool {
	return g.focusMode
}

// Cursor returns the square under the keyboard cursor.
func (g *ChessBoardUI) Cursor() types.Square {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cursor
}

// MoveCursor shifts the cursor by dc columns and dr rows, staying on the board.
func (g *ChessBoardUI) MoveCursor(dc, dr int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := types.Square{Row: g.cursor.Row + dr, Col: g.cursor.Col + dc}
	if next.Valid() {
		g.cursor = next
	}
}

// ConnectEngine connects the board to a game engine.
func (g *ChessBoardUI) ConnectEngine(e engine.GameEngine) error {
	g.eng = e

	e.OnMove(func(res engine.MoveResult, snap engine.Snapshot) {
		g.update(snap, g.cat.Text("status.moved", map[string]any{
			"Notation": res.Record.Notation,
			"Player":   snap.Active.String(),
		}))
		if g.onMove != nil {
			g.onMove(res, snap)
		}
	})

	e.OnGameEnd(func(reason engine.Reason, snap engine.Snapshot) {
		g.update(snap, EndMessage(g.cat, reason))
		if g.onEnd != nil {
			g.onEnd(reason, snap)
		}
	})

	e.OnTick(func(snap engine.Snapshot) {
		g.mu.Lock()
		changed := !g.hasSnap || g.snap.Clocks != snap.Clocks
		g.snap = snap
		g.hasSnap = true
		g.mu.Unlock()
		if changed {
			g.redraw(false)
		}
	})

	if err := e.Connect(); err != nil {
		return err
	}

	g.mu.Lock()
	g.cursor = types.Square{Row: 6, Col: 4}
	g.mu.Unlock()
	g.update(e.Snapshot(), g.cat.Text("status.ready", nil))
	return nil
}

// update stores a new snapshot and status line and schedules a redraw.
func (g *ChessBoardUI) update(snap engine.Snapshot, message string) {
	g.mu.Lock()
	g.snap = snap
	g.hasSnap = true
	if message != "" {
		g.message = message
	}
	g.mu.Unlock()
	g.redraw(true)
}

func (g *ChessBoardUI) redraw(withHint bool) {
	if withHint {
		g.refreshHint()
	}
	g.mu.Lock()
	snap := g.snap
	g.mu.Unlock()
	if g.infoPanel != nil {
		g.infoPanel.SetSnapshot(snap)
	}
	if g.app == nil {
		return
	}
	// Spawn goroutine to avoid deadlock when called from the main thread
	go func() {
		g.app.QueueUpdateDraw(func() {})
	}()
}

// Activate clicks the square under the cursor.
func (g *ChessBoardUI) Activate() {
	if g.eng == nil {
		return
	}
	sq := g.Cursor()
	res, err := g.eng.Click(sq)
	snap := g.eng.Snapshot()
	if res.Moved {
		// OnMove already set the status line.
		return
	}
	g.update(snap, ClickMessage(g.cat, snap, res, err))
}

// TogglePause pauses or resumes the clock.
func (g *ChessBoardUI) TogglePause() {
	if g.eng == nil {
		return
	}
	snap := g.eng.Snapshot()
	if snap.Status == engine.Terminated {
		return
	}
	paused := g.eng.TogglePause()
	snap = g.eng.Snapshot()
	if paused {
		g.update(snap, g.cat.Text("status.paused", nil))
	} else {
		g.update(snap, g.cat.Text("status.resumed", map[string]any{"Player": snap.Active.String()}))
	}
}

// SetMessage replaces the status line.
func (g *ChessBoardUI) SetMessage(msg string) {
	g.mu.Lock()
	g.message = msg
	g.mu.Unlock()
	g.redraw(true)
}

// Snapshot returns the state last received from the engine.
func (g *ChessBoardUI) Snapshot() (engine.Snapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap, g.hasSnap
}

// IsFinished returns true if the game is over.
func (g *ChessBoardUI) IsFinished() bool {
	snap, ok := g.Snapshot()
	return ok && snap.Status == engine.Terminated
}

// Close disconnects the engine.
func (g *ChessBoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.Close()
	g.eng = nil
}

func (g *ChessBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.LightSquare),   // styleLight
		tcell.PaletteColor(c.Theme.Colors.DarkSquare),    // styleDark
		tcell.PaletteColor(c.Theme.Colors.WhitePiece),    // styleWhitePiece
		tcell.PaletteColor(c.Theme.Colors.BlackPiece),    // styleBlackPiece
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG), // styleCursorFG
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG), // styleCursorBG
		tcell.PaletteColor(c.Theme.Colors.SelectedBG),    // styleSelected
		tcell.PaletteColor(c.Theme.Colors.QuietBG),       // styleQuiet
		tcell.PaletteColor(c.Theme.Colors.CaptureBG),     // styleCapture
		tcell.PaletteColor(c.Theme.Colors.LastMoveBG),    // styleLastMove
		tcell.PaletteColor(c.Theme.Colors.LowTime),       // styleLowTime
	}
	g.cfg = c
	if g.infoPanel != nil {
		g.infoPanel.SetConfig(c)
	}
}

func (g *ChessBoardUI) refreshHint() {
	if g.hint == nil {
		return
	}
	if g.focusMode {
		g.hint.SetText("  " + g.cat.Text("hint.focus", nil))
		return
	}
	g.mu.Lock()
	msg := g.message
	g.mu.Unlock()

	controls := g.cat.Text("hint.board", nil)
	if g.IsFinished() {
		controls = g.cat.Text("hint.over", nil)
	}
	g.hint.SetText("  " + msg + "\n  " + controls)
}

// ClickMessage returns the status line after a click that did not move.
func ClickMessage(cat *msgcat.Catalog, snap engine.Snapshot, res engine.ClickResult, err error) string {
	switch {
	case errors.Is(err, engine.ErrIllegalMove):
		return cat.Text("status.invalid_move", nil)
	case errors.Is(err, engine.ErrPaused) || snap.Paused:
		return cat.Text("status.paused", nil)
	case errors.Is(err, engine.ErrGameOver) || snap.Status == engine.Terminated:
		return EndMessage(cat, snap.Reason)
	case err != nil:
		return cat.Text("dialog.error", map[string]any{"Message": err.Error()})
	}

	switch res.Selection {
	case engine.Selected, engine.Reselected:
		p, _ := snap.Board.At(snap.Selection)
		return cat.Text("status.selected", map[string]any{"Piece": capitalize(p.String())})
	case engine.Deselected:
		return cat.Text("status.to_move", map[string]any{"Player": snap.Active.String()})
	}
	return cat.Text("status.select_own", map[string]any{"Player": snap.Active.String()})
}

// EndMessage announces the winner of a finished game.
func EndMessage(cat *msgcat.Catalog, reason engine.Reason) string {
	if reason == engine.NoReason {
		return ""
	}
	return cat.Text("status.wins_on_time", map[string]any{"Winner": reason.Winner().String()})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// squareMarks indexes the highlighted destinations of a snapshot.
func squareMarks(snap engine.Snapshot) map[types.Square]rules.MoveClass {
	marks := make(map[types.Square]rules.MoveClass, len(snap.Destinations))
	for _, d := range snap.Destinations {
		marks[d.Square] = d.Class
	}
	return marks
}

func (g *ChessBoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	g.mu.Lock()
	snap, ok, cursor := g.snap, g.hasSnap, g.cursor
	g.mu.Unlock()
	if !ok {
		return x, y, 1, 1
	}

	theme := g.cfg.Theme
	marks := squareMarks(snap)
	last, hasLast := snap.LastMove()
	left := x + rankMargin

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := types.Square{Row: row, Col: col}
			bg := g.styles[styleLight]
			if (row+col)%2 == 1 {
				bg = g.styles[styleDark]
			}
			if hasLast && theme.DrawLastMoveBackground && (sq == last.From || sq == last.To) {
				bg = g.styles[styleLastMove]
			}

			lead, glyph, trail := ' ', ' ', ' '
			piece, occupied := snap.Board.At(sq)
			fg := g.styles[styleWhitePiece]
			if occupied {
				glyph = []rune(piece.Symbol())[0]
				if piece.Color == types.Black {
					fg = g.styles[styleBlackPiece]
				}
			}

			if class, marked := marks[sq]; marked {
				if class == rules.Capture {
					bg = g.styles[styleCapture]
					if theme.DrawMarkers {
						trail = theme.Symbols.CaptureMarker
					}
				} else {
					bg = g.styles[styleQuiet]
					if theme.DrawMarkers && !occupied {
						glyph = theme.Symbols.QuietMarker
						fg = g.styles[styleBlackPiece]
					}
				}
			}
			if snap.HasSelection && sq == snap.Selection {
				bg = g.styles[styleSelected]
			}
			if sq == cursor && snap.Status != engine.Terminated {
				if theme.DrawCursorBackground {
					bg = g.styles[styleCursorBG]
					if !occupied {
						fg = g.styles[styleCursorFG]
					}
				} else {
					lead, trail = '[', ']'
				}
			}

			style := tcell.StyleDefault.Background(bg).Foreground(fg)
			drawSquare(screen, style, lead, glyph, trail, left+col*cellWidth, y+row)
		}
	}
	if theme.ShowCoordinates {
		g.drawCoordinates(screen, x, y, cursor, snap)
	}
	return x, y, 8*cellWidth + rankMargin, 9
}

// drawSquare draws one square, cellWidth characters wide.
func drawSquare(s tcell.Screen, style tcell.Style, lead, glyph, trail rune, x, y int) {
	s.SetContent(x, y, lead, nil, style)
	s.SetContent(x+1, y, glyph, nil, style)
	s.SetContent(x+2, y, trail, nil, style)
}

func (g *ChessBoardUI) drawCoordinates(s tcell.Screen, x, y int, cursor types.Square, snap engine.Snapshot) {
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(g.styles[styleCursorBG])
	if snap.Status == engine.Terminated {
		highlight = style
	}

	for col := 0; col < 8; col++ {
		st := style
		if col == cursor.Col {
			st = highlight
		}
		cx := x + rankMargin + col*cellWidth
		s.SetContent(cx, y+8, ' ', nil, st)
		s.SetContent(cx+1, y+8, rune('a'+col), nil, st)
		s.SetContent(cx+2, y+8, ' ', nil, st)
	}

	for row := 0; row < 8; row++ {
		st := style
		if row == cursor.Row {
			st = highlight
		}
		s.SetContent(x+1, y+row, rune('8'-row), nil, st)
	}
}
