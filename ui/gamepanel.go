package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termchess-local/clock"
	"termchess-local/config"
	"termchess-local/engine"
	"termchess-local/ledger"
	"termchess-local/msgcat"
	"termchess-local/types"
)

// panelWidth is the fixed width of the side panel.
const panelWidth = 30

// GameInfoPanel displays the clocks and move history alongside the board.
type GameInfoPanel struct {
	box        *tview.TextView
	cfg        *config.Config
	cat        *msgcat.Catalog
	maxVisible int
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel(cfg *config.Config, cat *msgcat.Catalog) *GameInfoPanel {
	panel := &GameInfoPanel{
		box:        tview.NewTextView(),
		cfg:        cfg,
		cat:        cat,
		maxVisible: 12,
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

func (p *GameInfoPanel) SetConfig(c *config.Config) {
	p.cfg = c
}

// SetSnapshot redraws the panel from snap.
func (p *GameInfoPanel) SetSnapshot(snap engine.Snapshot) {
	p.box.SetText(p.render(snap))
}

func (p *GameInfoPanel) render(snap engine.Snapshot) string {
	var b strings.Builder

	b.WriteString("[white::b]Clock[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	lowTime := tcell.PaletteColor(p.cfg.Theme.Colors.LowTime)
	for _, c := range []types.Color{types.White, types.Black} {
		b.WriteString(ClockLine(snap, c, lowTime))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "[white]Control:[-:-:-] %s\n", config.FormatTimeControl(snap.Config.BaseSeconds, snap.Config.IncrementSeconds))
	fmt.Fprintf(&b, "[white]Move:[-:-:-] %d\n", len(snap.Records)+1)
	if snap.Paused {
		b.WriteString("[yellow::b]PAUSED[-:-:-]\n")
	}

	b.WriteString("\n[white::b]Moves[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	lines := HistoryLines(p.cat, snap.Records, p.maxVisible)
	for i, line := range lines {
		switch {
		case len(snap.Records) == 0:
			fmt.Fprintf(&b, "[dimgray]  %s[-]\n", line)
		case i == len(lines)-1:
			fmt.Fprintf(&b, "[white]>[-] %s\n", tview.Escape(line))
		case strings.HasPrefix(line, "···"):
			fmt.Fprintf(&b, "[dimgray]  %s[-]\n", line)
		default:
			fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
		}
	}
	return b.String()
}

// ClockLine renders one side's clock. The side to move is marked and bold;
// a clock at or below the low-time threshold is drawn in lowTime.
func ClockLine(snap engine.Snapshot, c types.Color, lowTime tcell.Color) string {
	secs := snap.Clocks[c]
	name := c.String()
	if c == types.White && snap.Config.WhiteName != "" {
		name = snap.Config.WhiteName
	} else if c == types.Black && snap.Config.BlackName != "" {
		name = snap.Config.BlackName
	}

	marker := " "
	attrs := "-"
	if snap.Active == c && snap.Status != engine.Terminated {
		marker = "▸"
		attrs = "b"
	}
	color := "white"
	if clock.LevelOf(secs) != clock.Normal {
		color = fmt.Sprintf("#%06x", lowTime.Hex())
	}
	return fmt.Sprintf("%s %-12s [%s::%s]%6s[-:-:-]", marker, tview.Escape(name), color, attrs, clock.Format(secs))
}

// HistoryLines renders the newest maxVisible records, oldest first, with a
// "··· N earlier" line on top when older records are hidden.
func HistoryLines(cat *msgcat.Catalog, records []ledger.MoveRecord, maxVisible int) []string {
	if len(records) == 0 {
		return []string{cat.Text("history.empty", nil)}
	}
	start := 0
	if maxVisible > 0 && len(records) > maxVisible {
		start = len(records) - maxVisible
	}

	var lines []string
	if start > 0 {
		lines = append(lines, cat.Text("history.earlier", map[string]any{"Count": start}))
	}
	for _, r := range records[start:] {
		lines = append(lines, cat.Text("history.entry", map[string]any{
			"Ordinal":  r.Ordinal,
			"Notation": r.Notation,
			"Elapsed":  clock.Format(r.ElapsedSeconds),
		}))
	}
	return lines
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *ChessBoardUI, hint *tview.TextView) *tview.Flex {
	mainFlex := tview.NewFlex()
	RebuildNormalLayout(mainFlex, board, hint)
	return mainFlex
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *ChessBoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	if board.infoPanel == nil {
		board.infoPanel = NewGameInfoPanel(board.cfg, board.cat)
	}
	if snap, ok := board.Snapshot(); ok {
		board.infoPanel.SetSnapshot(snap)
	}

	// Board (flexible) | info panel (fixed width)
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(board.infoPanel.Box(), panelWidth, 0, false)

	// Status bar: border plus message and controls
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 4, 0, false)
	board.refreshHint()
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *ChessBoardUI) {
	gameFrame.Clear()

	boardWidth := 8*cellWidth + rankMargin
	boardHeight := 9

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardWidth, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}
