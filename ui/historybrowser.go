package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termchess-local/msgcat"
	"termchess-local/record"
	"termchess-local/types"
)

// HistoryBrowserUI provides a screen for browsing saved PGN game records.
type HistoryBrowserUI struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	dir      string
	cat      *msgcat.Catalog
	games    []record.GameInfo
	boards   map[string]*types.Board // final positions by file path
	selected int
	onDone   func()
}

// NewHistoryBrowser creates a browser over the PGN files in dir.
func NewHistoryBrowser(dir string, cat *msgcat.Catalog, onDone func()) *HistoryBrowserUI {
	hb := &HistoryBrowserUI{
		dir:    dir,
		cat:    cat,
		onDone: onDone,
		boards: make(map[string]*types.Board),
	}

	hb.gameList = tview.NewList()
	hb.gameList.SetBorder(true)
	hb.gameList.SetTitle(" Game History ")
	hb.gameList.ShowSecondaryText(false)
	hb.gameList.SetHighlightFullLine(true)
	hb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetTitle(" Final Position ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetBorder(false)
	hb.hint.SetText("  [dimgray]" + cat.Text("hint.browser", nil) + "[-]")

	hb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
	})
	hb.gameList.SetInputCapture(hb.handleInput)

	// Layout: list left, preview right, hint bottom
	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.gameList, 44, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.loadGames()
	return hb
}

// Flex returns the flex container for this UI.
func (hb *HistoryBrowserUI) Flex() *tview.Flex {
	return hb.flex
}

// Refresh reloads the game list from disk.
func (hb *HistoryBrowserUI) Refresh() {
	hb.boards = make(map[string]*types.Board)
	hb.loadGames()
}

// Games returns the records currently listed.
func (hb *HistoryBrowserUI) Games() []record.GameInfo {
	return hb.games
}

func (hb *HistoryBrowserUI) loadGames() {
	hb.gameList.Clear()
	hb.games = nil
	hb.selected = 0

	games, err := record.ListGames(hb.dir)
	if err != nil || len(games) == 0 {
		hb.gameList.AddItem("[dimgray]"+hb.cat.Text("history.none", nil)+"[-]", "", 0, nil)
		return
	}

	hb.games = games
	for _, g := range games {
		hb.gameList.AddItem(tview.Escape(GameLabel(g)), "", 0, nil)
	}
}

// GameLabel is the list entry for a record: date, time control, result.
func GameLabel(g record.GameInfo) string {
	result := g.Result
	if result == "" || result == "*" {
		result = "..."
	}
	return fmt.Sprintf("%s %s  %-7s %s", g.Date, g.Time, g.TimeControl, result)
}

func (hb *HistoryBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if hb.onDone != nil {
			hb.onDone()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if hb.onDone != nil {
				hb.onDone()
			}
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		case 'j':
			return tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
		case 'k':
			return tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
		}
	}
	return event
}

func (hb *HistoryBrowserUI) deleteSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return
	}
	os.Remove(hb.games[hb.selected].FilePath)
	hb.Refresh()
}

// finalBoard replays a record once and caches the result.
func (hb *HistoryBrowserUI) finalBoard(g record.GameInfo) *types.Board {
	if b, ok := hb.boards[g.FilePath]; ok {
		return b
	}
	b, _, err := record.ReplayToEnd(g.FilePath)
	if err != nil {
		b = nil
	}
	hb.boards[g.FilePath] = b
	return b
}

// drawPreview renders a mini board of the final position and the game tags.
func (hb *HistoryBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return x, y, width, height
	}
	game := hb.games[hb.selected]
	board := hb.finalBoard(game)

	startX := x + 2
	startY := y + 1
	if width < 2*8+4 || height < 8+8 {
		return x, y, width, height
	}

	if board != nil {
		emptyStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
		whiteStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true)
		blackStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))

		for row := 0; row < 8; row++ {
			screen.SetContent(startX, startY+row, rune('8'-row), nil, emptyStyle)
			for col := 0; col < 8; col++ {
				ch, style := '·', emptyStyle
				if p, ok := board.At(types.Square{Row: row, Col: col}); ok {
					ch = []rune(p.Symbol())[0]
					style = whiteStyle
					if p.Color == types.Black {
						style = blackStyle
					}
				}
				screen.SetContent(startX+2+col*2, startY+row, ch, nil, style)
			}
		}
		for col := 0; col < 8; col++ {
			screen.SetContent(startX+2+col*2, startY+8, rune('a'+col), nil, emptyStyle)
		}
	}

	infoY := startY + 10
	infoStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))

	drawText(screen, startX, infoY, game.TimeControl, infoStyle)
	drawText(screen, startX+len(game.TimeControl)+1, infoY, fmt.Sprintf("| %d moves", game.MoveCount), dimStyle)
	infoY++
	drawText(screen, startX, infoY, "W: "+game.White, dimStyle)
	infoY++
	drawText(screen, startX, infoY, "B: "+game.Black, dimStyle)
	infoY++

	result := game.Result
	if result == "" || result == "*" {
		result = "Unfinished"
	} else if game.Termination != "" {
		result += " (" + game.Termination + ")"
	}
	drawText(screen, startX, infoY, "Result: "+result, tcell.StyleDefault.Foreground(tcell.PaletteColor(109)))

	return x, y, width, height
}
