package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termchess-local/config"
	"termchess-local/types"
)

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()
	onError   func(error)

	target     int
	pending    config.ConfigColors // colors shown in the preview, saved on Enter
	populating bool
}

// colorTarget is one theme color the screen can edit.
type colorTarget struct {
	name    string
	palette []paletteColor
	field   func(*config.ConfigColors) *int
}

type paletteColor struct {
	code int
	name string
}

// Warm wood and stone tones for squares
var squareColors = []paletteColor{
	{230, "Light Cream"},
	{223, "Peach"},
	{222, "Gold"},
	{187, "Pale Khaki"},
	{180, "Tan"},
	{179, "Light Brown"},
	{173, "Copper"},
	{137, "Walnut"},
	{136, "Dark Brown"},
	{94, "Saddle Brown"},
	{108, "Sage"},
	{65, "Moss"},
	{66, "Slate Teal"},
	{67, "Steel Blue"},
	{252, "Light Gray"},
	{248, "Medium Gray"},
	{244, "Dark Gray"},
	{240, "Charcoal"},
}

// Highlight colors for selection and destinations
var highlightColors = []paletteColor{
	{71, "Green"},
	{114, "Light Green"},
	{150, "Lime"},
	{143, "Olive"},
	{186, "Straw"},
	{167, "Coral"},
	{203, "Red"},
	{131, "Brick"},
	{25, "Blue"},
	{74, "Sky"},
	{139, "Mauve"},
	{215, "Apricot"},
}

var colorTargets = []colorTarget{
	{"Light squares", squareColors, func(c *config.ConfigColors) *int { return &c.LightSquare }},
	{"Dark squares", squareColors, func(c *config.ConfigColors) *int { return &c.DarkSquare }},
	{"Selected piece", highlightColors, func(c *config.ConfigColors) *int { return &c.SelectedBG }},
	{"Quiet moves", highlightColors, func(c *config.ConfigColors) *int { return &c.QuietBG }},
	{"Captures", highlightColors, func(c *config.ConfigColors) *int { return &c.CaptureBG }},
	{"Last move", highlightColors, func(c *config.ConfigColors) *int { return &c.LastMoveBG }},
}

// NewColorConfig creates a new color configuration screen. onError receives
// failures to save the config file.
func NewColorConfig(cfg *config.Config, onDone func(), onError func(error)) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:     cfg,
		onDone:  onDone,
		onError: onError,
		pending: cfg.Theme.Colors,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	// Moving through the list previews the color
	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		t := colorTargets[cc.target]
		if !cc.populating && index >= 0 && index < len(t.palette) {
			*t.field(&cc.pending) = t.palette[index].code
		}
	})

	// Enter applies and saves
	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.Apply()
		if cc.onDone != nil {
			cc.onDone()
		}
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 34, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

// Apply copies the previewed colors into the config and saves it.
func (cc *ColorConfigUI) Apply() {
	cc.cfg.Theme.Colors = cc.pending
	if err := cc.cfg.Save(); err != nil && cc.onError != nil {
		cc.onError(err)
	}
}

// Reset discards the preview and shows the configured colors again.
func (cc *ColorConfigUI) Reset() {
	cc.pending = cc.cfg.Theme.Colors
	cc.populateColorList()
}

// Pending returns the colors currently previewed.
func (cc *ColorConfigUI) Pending() config.ConfigColors {
	return cc.pending
}

func (cc *ColorConfigUI) populateColorList() {
	cc.populating = true
	defer func() { cc.populating = false }()
	cc.colorList.Clear()

	t := colorTargets[cc.target]
	cc.colorList.SetTitle(fmt.Sprintf(" %s (Tab: next) ", t.name))
	current := *t.field(&cc.pending)
	for i, c := range t.palette {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range t.palette {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

// previewPieces is a small middlegame shown on the preview board.
var previewPieces = map[types.Square]types.Piece{
	{Row: 0, Col: 4}: {Kind: types.King, Color: types.Black},
	{Row: 1, Col: 3}: {Kind: types.Pawn, Color: types.Black},
	{Row: 2, Col: 2}: {Kind: types.Knight, Color: types.Black},
	{Row: 3, Col: 4}: {Kind: types.Pawn, Color: types.Black},
	{Row: 4, Col: 4}: {Kind: types.Pawn, Color: types.White},
	{Row: 5, Col: 5}: {Kind: types.Knight, Color: types.White},
	{Row: 6, Col: 3}: {Kind: types.Bishop, Color: types.White},
	{Row: 7, Col: 4}: {Kind: types.King, Color: types.White},
}

// The preview shows the white knight on f3 selected with its destinations.
var (
	previewSelected = types.Square{Row: 5, Col: 5}
	previewQuiet    = map[types.Square]bool{{Row: 3, Col: 6}: true, {Row: 4, Col: 7}: true, {Row: 6, Col: 7}: true, {Row: 7, Col: 6}: true, {Row: 4, Col: 3}: true}
	previewCapture  = map[types.Square]bool{{Row: 3, Col: 4}: true}
	previewLastMove = map[types.Square]bool{{Row: 2, Col: 2}: true, {Row: 0, Col: 1}: true}
)

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < 8*cellWidth+4 || height < 11 {
		return x, y, width, height
	}
	c := cc.pending
	startX := x + 2
	startY := y + 1

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := types.Square{Row: row, Col: col}
			bg := c.LightSquare
			if (row+col)%2 == 1 {
				bg = c.DarkSquare
			}
			switch {
			case sq == previewSelected:
				bg = c.SelectedBG
			case previewCapture[sq]:
				bg = c.CaptureBG
			case previewQuiet[sq]:
				bg = c.QuietBG
			case previewLastMove[sq]:
				bg = c.LastMoveBG
			}

			glyph, fg := ' ', c.WhitePiece
			if p, ok := previewPieces[sq]; ok {
				glyph = []rune(p.Symbol())[0]
				if p.Color == types.Black {
					fg = c.BlackPiece
				}
			}
			style := tcell.StyleDefault.Background(tcell.PaletteColor(bg)).Foreground(tcell.PaletteColor(fg))
			drawSquare(screen, style, ' ', glyph, ' ', startX+col*cellWidth, startY+row)
		}
	}

	t := colorTargets[cc.target]
	info := fmt.Sprintf("%s: %d", t.name, *t.field(&cc.pending))
	drawText(screen, startX, startY+9, info, tcell.StyleDefault)
	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode moves on to the next theme color.
func (cc *ColorConfigUI) ToggleMode() {
	cc.target = (cc.target + 1) % len(colorTargets)
	cc.populateColorList()
}
