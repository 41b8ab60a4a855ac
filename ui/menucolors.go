package ui

import "github.com/gdamore/tcell/v2"

// MenuColors is the palette of the setup card and the list screens.
var MenuColors = struct {
	Border      tcell.Color // card border
	BorderFocus tcell.Color // card border while focused
	CardBG      tcell.Color
	Title       tcell.Color
	TitleAccent tcell.Color // knight glyph and field markers
	Label       tcell.Color
	Hint        tcell.Color
	Selected    tcell.Color
	Unselected  tcell.Color
	ButtonBG    tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
	Error       tcell.Color
}{
	Border:      tcell.PaletteColor(59),
	BorderFocus: tcell.PaletteColor(108),
	CardBG:      tcell.PaletteColor(235),
	Title:       tcell.PaletteColor(255),
	TitleAccent: tcell.PaletteColor(179),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(244),
	Selected:    tcell.PaletteColor(108),
	Unselected:  tcell.PaletteColor(244),
	ButtonBG:    tcell.PaletteColor(59),
	ButtonFocus: tcell.PaletteColor(108),
	ButtonText:  tcell.PaletteColor(255),
	Error:       tcell.PaletteColor(167),
}

func menuStyle(fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(MenuColors.CardBG)
}

// drawText writes text at x, y and returns the column after it.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
