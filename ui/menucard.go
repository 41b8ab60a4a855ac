package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MenuCard is a card container with rounded borders and a title row.
type MenuCard struct {
	*tview.Box
	title   string
	focused bool
}

func NewMenuCard(title string) *MenuCard {
	return &MenuCard{
		Box:   tview.NewBox(),
		title: title,
	}
}

// Draw renders the card frame. Content starts on row y+5 of the inner rect.
func (c *MenuCard) Draw(screen tcell.Screen) {
	c.Box.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width < 10 || height < 5 {
		return
	}

	border := menuStyle(c.borderColor())
	bg := menuStyle(MenuColors.Label)
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, bg)
		}
	}

	c.horizontal(screen, y, '╭', '╮')
	for row := y + 1; row < y+height-1; row++ {
		screen.SetContent(x, row, '│', nil, border)
		screen.SetContent(x+width-1, row, '│', nil, border)
	}
	c.horizontal(screen, y+height-1, '╰', '╯')

	if c.title == "" {
		return
	}
	// ♞  TITLE, centered two rows below the top border
	titleX := x + (width-len([]rune(c.title))-3)/2
	screen.SetContent(titleX, y+2, '♞', nil, menuStyle(MenuColors.TitleAccent))
	drawText(screen, titleX+3, y+2, c.title, menuStyle(MenuColors.Title).Bold(true))
	c.DrawDivider(screen, y+4)
}

// DrawDivider draws a horizontal divider across the card at divY.
func (c *MenuCard) DrawDivider(screen tcell.Screen, divY int) {
	c.horizontal(screen, divY, '├', '┤')
}

func (c *MenuCard) horizontal(screen tcell.Screen, row int, left, right rune) {
	x, _, width, _ := c.GetInnerRect()
	style := menuStyle(c.borderColor())
	screen.SetContent(x, row, left, nil, style)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, row, '─', nil, style)
	}
	screen.SetContent(x+width-1, row, right, nil, style)
}

func (c *MenuCard) borderColor() tcell.Color {
	if c.focused {
		return MenuColors.BorderFocus
	}
	return MenuColors.Border
}

func (c *MenuCard) SetFocused(focused bool) {
	c.focused = focused
}
