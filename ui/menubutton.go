package ui

import (
	"github.com/gdamore/tcell/v2"
)

// MenuButton is a single-line button with an optional shortcut key.
type MenuButton struct {
	label    string
	shortcut rune
	primary  bool
	focused  bool
	onSelect func()
}

// NewMenuButton creates a button. A zero shortcut means Enter only.
func NewMenuButton(label string, shortcut rune, primary bool, onSelect func()) *MenuButton {
	return &MenuButton{
		label:    label,
		shortcut: shortcut,
		primary:  primary,
		onSelect: onSelect,
	}
}

func (b *MenuButton) SetFocused(focused bool) {
	b.focused = focused
}

// HandleKey fires the button on Enter. Returns true if handled.
func (b *MenuButton) HandleKey(event *tcell.EventKey) bool {
	if event.Key() == tcell.KeyEnter {
		b.Press()
		return true
	}
	return false
}

// Matches reports whether r is the button's shortcut.
func (b *MenuButton) Matches(r rune) bool {
	return b.shortcut != 0 && r == b.shortcut
}

func (b *MenuButton) Press() {
	if b.onSelect != nil {
		b.onSelect()
	}
}

func (b *MenuButton) text() string {
	if b.primary {
		return "♔ " + b.label
	}
	return b.label
}

// Draw renders the button at x, y and returns the width used.
func (b *MenuButton) Draw(screen tcell.Screen, x, y int) int {
	text := b.text()
	width := b.Width()

	if b.focused {
		style := tcell.StyleDefault.Foreground(MenuColors.ButtonText).Background(MenuColors.ButtonFocus)
		for i := 0; i < width; i++ {
			screen.SetContent(x+i, y, ' ', nil, style)
		}
		drawText(screen, x+1, y, text, style)
		return width
	}

	bracket := menuStyle(MenuColors.Border)
	screen.SetContent(x, y, '[', nil, bracket)
	drawText(screen, x+1, y, text, menuStyle(MenuColors.Hint))
	screen.SetContent(x+width-1, y, ']', nil, bracket)
	return width
}

// Width returns the button width including padding or brackets.
func (b *MenuButton) Width() int {
	return len([]rune(b.text())) + 2
}
