package ui

import (
	"github.com/gdamore/tcell/v2"
)

// NumberInput is a short text field that accepts a decimal number,
// e.g. the minutes of a custom time control.
type NumberInput struct {
	label    string
	text     []rune
	focused  bool
	cursor   int
	width    int
	onChange func(string)
}

func NewNumberInput(label, initial string, width int, onChange func(string)) *NumberInput {
	n := &NumberInput{
		label:    label,
		width:    width,
		onChange: onChange,
	}
	n.setText(initial)
	return n
}

func (n *NumberInput) SetFocused(focused bool) {
	n.focused = focused
}

// HandleKey processes keyboard input. Returns true if handled.
func (n *NumberInput) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		if n.cursor > 0 {
			n.cursor--
		}
		return true
	case tcell.KeyRight:
		if n.cursor < len(n.text) {
			n.cursor++
		}
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n.cursor > 0 {
			n.text = append(n.text[:n.cursor-1], n.text[n.cursor:]...)
			n.cursor--
			n.changed()
		}
		return true
	case tcell.KeyDelete:
		if n.cursor < len(n.text) {
			n.text = append(n.text[:n.cursor], n.text[n.cursor+1:]...)
			n.changed()
		}
		return true
	case tcell.KeyRune:
		ch := event.Rune()
		if ch == 'q' {
			return false
		}
		if !(ch >= '0' && ch <= '9' || ch == '.') || len(n.text) >= n.width {
			return true
		}
		n.text = append(n.text[:n.cursor], append([]rune{ch}, n.text[n.cursor:]...)...)
		n.cursor++
		n.changed()
		return true
	}
	return false
}

func (n *NumberInput) changed() {
	if n.onChange != nil {
		n.onChange(string(n.text))
	}
}

// Draw renders the field on one row: ▸ ◆ Minutes   [ 10    ]
func (n *NumberInput) Draw(screen tcell.Screen, x, y, width int) int {
	labelStyle := menuStyle(MenuColors.Label)
	inputStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(tcell.PaletteColor(238))
	cursorStyle := tcell.StyleDefault.Foreground(MenuColors.CardBG).Background(MenuColors.Selected)

	cursor := ' '
	if n.focused {
		cursor = '▸'
	}
	screen.SetContent(x, y, cursor, nil, menuStyle(MenuColors.Selected))
	screen.SetContent(x+2, y, '◆', nil, menuStyle(MenuColors.TitleAccent))
	col := drawText(screen, x+4, y, n.label, labelStyle) + 2

	screen.SetContent(col, y, '[', nil, labelStyle)
	col++
	for i := 0; i <= n.width; i++ {
		ch := ' '
		if i < len(n.text) {
			ch = n.text[i]
		}
		style := inputStyle
		if n.focused && i == n.cursor {
			style = cursorStyle
		}
		screen.SetContent(col+1+i, y, ch, nil, style)
	}
	screen.SetContent(col, y, ' ', nil, inputStyle)
	screen.SetContent(col+n.width+2, y, ']', nil, labelStyle)
	return 1
}

func (n *NumberInput) Value() string {
	return string(n.text)
}

// SetValue replaces the text without notifying onChange.
func (n *NumberInput) SetValue(text string) {
	n.setText(text)
}

func (n *NumberInput) setText(text string) {
	n.text = []rune(text)
	if len(n.text) > n.width {
		n.text = n.text[:n.width]
	}
	n.cursor = len(n.text)
}
