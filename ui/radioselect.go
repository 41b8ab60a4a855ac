package ui

import (
	"github.com/gdamore/tcell/v2"
)

// RadioOption is one choice of a RadioSelect.
type RadioOption struct {
	Label       string
	Description string
}

// RadioSelect is a vertical radio group. When there are more options than
// rows it scrolls to keep the selection visible.
type RadioSelect struct {
	label    string
	options  []RadioOption
	selected int
	rows     int
	top      int
	focused  bool
	onChange func(int)
}

// NewRadioSelect creates a radio group showing at most rows options at once;
// rows <= 0 shows them all.
func NewRadioSelect(label string, options []RadioOption, initial, rows int, onChange func(int)) *RadioSelect {
	r := &RadioSelect{
		label:    label,
		options:  options,
		rows:     rows,
		onChange: onChange,
	}
	r.selected = clampIndex(initial, len(options))
	r.scroll()
	return r
}

func (r *RadioSelect) SetFocused(focused bool) {
	r.focused = focused
}

// HandleKey processes keyboard input. Returns true if handled.
func (r *RadioSelect) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyUp:
		r.SetSelected(r.selected - 1)
		return true
	case tcell.KeyDown:
		r.SetSelected(r.selected + 1)
		return true
	case tcell.KeyRune:
		switch event.Rune() {
		case 'k':
			r.SetSelected(r.selected - 1)
			return true
		case 'j':
			r.SetSelected(r.selected + 1)
			return true
		}
	}
	return false
}

// Height returns the rows Draw uses.
func (r *RadioSelect) Height() int {
	return 1 + r.visible()
}

func (r *RadioSelect) visible() int {
	if r.rows <= 0 || r.rows > len(r.options) {
		return len(r.options)
	}
	return r.rows
}

func (r *RadioSelect) scroll() {
	n := r.visible()
	if r.selected < r.top {
		r.top = r.selected
	}
	if r.selected >= r.top+n {
		r.top = r.selected - n + 1
	}
}

// Draw renders the group and returns the number of rows used.
func (r *RadioSelect) Draw(screen tcell.Screen, x, y, width int) int {
	selectedStyle := menuStyle(MenuColors.Selected)
	unselectedStyle := menuStyle(MenuColors.Unselected)
	hintStyle := menuStyle(MenuColors.Hint)

	screen.SetContent(x, y, '◆', nil, menuStyle(MenuColors.TitleAccent))
	end := drawText(screen, x+2, y, r.label, menuStyle(MenuColors.Label))
	if r.top > 0 {
		drawText(screen, end+1, y, "▲", hintStyle)
	}

	n := r.visible()
	for i := 0; i < n; i++ {
		idx := r.top + i
		opt := r.options[idx]
		row := y + 1 + i
		col := x + 2

		cursor := ' '
		if r.focused && idx == r.selected {
			cursor = '▸'
		}
		screen.SetContent(col, row, cursor, nil, selectedStyle)

		style, bullet := unselectedStyle, '○'
		if idx == r.selected {
			style, bullet = selectedStyle, '●'
		}
		screen.SetContent(col+2, row, bullet, nil, style)
		col = drawText(screen, col+4, row, opt.Label, style)
		if opt.Description != "" && col+1+len([]rune(opt.Description)) < x+width {
			drawText(screen, col+1, row, opt.Description, hintStyle)
		}
	}
	if r.top+n < len(r.options) {
		drawText(screen, x+2, y+n+1, "▼", hintStyle)
		return n + 2
	}
	return n + 1
}

func (r *RadioSelect) Selected() int {
	return r.selected
}

// SetSelected moves the selection to index, ignoring out of range values.
func (r *RadioSelect) SetSelected(index int) {
	if index < 0 || index >= len(r.options) || index == r.selected {
		return
	}
	r.selected = index
	r.scroll()
	if r.onChange != nil {
		r.onChange(r.selected)
	}
}

func clampIndex(i, n int) int {
	if i < 0 || n == 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
