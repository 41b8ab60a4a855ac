package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// sliderCells is the width of the slider bar.
const sliderCells = 15

// Slider is a horizontal integer slider, e.g. the increment in seconds.
type Slider struct {
	label    string
	unit     string
	min      int
	max      int
	value    int
	focused  bool
	onChange func(int)
}

func NewSlider(label, unit string, min, max, initial int, onChange func(int)) *Slider {
	s := &Slider{
		label:    label,
		unit:     unit,
		min:      min,
		max:      max,
		value:    min,
		onChange: onChange,
	}
	if initial >= min && initial <= max {
		s.value = initial
	}
	return s
}

func (s *Slider) SetFocused(focused bool) {
	s.focused = focused
}

// HandleKey processes keyboard input. Returns true if handled.
func (s *Slider) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		s.SetValue(s.value - 1)
		return true
	case tcell.KeyRight:
		s.SetValue(s.value + 1)
		return true
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			s.SetValue(s.value - 1)
			return true
		case 'l':
			s.SetValue(s.value + 1)
			return true
		}
	}
	return false
}

// Draw renders the slider on one row.
func (s *Slider) Draw(screen tcell.Screen, x, y, width int) int {
	selectedStyle := menuStyle(MenuColors.Selected)
	unselectedStyle := menuStyle(MenuColors.Unselected)

	cursor := ' '
	if s.focused {
		cursor = '▸'
	}
	screen.SetContent(x, y, cursor, nil, selectedStyle)
	screen.SetContent(x+2, y, '◆', nil, menuStyle(MenuColors.TitleAccent))
	col := drawText(screen, x+4, y, s.label, menuStyle(MenuColors.Label)) + 2

	arrowStyle := unselectedStyle
	if s.focused {
		arrowStyle = selectedStyle
	}
	screen.SetContent(col, y, '◀', nil, arrowStyle)
	col += 2

	filled := s.filled()
	for i := 0; i < sliderCells; i++ {
		ch, style := '░', unselectedStyle
		if i < filled {
			ch, style = '█', selectedStyle
		}
		screen.SetContent(col+i, y, ch, nil, style)
	}
	col += sliderCells + 1
	screen.SetContent(col, y, '▶', nil, arrowStyle)
	drawText(screen, col+2, y, fmt.Sprintf("%d%s", s.value, s.unit), menuStyle(MenuColors.Label))
	return 1
}

// filled scales the value onto the bar; the minimum shows an empty bar.
func (s *Slider) filled() int {
	if s.max <= s.min {
		return sliderCells
	}
	return (s.value - s.min) * sliderCells / (s.max - s.min)
}

func (s *Slider) Value() int {
	return s.value
}

// SetValue sets the value if it lies within the slider's range.
func (s *Slider) SetValue(v int) {
	if v < s.min || v > s.max || v == s.value {
		return
	}
	s.value = v
	if s.onChange != nil {
		s.onChange(s.value)
	}
}
