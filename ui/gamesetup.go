package ui

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termchess-local/config"
	"termchess-local/engine"
	"termchess-local/msgcat"
)

// SetupWidth and SetupHeight size the setup card.
const (
	SetupWidth  = 52
	SetupHeight = 22
)

// maxIncrement is the largest increment the slider offers, in seconds.
const maxIncrement = 60

// field is a focusable control drawn inside the setup card.
type field interface {
	SetFocused(bool)
	HandleKey(*tcell.EventKey) bool
}

// GameSetupUI is the time-control picker: presets, a custom minutes and
// increment entry, and the menu buttons.
type GameSetupUI struct {
	*MenuCard
	cat       *msgcat.Catalog
	presets   []config.Preset
	preset    *RadioSelect
	minutes   *NumberInput
	increment *Slider
	buttons   []*MenuButton
	fields    []field
	focus     int
	err       string
	syncing   bool
	onStart   func(engine.GameConfig)
}

// NewGameSetup creates the setup card for the presets in cfg.
func NewGameSetup(cfg *config.Config, cat *msgcat.Catalog, onStart func(engine.GameConfig), onHistory, onColors, onQuit func()) *GameSetupUI {
	s := &GameSetupUI{
		MenuCard: NewMenuCard("T E R M C H E S S"),
		cat:      cat,
		presets:  cfg.Clock.Presets,
		onStart:  onStart,
	}

	options := make([]RadioOption, 0, len(s.presets)+1)
	initial := len(s.presets)
	for i, p := range s.presets {
		options = append(options, RadioOption{
			Label:       p.Name,
			Description: config.FormatTimeControl(p.BaseSeconds, p.IncrementSeconds),
		})
		if initial == len(s.presets) && p.BaseSeconds == cfg.Clock.BaseSeconds && p.IncrementSeconds == cfg.Clock.IncrementSeconds {
			initial = i
		}
	}
	options = append(options, RadioOption{Label: "Custom", Description: "minutes + increment"})

	s.preset = NewRadioSelect("Time control", options, initial, 7, s.presetChanged)
	s.minutes = NewNumberInput("Minutes  ", minutesText(cfg.Clock.BaseSeconds), 5, func(string) { s.customEdited() })
	s.increment = NewSlider("Increment", "s", 0, maxIncrement, cfg.Clock.IncrementSeconds, func(int) { s.customEdited() })
	s.buttons = []*MenuButton{
		NewMenuButton("Start", 's', true, s.start),
		NewMenuButton("History", 'h', false, onHistory),
		NewMenuButton("Colors", 'c', false, onColors),
		NewMenuButton("Quit", 'q', false, onQuit),
	}

	s.fields = []field{s.preset, s.minutes, s.increment}
	for _, b := range s.buttons {
		s.fields = append(s.fields, b)
	}
	s.setFocus(0)
	return s
}

func minutesText(base int) string {
	return strconv.FormatFloat(float64(base)/60, 'f', -1, 64)
}

// presetChanged copies the chosen preset into the custom fields.
func (s *GameSetupUI) presetChanged(idx int) {
	if idx >= len(s.presets) {
		return
	}
	p := s.presets[idx]
	s.syncing = true
	s.minutes.SetValue(minutesText(p.BaseSeconds))
	s.increment.SetValue(p.IncrementSeconds)
	s.syncing = false
}

// customEdited switches the radio group to Custom after a manual edit.
func (s *GameSetupUI) customEdited() {
	if s.syncing {
		return
	}
	s.preset.SetSelected(len(s.presets))
}

// GameConfig returns the chosen time control as a game configuration.
func (s *GameSetupUI) GameConfig() (engine.GameConfig, error) {
	gc := engine.DefaultConfig()
	if idx := s.preset.Selected(); idx < len(s.presets) {
		gc.BaseSeconds = s.presets[idx].BaseSeconds
		gc.IncrementSeconds = s.presets[idx].IncrementSeconds
		return gc, gc.Validate()
	}
	base, inc, err := config.ParseTimeControl(fmt.Sprintf("%s+%d", s.minutes.Value(), s.increment.Value()))
	if err != nil {
		return engine.GameConfig{}, err
	}
	gc.BaseSeconds, gc.IncrementSeconds = base, inc
	return gc, nil
}

func (s *GameSetupUI) start() {
	gc, err := s.GameConfig()
	if err != nil {
		s.err = err.Error()
		return
	}
	s.err = ""
	if s.onStart != nil {
		s.onStart(gc)
	}
}

// Err returns the last validation error shown on the card.
func (s *GameSetupUI) Err() string {
	return s.err
}

func (s *GameSetupUI) setFocus(i int) {
	n := len(s.fields)
	i = (i%n + n) % n
	for j, f := range s.fields {
		f.SetFocused(j == i)
	}
	s.focus = i
}

// HandleKey processes a key press. Returns true if it was consumed.
func (s *GameSetupUI) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyTab:
		s.setFocus(s.focus + 1)
		return true
	case tcell.KeyBacktab:
		s.setFocus(s.focus - 1)
		return true
	}
	if s.fields[s.focus].HandleKey(event) {
		return true
	}
	switch event.Key() {
	case tcell.KeyEnter:
		s.start()
		return true
	case tcell.KeyRune:
		for _, b := range s.buttons {
			if b.Matches(event.Rune()) {
				b.Press()
				return true
			}
		}
	}
	return false
}

// InputHandler returns the handler for this primitive.
func (s *GameSetupUI) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return s.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		s.HandleKey(event)
	})
}

func (s *GameSetupUI) Focus(delegate func(p tview.Primitive)) {
	s.MenuCard.SetFocused(true)
	s.MenuCard.Box.Focus(delegate)
}

func (s *GameSetupUI) Blur() {
	s.MenuCard.SetFocused(false)
	s.MenuCard.Box.Blur()
}

// Draw renders the card and its fields.
func (s *GameSetupUI) Draw(screen tcell.Screen) {
	s.MenuCard.Draw(screen)

	x, y, width, height := s.GetInnerRect()
	if width < SetupWidth-2 || height < 10 {
		return
	}
	left := x + 3
	inner := width - 6
	row := y + 5

	row += s.preset.Draw(screen, left, row, inner)
	row += s.minutes.Draw(screen, left, row, inner)
	row += s.increment.Draw(screen, left, row, inner)

	s.DrawDivider(screen, row)
	row++
	col := left
	for _, b := range s.buttons {
		col += b.Draw(screen, col, row) + 1
	}
	row += 2

	if s.err != "" {
		drawText(screen, left, row, s.err, menuStyle(MenuColors.Error))
	}
	if y+height-2 > row {
		drawText(screen, left, y+height-2, s.cat.Text("hint.setup", nil), menuStyle(MenuColors.Hint))
	}
}
