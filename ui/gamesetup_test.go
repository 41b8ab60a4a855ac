package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"termchess-local/config"
	"termchess-local/engine"
	"termchess-local/msgcat"
	"termchess-local/testutil"
)

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

type setupCalls struct {
	started []engine.GameConfig
	history int
	colors  int
	quit    int
}

func newTestSetup(t *testing.T, cfg config.Config) (*GameSetupUI, *setupCalls) {
	t.Helper()
	calls := &setupCalls{}
	s := NewGameSetup(&cfg, msgcat.Default(),
		func(gc engine.GameConfig) { calls.started = append(calls.started, gc) },
		func() { calls.history++ },
		func() { calls.colors++ },
		func() { calls.quit++ },
	)
	return s, calls
}

func TestSetupStartsWithConfiguredPreset(t *testing.T) {
	s, _ := newTestSetup(t, config.Default())

	gc, err := s.GameConfig()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, gc.BaseSeconds, 600)
	testutil.AssertEqual(t, gc.IncrementSeconds, 0)
	testutil.AssertEqual(t, s.minutes.Value(), "10")
}

func TestSetupUnknownClockSelectsCustom(t *testing.T) {
	cfg := config.Default()
	cfg.Clock.BaseSeconds, cfg.Clock.IncrementSeconds = 420, 3
	s, _ := newTestSetup(t, cfg)

	testutil.AssertEqual(t, s.preset.Selected(), len(cfg.Clock.Presets))
	gc, err := s.GameConfig()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, gc.BaseSeconds, 420)
	testutil.AssertEqual(t, gc.IncrementSeconds, 3)
}

func TestSetupPresetSyncsCustomFields(t *testing.T) {
	s, _ := newTestSetup(t, config.Default())

	testutil.AssertTrue(t, s.HandleKey(key(tcell.KeyDown)))
	testutil.AssertEqual(t, s.preset.Selected(), 4)
	testutil.AssertEqual(t, s.minutes.Value(), "15")
	testutil.AssertEqual(t, s.increment.Value(), 10)

	gc, err := s.GameConfig()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, gc.BaseSeconds, 900)
	testutil.AssertEqual(t, gc.IncrementSeconds, 10)
}

func TestSetupCustomEdit(t *testing.T) {
	s, calls := newTestSetup(t, config.Default())
	custom := len(config.DefaultPresets)

	s.HandleKey(key(tcell.KeyTab)) // minutes
	s.HandleKey(key(tcell.KeyBackspace2))
	s.HandleKey(key(tcell.KeyBackspace2))
	testutil.AssertEqual(t, s.preset.Selected(), custom)
	s.HandleKey(runeKey('5'))
	testutil.AssertEqual(t, s.minutes.Value(), "5")

	s.HandleKey(key(tcell.KeyTab)) // increment
	s.HandleKey(key(tcell.KeyRight))
	s.HandleKey(runeKey('l'))
	testutil.AssertEqual(t, s.increment.Value(), 2)

	s.HandleKey(key(tcell.KeyEnter))
	testutil.AssertEqual(t, s.Err(), "")
	testutil.AssertEqual(t, len(calls.started), 1)
	testutil.AssertEqual(t, calls.started[0].BaseSeconds, 300)
	testutil.AssertEqual(t, calls.started[0].IncrementSeconds, 2)
	testutil.AssertEqual(t, calls.started[0].WhiteName, "White")
}

func TestSetupRejectsZeroMinutes(t *testing.T) {
	s, calls := newTestSetup(t, config.Default())

	s.HandleKey(key(tcell.KeyTab))
	s.HandleKey(key(tcell.KeyBackspace2))
	s.HandleKey(key(tcell.KeyBackspace2))
	s.HandleKey(runeKey('0'))

	_, err := s.GameConfig()
	testutil.AssertTrue(t, err != nil, "zero minutes must be rejected")

	s.HandleKey(key(tcell.KeyEnter))
	testutil.AssertTrue(t, s.Err() != "")
	testutil.AssertEqual(t, len(calls.started), 0)
}

func TestSetupShortcuts(t *testing.T) {
	s, calls := newTestSetup(t, config.Default())

	s.HandleKey(runeKey('h'))
	s.HandleKey(runeKey('c'))
	s.HandleKey(runeKey('s'))
	testutil.AssertEqual(t, calls.history, 1)
	testutil.AssertEqual(t, calls.colors, 1)
	testutil.AssertEqual(t, len(calls.started), 1)

	// Digits typed into the minutes field are not shortcuts, q still quits.
	s.HandleKey(key(tcell.KeyTab))
	s.HandleKey(runeKey('s'))
	testutil.AssertEqual(t, len(calls.started), 1)
	s.HandleKey(runeKey('q'))
	testutil.AssertEqual(t, calls.quit, 1)
}

func TestSetupFocusWraps(t *testing.T) {
	s, _ := newTestSetup(t, config.Default())

	s.HandleKey(key(tcell.KeyBacktab))
	testutil.AssertEqual(t, s.focus, len(s.fields)-1)
	s.HandleKey(key(tcell.KeyTab))
	testutil.AssertEqual(t, s.focus, 0)
}
