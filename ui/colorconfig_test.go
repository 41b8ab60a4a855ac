package ui

import (
	"testing"

	"termchess-local/config"
	"termchess-local/testutil"
)

func TestColorConfigPreview(t *testing.T) {
	cfg := config.Default()
	cc := NewColorConfig(&cfg, nil, nil)
	testutil.AssertEqual(t, cc.Pending(), cfg.Theme.Colors)

	cc.colorList.SetCurrentItem(0)
	testutil.AssertEqual(t, cc.Pending().LightSquare, squareColors[0].code)
	testutil.AssertEqual(t, cfg.Theme.Colors.LightSquare, config.DefaultTheme.Colors.LightSquare)

	cc.ToggleMode()
	cc.colorList.SetCurrentItem(1)
	testutil.AssertEqual(t, cc.Pending().DarkSquare, squareColors[1].code)

	cc.Reset()
	testutil.AssertEqual(t, cc.Pending(), cfg.Theme.Colors)
}

func TestColorConfigToggleWraps(t *testing.T) {
	cfg := config.Default()
	cc := NewColorConfig(&cfg, nil, nil)
	for range colorTargets {
		cc.ToggleMode()
	}
	testutil.AssertEqual(t, cc.target, 0)
}
