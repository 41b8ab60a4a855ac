package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

var DefaultTheme = Theme{
	DrawCursorBackground:   true,
	DrawLastMoveBackground: true,
	DrawMarkers:            true,
	ShowCoordinates:        true,
	Colors: ConfigColors{
		LightSquare:   180,
		DarkSquare:    137,
		WhitePiece:    231,
		BlackPiece:    232,
		CursorColorFG: 231,
		CursorColorBG: 25,
		SelectedBG:    71,
		QuietBG:       114,
		CaptureBG:     167,
		LastMoveBG:    143,
		LowTime:       196,
	},
	Symbols: ConfigSymbols{
		QuietMarker:   '•',
		CaptureMarker: '×',
	},
}

var DefaultPresets = []Preset{
	{Name: "Bullet", BaseSeconds: 60, IncrementSeconds: 0},
	{Name: "Blitz", BaseSeconds: 180, IncrementSeconds: 2},
	{Name: "Blitz", BaseSeconds: 300, IncrementSeconds: 0},
	{Name: "Rapid", BaseSeconds: 600, IncrementSeconds: 0},
	{Name: "Rapid", BaseSeconds: 900, IncrementSeconds: 10},
	{Name: "Classical", BaseSeconds: 1800, IncrementSeconds: 0},
}

// Default returns a fresh default configuration. Paths are resolved
// against the XDG base directories.
func Default() Config {
	presets := make([]Preset, len(DefaultPresets))
	copy(presets, DefaultPresets)
	return Config{
		Theme: DefaultTheme,
		Clock: ClockConfig{
			BaseSeconds:      600,
			IncrementSeconds: 0,
			Presets:          presets,
		},
		Audio: AudioConfig{
			Effects: true,
			Bell:    true,
		},
		Record: RecordConfig{
			Enabled: true,
			Dir:     filepath.Join(xdg.DataHome, "termchess-local", "games"),
		},
		Archive: ArchiveConfig{
			RecentLimit: 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "legacy",
			File:   filepath.Join(xdg.StateHome, "termchess-local", "termchess.log"),
			ToFile: true,
		},
	}
}
