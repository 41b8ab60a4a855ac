package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/adrg/xdg"

	"termchess-local/clock"
	"termchess-local/obslog"
)

var (
	cfgFile = "termchess-local/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	LightSquare   int `json:"light_square"`
	DarkSquare    int `json:"dark_square"`
	WhitePiece    int `json:"white_piece"`
	BlackPiece    int `json:"black_piece"`
	CursorColorFG int `json:"cursor_fg"`
	CursorColorBG int `json:"cursor_bg"`
	SelectedBG    int `json:"selected_bg"`
	QuietBG       int `json:"quiet_bg"`
	CaptureBG     int `json:"capture_bg"`
	LastMoveBG    int `json:"last_move_bg"`
	LowTime       int `json:"low_time"`
}

type ConfigSymbols struct {
	QuietMarker   rune `json:"quiet_marker"`
	CaptureMarker rune `json:"capture_marker"`
}

type Theme struct {
	DrawCursorBackground   bool          `json:"draw_cursor_bg"`
	DrawLastMoveBackground bool          `json:"draw_last_move_bg"`
	DrawMarkers            bool          `json:"draw_markers"`
	ShowCoordinates        bool          `json:"show_coordinates"`
	Colors                 ConfigColors  `json:"colors"`
	Symbols                ConfigSymbols `json:"symbols"`
}

// Preset is a named time control offered in the setup form.
type Preset struct {
	Name             string `json:"name"`
	BaseSeconds      int    `json:"base_seconds"`
	IncrementSeconds int    `json:"increment_seconds"`
}

// Label renders the preset as "Blitz 3+2".
func (p Preset) Label() string {
	return fmt.Sprintf("%s %s", p.Name, FormatTimeControl(p.BaseSeconds, p.IncrementSeconds))
}

// ClockConfig holds the default time control and the presets.
type ClockConfig struct {
	BaseSeconds      int      `json:"base_seconds"`
	IncrementSeconds int      `json:"increment_seconds"`
	Presets          []Preset `json:"presets"`
}

// AudioConfig controls the cue players.
type AudioConfig struct {
	Effects bool `json:"effects"`
	Bell    bool `json:"bell"`
}

// RecordConfig controls PGN game records.
type RecordConfig struct {
	Enabled bool   `json:"enabled"`
	Dir     string `json:"dir"`
}

// ArchiveConfig enables the optional finished-game archives.
// Empty URLs leave the corresponding archive off.
type ArchiveConfig struct {
	RedisURL    string `json:"redis_url"`
	DatabaseURL string `json:"database_url"`
	RecentLimit int    `json:"recent_limit"`
}

// LogConfig mirrors obslog.Options.
type LogConfig struct {
	Level     string `json:"level"`
	Format    string `json:"format"`
	File      string `json:"file"`
	ToFile    bool   `json:"to_file"`
	ToConsole bool   `json:"to_console"`
}

type Config struct {
	Theme    Theme         `json:"theme"`
	Clock    ClockConfig   `json:"clock"`
	Audio    AudioConfig   `json:"audio"`
	Record   RecordConfig  `json:"record"`
	Archive  ArchiveConfig `json:"archive"`
	Log      LogConfig     `json:"log"`
	Messages string        `json:"messages_dir"`
}

func InitConfig() (*Config, error) {
	config := Default()
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.QuietMarker, c.Theme.Symbols.CaptureMarker} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if err := clock.Validate(c.Clock.BaseSeconds, c.Clock.IncrementSeconds); err != nil {
		return &InvalidConfig{err.Error()}
	}
	for _, p := range c.Clock.Presets {
		if strings.TrimSpace(p.Name) == "" {
			return &InvalidConfig{"time control presets need a name"}
		}
		if err := clock.Validate(p.BaseSeconds, p.IncrementSeconds); err != nil {
			return &InvalidConfig{fmt.Sprintf("preset %q: %v", p.Name, err)}
		}
	}
	if c.Archive.RecentLimit < 0 {
		return &InvalidConfig{"archive recent_limit must not be negative"}
	}
	if !obslog.ValidFormat(c.Log.Format) {
		return &InvalidConfig{fmt.Sprintf("unknown log format %q", c.Log.Format)}
	}
	return nil
}

// LogOptions returns the logging options with environment overrides applied.
func (c *Config) LogOptions() obslog.Options {
	return obslog.FromEnv(obslog.Options{
		Level:     c.Log.Level,
		Format:    c.Log.Format,
		File:      c.Log.File,
		ToFile:    c.Log.ToFile,
		ToConsole: c.Log.ToConsole,
	})
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return fmt.Errorf("locate config file: %w", err)
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}

// ParseTimeControl parses "minutes+increment" (e.g. "3+2", "10") into
// seconds. Minutes may be fractional ("0.5+1") as long as they come to a
// whole number of seconds.
func ParseTimeControl(s string) (base, increment int, err error) {
	s = strings.TrimSpace(s)
	minutes, inc, hasInc := strings.Cut(s, "+")
	m, err := strconv.ParseFloat(strings.TrimSpace(minutes), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad minutes in %q", clock.ErrInvalidConfiguration, s)
	}
	secs := m * 60
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs > math.MaxInt32 || math.Abs(secs-math.Round(secs)) > 1e-6 {
		return 0, 0, fmt.Errorf("%w: minutes in %q are not a whole number of seconds", clock.ErrInvalidConfiguration, s)
	}
	base = int(math.Round(secs))
	if hasInc {
		increment, err = strconv.Atoi(strings.TrimSpace(inc))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: bad increment in %q", clock.ErrInvalidConfiguration, s)
		}
	}
	if err := clock.Validate(base, increment); err != nil {
		return 0, 0, err
	}
	return base, increment, nil
}

// FormatTimeControl renders seconds as "minutes+increment", the inverse of
// ParseTimeControl for whole minutes.
func FormatTimeControl(base, increment int) string {
	if base%60 == 0 {
		return fmt.Sprintf("%d+%d", base/60, increment)
	}
	return fmt.Sprintf("%s+%d", strconv.FormatFloat(float64(base)/60, 'f', -1, 64), increment)
}
