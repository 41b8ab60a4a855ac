// Package audio turns game cues into sound. In a terminal the only sound
// is the bell, so most cues end up as a Beep on the tcell screen.
package audio

import (
	"sync"

	"go.uber.org/zap"

	"termchess-local/config"
	"termchess-local/engine"
	"termchess-local/obslog"
	"termchess-local/types"
)

// Player consumes cues. Play must not block.
type Player interface {
	Play(cue engine.Cue, player types.Color)
}

// Beeper is satisfied by tcell.Screen.
type Beeper interface {
	Beep() error
}

// Bell rings the terminal bell for the cues it is set up for.
type Bell struct {
	screen Beeper
	cues   map[engine.Cue]bool
}

// NewBell rings on captures, low-time warnings and game over. Plain moves
// stay silent.
func NewBell(screen Beeper) *Bell {
	return &Bell{
		screen: screen,
		cues: map[engine.Cue]bool{
			engine.CueCapture:  true,
			engine.CueLowTime:  true,
			engine.CueCritical: true,
			engine.CueGameOver: true,
		},
	}
}

func (b *Bell) Play(cue engine.Cue, _ types.Color) {
	if b.screen == nil || !b.cues[cue] {
		return
	}
	if err := b.screen.Beep(); err != nil {
		obslog.L().Debug("beep failed", zap.Error(err))
	}
}

// LogPlayer writes every cue to the debug log.
type LogPlayer struct {
	log *zap.Logger
}

func NewLogPlayer(log *zap.Logger) *LogPlayer {
	if log == nil {
		log = obslog.L()
	}
	return &LogPlayer{log: log}
}

func (p *LogPlayer) Play(cue engine.Cue, player types.Color) {
	p.log.Debug("cue", zap.Stringer("cue", cue), zap.Stringer("player", player))
}

// Multi plays each cue on every player in order.
type Multi []Player

func (m Multi) Play(cue engine.Cue, player types.Color) {
	for _, p := range m {
		p.Play(cue, player)
	}
}

// Muter forwards cues unless muted. Safe for concurrent use.
type Muter struct {
	mu    sync.Mutex
	muted bool
	next  Player
}

func NewMuter(next Player, muted bool) *Muter {
	return &Muter{next: next, muted: muted}
}

func (m *Muter) Play(cue engine.Cue, player types.Color) {
	m.mu.Lock()
	muted := m.muted
	m.mu.Unlock()
	if !muted && m.next != nil {
		m.next.Play(cue, player)
	}
}

// Toggle flips the mute state and returns the new one.
func (m *Muter) Toggle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = !m.muted
	return m.muted
}

func (m *Muter) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// FromConfig builds the cue chain for cfg: cues are always logged, the
// bell only rings when enabled, and effects=false starts muted.
func FromConfig(cfg config.AudioConfig, screen Beeper) (Player, *Muter) {
	var sinks Multi
	if cfg.Bell && screen != nil {
		sinks = append(sinks, NewBell(screen))
	}
	muter := NewMuter(sinks, !cfg.Effects)
	return Multi{NewLogPlayer(nil), muter}, muter
}
