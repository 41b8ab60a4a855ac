// Package engine defines the interface for game sessions.
package engine

import (
	"errors"
	"fmt"
	"time"

	"termchess-local/clock"
	"termchess-local/ledger"
	"termchess-local/rules"
	"termchess-local/types"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over")
	ErrNoSelection = errors.New("no piece selected")
	ErrPaused      = errors.New("game is paused")
	ErrClosed      = errors.New("session closed")
)

// GameEngine is a two-player game on one board with a running clock.
type GameEngine interface {
	// Connect starts the game clock.
	Connect() error

	// Snapshot returns a copy of the current game state.
	Snapshot() Snapshot

	// Click handles a square activation: select, deselect, reselect or
	// move attempt depending on the current selection.
	Click(sq types.Square) (ClickResult, error)

	// Select selects, deselects or reselects a piece of the side to move.
	Select(sq types.Square) SelectResult

	// MoveTo attempts to move the selected piece to the given square.
	// An illegal attempt clears the selection and returns ErrIllegalMove.
	MoveTo(to types.Square) (MoveResult, error)

	// TogglePause pauses a running game or resumes a paused one and
	// reports whether the game is now paused.
	TogglePause() bool

	// OnMove registers a callback for every executed move.
	OnMove(func(res MoveResult, snap Snapshot))

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(reason Reason, snap Snapshot))

	// OnCue registers a callback for audio cues.
	OnCue(func(cue Cue, player types.Color))

	// OnTick registers a callback for every clock tick.
	OnTick(func(snap Snapshot))

	// Close stops the clock. The session cannot be used afterwards.
	Close()
}

// Status is the state of the turn machine.
type Status int

const (
	WaitingForSelection Status = iota
	PieceSelected
	Terminated
)

func (s Status) String() string {
	switch s {
	case PieceSelected:
		return "piece-selected"
	case Terminated:
		return "terminated"
	}
	return "waiting"
}

// Reason explains why a game terminated.
type Reason int

const (
	NoReason Reason = iota
	WhiteFlagFall
	BlackFlagFall
)

// FlagFall returns the reason for c running out of time.
func FlagFall(c types.Color) Reason {
	if c == types.White {
		return WhiteFlagFall
	}
	return BlackFlagFall
}

// Loser returns the side that lost. Only meaningful for a flag-fall.
func (r Reason) Loser() types.Color {
	if r == BlackFlagFall {
		return types.Black
	}
	return types.White
}

// Winner returns the side that won. Only meaningful for a flag-fall.
func (r Reason) Winner() types.Color {
	return r.Loser().Opponent()
}

// Result returns the PGN result token for the reason.
func (r Reason) Result() string {
	switch r {
	case WhiteFlagFall:
		return "0-1"
	case BlackFlagFall:
		return "1-0"
	}
	return "*"
}

func (r Reason) String() string {
	switch r {
	case WhiteFlagFall:
		return "white-flag-fall"
	case BlackFlagFall:
		return "black-flag-fall"
	}
	return "none"
}

// Cue is a discrete event for the audio collaborator.
type Cue int

const (
	CueMove Cue = iota
	CueCapture
	CueLowTime
	CueCritical
	CueGameOver
)

func (c Cue) String() string {
	switch c {
	case CueCapture:
		return "capture"
	case CueLowTime:
		return "low-time"
	case CueCritical:
		return "critical-time"
	case CueGameOver:
		return "game-over"
	}
	return "move"
}

// CueForLevel maps a low-time threshold to its cue.
func CueForLevel(l clock.Level) Cue {
	if l == clock.CriticalTime {
		return CueCritical
	}
	return CueLowTime
}

// SelectResult is what a selection request did.
type SelectResult int

const (
	SelectIgnored SelectResult = iota
	Selected
	Deselected
	Reselected
)

func (r SelectResult) String() string {
	switch r {
	case Selected:
		return "selected"
	case Deselected:
		return "deselected"
	case Reselected:
		return "reselected"
	}
	return "ignored"
}

// MoveResult describes an executed move.
type MoveResult struct {
	Record   ledger.MoveRecord
	Piece    types.Piece
	Captured types.Piece // zero unless Record.Captured
	Flagged  bool        // the mover ran out of time on this move
}

// ClickResult is the outcome of Click. Exactly one of Selection or Moved
// describes what happened.
type ClickResult struct {
	Selection SelectResult
	Moved     bool
	Move      MoveResult
}

// Snapshot is a copy of a session's state, safe to read without locking.
type Snapshot struct {
	GameID    string
	StartedAt time.Time
	Config    GameConfig

	Board        types.Board
	Active       types.Color
	Status       Status
	Reason       Reason
	Paused       bool
	Selection    types.Square
	HasSelection bool
	Destinations []rules.Destination

	Clocks  [2]int // displayed seconds, indexed by types.Color
	Records []ledger.MoveRecord
}

// LastMove returns the most recent record, if any.
func (s Snapshot) LastMove() (ledger.MoveRecord, bool) {
	if len(s.Records) == 0 {
		return ledger.MoveRecord{}, false
	}
	return s.Records[len(s.Records)-1], true
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	BaseSeconds      int // > 0
	IncrementSeconds int // >= 0
	WhiteName        string
	BlackName        string
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		BaseSeconds:      600,
		IncrementSeconds: 0,
		WhiteName:        "White",
		BlackName:        "Black",
	}
}

// Validate rejects time controls the clock cannot start with.
func (c GameConfig) Validate() error {
	if err := clock.Validate(c.BaseSeconds, c.IncrementSeconds); err != nil {
		return fmt.Errorf("game config: %w", err)
	}
	return nil
}

// TimeControl renders the control in PGN form, e.g. "600+5".
func (c GameConfig) TimeControl() string {
	return fmt.Sprintf("%d+%d", c.BaseSeconds, c.IncrementSeconds)
}
