// Package archive stores finished games outside the local PGN directory:
// a Redis index of recent games and a PostgreSQL table of full results.
package archive

import (
	"errors"
	"fmt"
	"time"

	"termchess-local/engine"
	"termchess-local/ledger"
	"termchess-local/record"
)

var ErrNotFound = errors.New("game not found")

// Summary is the compact form of a finished game kept in Redis.
type Summary struct {
	GameID           string    `json:"game_id"`
	White            string    `json:"white"`
	Black            string    `json:"black"`
	BaseSeconds      int       `json:"base_seconds"`
	IncrementSeconds int       `json:"increment_seconds"`
	Result           string    `json:"result"`
	Termination      string    `json:"termination,omitempty"`
	Moves            int       `json:"moves"`
	FinalFEN         string    `json:"final_fen"`
	StartedAt        time.Time `json:"started_at"`
	EndedAt          time.Time `json:"ended_at"`
}

// TimeControl renders the control as "600+5".
func (s Summary) TimeControl() string {
	return fmt.Sprintf("%d+%d", s.BaseSeconds, s.IncrementSeconds)
}

// Duration is the wall time between start and end, never negative.
func (s Summary) Duration() time.Duration {
	d := s.EndedAt.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Game is a finished game with its full move list.
type Game struct {
	Summary
	Records []ledger.MoveRecord
}

// FromSnapshot builds the archived form of a terminated session.
func FromSnapshot(snap engine.Snapshot, endedAt time.Time) Game {
	termination := ""
	if snap.Reason != engine.NoReason {
		termination = "time forfeit"
	}
	return Game{
		Summary: Summary{
			GameID:           snap.GameID,
			White:            snap.Config.WhiteName,
			Black:            snap.Config.BlackName,
			BaseSeconds:      snap.Config.BaseSeconds,
			IncrementSeconds: snap.Config.IncrementSeconds,
			Result:           snap.Reason.Result(),
			Termination:      termination,
			Moves:            len(snap.Records),
			FinalFEN:         snap.Board.FEN(),
			StartedAt:        snap.StartedAt,
			EndedAt:          endedAt,
		},
		Records: snap.Records,
	}
}

// PGN renders the game as a PGN document.
func (g Game) PGN() string {
	h := record.Header{
		GameID:           g.GameID,
		White:            g.White,
		Black:            g.Black,
		BaseSeconds:      g.BaseSeconds,
		IncrementSeconds: g.IncrementSeconds,
		Started:          g.StartedAt,
	}
	return record.Render(h, g.Result, g.Termination, g.Records)
}
