package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/rivo/tview"

	"termchess-local/config"
	"termchess-local/engine"
	"termchess-local/engine/local"
	"termchess-local/msgcat"
	"termchess-local/testutil"
	"termchess-local/types"
)

func TestClickMessage(t *testing.T) {
	cat := msgcat.Default()
	snap := engine.Snapshot{
		Board:        *types.NewStandardBoard(),
		Active:       types.White,
		Selection:    types.Square{Row: 6, Col: 4},
		HasSelection: true,
	}

	tests := []struct {
		name string
		snap func(engine.Snapshot) engine.Snapshot
		res  engine.ClickResult
		err  error
		want string
	}{
		{"selected", nil, engine.ClickResult{Selection: engine.Selected}, nil, "White pawn selected. Choose a highlighted square."},
		{"reselected", nil, engine.ClickResult{Selection: engine.Reselected}, nil, "White pawn selected. Choose a highlighted square."},
		{"deselected", nil, engine.ClickResult{Selection: engine.Deselected}, nil, "White to move."},
		{"ignored", func(s engine.Snapshot) engine.Snapshot { s.Active = types.Black; return s },
			engine.ClickResult{Selection: engine.SelectIgnored}, nil, "Select a Black piece to move."},
		{"illegal", nil, engine.ClickResult{}, engine.ErrIllegalMove, "Invalid move! Try selecting a highlighted square."},
		{"paused", nil, engine.ClickResult{}, engine.ErrPaused, "Paused. Press space to resume."},
		{"game over", func(s engine.Snapshot) engine.Snapshot {
			s.Status, s.Reason = engine.Terminated, engine.BlackFlagFall
			return s
		}, engine.ClickResult{}, engine.ErrGameOver, "White wins on time! ⏱"},
		{"other error", nil, engine.ClickResult{}, errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snap
			if tt.snap != nil {
				s = tt.snap(s)
			}
			testutil.AssertEqual(t, ClickMessage(cat, s, tt.res, tt.err), tt.want)
		})
	}
}

func TestEndMessage(t *testing.T) {
	cat := msgcat.Default()
	testutil.AssertEqual(t, EndMessage(cat, engine.NoReason), "")
	testutil.AssertEqual(t, EndMessage(cat, engine.WhiteFlagFall), "Black wins on time! ⏱")
}

func newTestBoard(t *testing.T) (*ChessBoardUI, *tview.TextView, *local.Session) {
	t.Helper()
	cfg := config.Default()
	hint := tview.NewTextView()
	board := NewChessBoard(nil, &cfg, msgcat.Default(), hint)

	s, err := local.NewSession(engine.DefaultConfig(), local.WithTickInterval(time.Hour))
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, board.ConnectEngine(s))
	t.Cleanup(board.Close)
	return board, hint, s
}

func TestMoveCursorStaysOnBoard(t *testing.T) {
	board, _, _ := newTestBoard(t)
	testutil.AssertEqual(t, board.Cursor(), types.Square{Row: 6, Col: 4})

	board.MoveCursor(0, 5)
	testutil.AssertEqual(t, board.Cursor(), types.Square{Row: 6, Col: 4})
	board.MoveCursor(0, 1)
	testutil.AssertEqual(t, board.Cursor(), types.Square{Row: 7, Col: 4})
	board.MoveCursor(-4, 0)
	testutil.AssertEqual(t, board.Cursor(), types.Square{Row: 7, Col: 0})
	board.MoveCursor(-1, 0)
	testutil.AssertEqual(t, board.Cursor(), types.Square{Row: 7, Col: 0})
}

func TestActivatePlaysMove(t *testing.T) {
	board, hint, _ := newTestBoard(t)
	testutil.AssertContains(t, hint.GetText(false), "White to move")

	var moved []engine.MoveResult
	board.SetHooks(func(res engine.MoveResult, _ engine.Snapshot) {
		moved = append(moved, res)
	}, nil)

	board.Activate() // e2
	snap, ok := board.Snapshot()
	testutil.AssertTrue(t, ok)
	testutil.AssertTrue(t, snap.HasSelection)
	testutil.AssertContains(t, hint.GetText(false), "White pawn selected")

	board.MoveCursor(0, -2)
	board.Activate() // e4
	snap, _ = board.Snapshot()
	testutil.AssertEqual(t, len(snap.Records), 1)
	testutil.AssertEqual(t, snap.Active, types.Black)
	testutil.AssertEqual(t, len(moved), 1)
	testutil.AssertContains(t, hint.GetText(false), "Black to move")
}

func TestActivateIllegalMove(t *testing.T) {
	board, hint, _ := newTestBoard(t)

	board.Activate() // e2
	board.MoveCursor(0, -4)
	board.Activate() // e6 is out of reach
	snap, _ := board.Snapshot()
	testutil.AssertEqual(t, len(snap.Records), 0)
	testutil.AssertFalse(t, snap.HasSelection)
	testutil.AssertContains(t, hint.GetText(false), "Invalid move")
}

func TestTogglePauseUpdatesStatus(t *testing.T) {
	board, hint, _ := newTestBoard(t)

	board.TogglePause()
	snap, _ := board.Snapshot()
	testutil.AssertTrue(t, snap.Paused)
	testutil.AssertContains(t, hint.GetText(false), "Paused")

	board.TogglePause()
	snap, _ = board.Snapshot()
	testutil.AssertFalse(t, snap.Paused)
	testutil.AssertContains(t, hint.GetText(false), "Resumed. White to move.")
}

func TestFocusModeHint(t *testing.T) {
	board, hint, _ := newTestBoard(t)

	testutil.AssertTrue(t, board.ToggleFocusMode())
	testutil.AssertContains(t, hint.GetText(false), "f to toggle")
	testutil.AssertFalse(t, board.ToggleFocusMode())
	testutil.AssertContains(t, hint.GetText(false), "hjkl/arrows")
}
