package local

import (
	"errors"
	"sync"
	"testing"
	"time"

	"termchess-local/clock"
	"termchess-local/engine"
	"termchess-local/ledger"
	"termchess-local/rules"
	"termchess-local/testutil"
	"termchess-local/types"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func sq(s string) types.Square {
	q, err := types.ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return q
}

type cueEvent struct {
	Cue    engine.Cue
	Player types.Color
}

type cueRecorder struct {
	mu     sync.Mutex
	events []cueEvent
}

func (r *cueRecorder) record(c engine.Cue, p types.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, cueEvent{c, p})
}

func (r *cueRecorder) all() []cueEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]cueEvent(nil), r.events...)
}

func newTestSession(t *testing.T, base, inc int) (*Session, *fakeClock) {
	t.Helper()
	fc := newFakeClock()
	s, err := NewSession(engine.GameConfig{BaseSeconds: base, IncrementSeconds: inc},
		WithClock(fc.Now), WithGameID("test-game"))
	testutil.AssertNoError(t, err)
	t.Cleanup(s.Close)
	return s, fc
}

// play selects from and moves to to, failing the test on error.
func play(t *testing.T, s *Session, from, to string) engine.MoveResult {
	t.Helper()
	if got := s.Select(sq(from)); got != engine.Selected {
		t.Fatalf("Select(%s) = %v, want selected", from, got)
	}
	res, err := s.MoveTo(sq(to))
	testutil.AssertNoError(t, err, "move %s-%s", from, to)
	return res
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	tests := []engine.GameConfig{
		{BaseSeconds: 0},
		{BaseSeconds: -10},
		{BaseSeconds: 60, IncrementSeconds: -1},
	}
	for _, cfg := range tests {
		_, err := NewSession(cfg)
		testutil.AssertErrorIs(t, err, clock.ErrInvalidConfiguration, "config %+v", cfg)
	}
}

func TestInitialState(t *testing.T) {
	s, _ := newTestSession(t, 600, 0)
	snap := s.Snapshot()

	testutil.AssertEqual(t, snap.GameID, "test-game")
	testutil.AssertEqual(t, snap.Active, types.White)
	testutil.AssertEqual(t, snap.Status, engine.WaitingForSelection)
	testutil.AssertEqual(t, snap.Clocks, [2]int{600, 600})
	testutil.AssertEqual(t, snap.Board.Count(), 32)
	testutil.AssertEqual(t, len(snap.Records), 0)
	testutil.AssertFalse(t, snap.HasSelection)
}

func TestSelectTransitions(t *testing.T) {
	s, _ := newTestSession(t, 600, 0)

	testutil.AssertEqual(t, s.Select(sq("e7")), engine.SelectIgnored, "opponent piece")
	testutil.AssertEqual(t, s.Select(sq("e4")), engine.SelectIgnored, "empty square")
	testutil.AssertEqual(t, s.Snapshot().Status, engine.WaitingForSelection)

	testutil.AssertEqual(t, s.Select(sq("e2")), engine.Selected)
	testutil.AssertEqual(t, s.Select(sq("e2")), engine.Deselected)
	testutil.AssertEqual(t, s.Snapshot().Status, engine.WaitingForSelection)

	testutil.AssertEqual(t, s.Select(sq("e2")), engine.Selected)
	testutil.AssertEqual(t, s.Select(sq("d2")), engine.Reselected)

	snap := s.Snapshot()
	testutil.AssertEqual(t, snap.Status, engine.PieceSelected)
	testutil.AssertEqual(t, snap.Selection, sq("d2"))
	testutil.AssertEqual(t, snap.Destinations, []rules.Destination{
		{Square: sq("d4"), Class: rules.Quiet},
		{Square: sq("d3"), Class: rules.Quiet},
	})

	// Another non-own square while selected leaves the selection alone.
	testutil.AssertEqual(t, s.Select(sq("d7")), engine.SelectIgnored)
	testutil.AssertEqual(t, s.Snapshot().Selection, sq("d2"))
}

func TestMoveSettlesClock(t *testing.T) {
	s, fc := newTestSession(t, 600, 5)

	s.Select(sq("g1"))
	fc.Advance(12 * time.Second)
	res, err := s.MoveTo(sq("f3"))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, res.Record, ledger.MoveRecord{
		Ordinal:        1,
		Player:         types.White,
		Notation:       "♘g1-f3",
		ElapsedSeconds: 12,
		From:           sq("g1"),
		To:             sq("f3"),
		RemainingAfter: 593,
	})
	testutil.AssertFalse(t, res.Flagged)

	snap := s.Snapshot()
	testutil.AssertEqual(t, snap.Active, types.Black)
	testutil.AssertEqual(t, snap.Status, engine.WaitingForSelection)
	testutil.AssertEqual(t, snap.Clocks, [2]int{593, 600})

	// Black's countdown runs, White's is frozen.
	fc.Advance(3500 * time.Millisecond)
	testutil.AssertEqual(t, s.Snapshot().Clocks, [2]int{593, 597})
}

func TestIllegalMoveClearsSelection(t *testing.T) {
	s, fc := newTestSession(t, 600, 0)

	s.Select(sq("e2"))
	fc.Advance(4 * time.Second)
	_, err := s.MoveTo(sq("e5"))
	testutil.AssertErrorIs(t, err, engine.ErrIllegalMove)

	snap := s.Snapshot()
	testutil.AssertEqual(t, snap.Status, engine.WaitingForSelection)
	testutil.AssertFalse(t, snap.HasSelection)
	testutil.AssertEqual(t, snap.Active, types.White)
	testutil.AssertEqual(t, len(snap.Records), 0)
	testutil.AssertEqual(t, snap.Clocks, [2]int{596, 600})

	_, err = s.MoveTo(sq("e4"))
	testutil.AssertErrorIs(t, err, engine.ErrNoSelection)
}

func TestLedgerCountsOnlyLegalMoves(t *testing.T) {
	s, fc := newTestSession(t, 600, 0)

	attempts := []struct {
		from, to string
		legal    bool
	}{
		{"e2", "e5", false},
		{"e2", "e4", true},
		{"d8", "d5", false},
		{"e7", "e5", true},
		{"g1", "g3", false},
		{"g1", "f3", true},
		{"b8", "c6", true},
		{"f1", "g2", false},
		{"f1", "c4", true},
	}
	legal := 0
	for _, a := range attempts {
		fc.Advance(time.Second)
		s.Select(sq(a.from))
		_, err := s.MoveTo(sq(a.to))
		if a.legal {
			testutil.AssertNoError(t, err, "%s-%s", a.from, a.to)
			legal++
		} else {
			testutil.AssertErrorIs(t, err, engine.ErrIllegalMove, "%s-%s", a.from, a.to)
		}
	}

	records := s.Snapshot().Records
	testutil.AssertEqual(t, len(records), legal)
	for i, rec := range records {
		testutil.AssertEqual(t, rec.Ordinal, i+1)
	}
	testutil.AssertEqual(t, records[4].Notation, "♗f1-c4")
	testutil.AssertEqual(t, records[0].ElapsedSeconds, 2, "time spent on the rejected attempt counts")
}

func TestCaptureNotationAndCues(t *testing.T) {
	s, _ := newTestSession(t, 600, 0)
	cues := &cueRecorder{}
	s.OnCue(cues.record)

	play(t, s, "e2", "e4")
	play(t, s, "d7", "d5")
	res := play(t, s, "e4", "d5")

	testutil.AssertEqual(t, res.Record.Notation, "♙e4×d5")
	testutil.AssertTrue(t, res.Record.Captured)
	testutil.AssertEqual(t, res.Captured, types.Piece{Kind: types.Pawn, Color: types.Black})
	testutil.AssertEqual(t, cues.all(), []cueEvent{
		{engine.CueMove, types.White},
		{engine.CueMove, types.Black},
		{engine.CueCapture, types.White},
	})
	snap := s.Snapshot()
	testutil.AssertEqual(t, snap.Board.Count(), 31)
}

func TestKingCaptureDoesNotEndGame(t *testing.T) {
	s, _ := newTestSession(t, 600, 0)
	for _, m := range [][2]string{
		{"e2", "e4"}, {"f7", "f6"},
		{"d1", "h5"}, {"g7", "g6"},
		{"h5", "g6"}, {"a7", "a6"},
		{"g6", "e8"},
	} {
		play(t, s, m[0], m[1])
	}
	snap := s.Snapshot()
	testutil.AssertEqual(t, snap.Status, engine.WaitingForSelection)
	testutil.AssertEqual(t, snap.Active, types.Black)
	last, _ := snap.LastMove()
	testutil.AssertEqual(t, last.Notation, "♕g6×e8")
}

func TestFlagFallOnTick(t *testing.T) {
	s, fc := newTestSession(t, 5, 0)
	cues := &cueRecorder{}
	s.OnCue(cues.record)

	var ends []engine.Reason
	var endSnap engine.Snapshot
	s.OnGameEnd(func(r engine.Reason, snap engine.Snapshot) {
		ends = append(ends, r)
		endSnap = snap
	})

	s.Select(sq("e2"))
	fc.Advance(6 * time.Second)
	s.Tick()

	testutil.AssertEqual(t, ends, []engine.Reason{engine.WhiteFlagFall})
	testutil.AssertEqual(t, endSnap.Status, engine.Terminated)
	testutil.AssertEqual(t, endSnap.Reason.Winner(), types.Black)
	testutil.AssertEqual(t, cues.all(), []cueEvent{{engine.CueGameOver, types.White}})

	// Frozen: more time, ticks, selections and moves change nothing.
	fc.Advance(time.Minute)
	s.Tick()
	testutil.AssertEqual(t, len(ends), 1)
	testutil.AssertEqual(t, s.Select(sq("d2")), engine.SelectIgnored)
	_, err := s.MoveTo(sq("e4"))
	testutil.AssertErrorIs(t, err, engine.ErrGameOver)
	testutil.AssertFalse(t, s.TogglePause(), "a finished game cannot be paused")

	snap := s.Snapshot()
	testutil.AssertEqual(t, snap.Clocks, [2]int{0, 5})
	testutil.AssertEqual(t, snap.Reason, engine.WhiteFlagFall)
	testutil.AssertEqual(t, len(snap.Records), 0)
}

func TestFlagFallOnMove(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		flagged bool
	}{
		{"elapsed exceeds remaining", 6 * time.Second, true},
		{"elapsed equals remaining", 5 * time.Second, true},
		{"just in time", 4900 * time.Millisecond, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fc := newTestSession(t, 5, 3)
			var moved, ended int
			s.OnMove(func(engine.MoveResult, engine.Snapshot) { moved++ })
			s.OnGameEnd(func(engine.Reason, engine.Snapshot) { ended++ })

			s.Select(sq("e2"))
			fc.Advance(tt.elapsed)
			res, err := s.MoveTo(sq("e4"))
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, res.Flagged, tt.flagged)
			testutil.AssertEqual(t, moved, 1)

			snap := s.Snapshot()
			if tt.flagged {
				testutil.AssertEqual(t, ended, 1)
				testutil.AssertEqual(t, snap.Status, engine.Terminated)
				testutil.AssertEqual(t, snap.Reason, engine.WhiteFlagFall)
				testutil.AssertEqual(t, res.Record.RemainingAfter, 0)
				testutil.AssertEqual(t, snap.Clocks[types.White], 0)
				return
			}
			testutil.AssertEqual(t, ended, 0)
			testutil.AssertEqual(t, snap.Active, types.Black)
			testutil.AssertEqual(t, res.Record.RemainingAfter, 4)
		})
	}
}

func TestPauseAddsNoTime(t *testing.T) {
	s, fc := newTestSession(t, 600, 0)

	s.Select(sq("e2"))
	fc.Advance(20 * time.Second)
	testutil.AssertTrue(t, s.TogglePause())

	fc.Advance(time.Hour)
	s.Tick()
	snap := s.Snapshot()
	testutil.AssertTrue(t, snap.Paused)
	testutil.AssertEqual(t, snap.Clocks, [2]int{580, 600})

	_, err := s.MoveTo(sq("e4"))
	testutil.AssertErrorIs(t, err, engine.ErrPaused)
	testutil.AssertEqual(t, s.Select(sq("d2")), engine.SelectIgnored)

	testutil.AssertFalse(t, s.TogglePause())
	fc.Advance(10 * time.Second)
	res, err := s.MoveTo(sq("e4"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Record.ElapsedSeconds, 30)
	testutil.AssertEqual(t, res.Record.RemainingAfter, 570)
}

func TestPauseResumeIdempotent(t *testing.T) {
	s, fc := newTestSession(t, 600, 0)
	fc.Advance(5 * time.Second)
	s.Pause()
	s.Pause()
	fc.Advance(time.Minute)
	s.Resume()
	s.Resume()
	testutil.AssertEqual(t, s.Snapshot().Clocks[types.White], 595)
}

func TestLowTimeCues(t *testing.T) {
	s, fc := newTestSession(t, 40, 0)
	cues := &cueRecorder{}
	s.OnCue(cues.record)

	fc.Advance(9 * time.Second)
	s.Tick() // 31
	fc.Advance(time.Second)
	s.Tick() // 30
	fc.Advance(time.Second)
	s.Tick() // 29
	fc.Advance(19 * time.Second)
	s.Tick() // 10

	testutil.AssertEqual(t, cues.all(), []cueEvent{
		{engine.CueLowTime, types.White},
		{engine.CueCritical, types.White},
	})
}

func TestLowTimeFiresAgainAfterIncrement(t *testing.T) {
	s, fc := newTestSession(t, 40, 25)
	cues := &cueRecorder{}
	s.OnCue(cues.record)

	s.Select(sq("e2"))
	fc.Advance(10 * time.Second)
	s.Tick()
	move := func(from, to string) {
		s.Select(sq(from))
		_, err := s.MoveTo(sq(to))
		testutil.AssertNoError(t, err)
	}
	_, err := s.MoveTo(sq("e4")) // 40 - 10 + 25 = 55
	testutil.AssertNoError(t, err)
	move("e7", "e5")
	fc.Advance(25 * time.Second)
	s.Tick() // 30 again

	testutil.AssertEqual(t, cues.all(), []cueEvent{
		{engine.CueLowTime, types.White},
		{engine.CueMove, types.White},
		{engine.CueMove, types.Black},
		{engine.CueLowTime, types.White},
	})
}

func TestClickRouting(t *testing.T) {
	s, _ := newTestSession(t, 600, 0)

	res, err := s.Click(sq("e2"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, res.Selection, engine.Selected)

	res, err = s.Click(sq("e4"))
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, res.Moved)
	testutil.AssertEqual(t, res.Move.Record.Notation, "♙e2-e4")

	res, _ = s.Click(sq("e7"))
	testutil.AssertEqual(t, res.Selection, engine.Selected)
	res, _ = s.Click(sq("d7"))
	testutil.AssertEqual(t, res.Selection, engine.Reselected)
	res, _ = s.Click(sq("d7"))
	testutil.AssertEqual(t, res.Selection, engine.Deselected)

	res, _ = s.Click(sq("a1"))
	testutil.AssertEqual(t, res.Selection, engine.SelectIgnored, "white piece on black's turn")

	s.Click(sq("d7"))
	res, err = s.Click(sq("d4"))
	testutil.AssertErrorIs(t, err, engine.ErrIllegalMove)
	testutil.AssertFalse(t, res.Moved)
	testutil.AssertEqual(t, s.Snapshot().Status, engine.WaitingForSelection)
}

func TestCallbacksRunOutsideLock(t *testing.T) {
	s, fc := newTestSession(t, 5, 0)

	var moveSnap, tickSnap, endSnap engine.Snapshot
	s.OnMove(func(engine.MoveResult, engine.Snapshot) { moveSnap = s.Snapshot() })
	s.OnTick(func(engine.Snapshot) { tickSnap = s.Snapshot() })
	s.OnGameEnd(func(engine.Reason, engine.Snapshot) { endSnap = s.Snapshot() })
	s.OnCue(func(engine.Cue, types.Color) { _ = s.Snapshot() })

	play(t, s, "e2", "e4")
	testutil.AssertEqual(t, moveSnap.Active, types.Black)

	fc.Advance(time.Second)
	s.Tick()
	testutil.AssertEqual(t, tickSnap.Clocks[types.Black], 4)

	fc.Advance(10 * time.Second)
	s.Tick()
	testutil.AssertEqual(t, endSnap.Reason, engine.BlackFlagFall)
}

func TestMoveCallbackSeesTermination(t *testing.T) {
	s, fc := newTestSession(t, 5, 0)
	var snap engine.Snapshot
	s.OnMove(func(_ engine.MoveResult, sn engine.Snapshot) { snap = sn })

	s.Select(sq("e2"))
	fc.Advance(7 * time.Second)
	_, err := s.MoveTo(sq("e4"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, snap.Status, engine.Terminated)
	testutil.AssertEqual(t, len(snap.Records), 1)
}

func TestTickerFlagsAndCloseStopsIt(t *testing.T) {
	fc := newFakeClock()
	s, err := NewSession(engine.GameConfig{BaseSeconds: 1},
		WithClock(fc.Now), WithTickInterval(time.Millisecond))
	testutil.AssertNoError(t, err)

	done := make(chan engine.Reason, 1)
	s.OnGameEnd(func(r engine.Reason, _ engine.Snapshot) { done <- r })

	testutil.AssertNoError(t, s.Connect())
	testutil.AssertNoError(t, s.Connect(), "second Connect is a no-op")
	fc.Advance(2 * time.Second)

	select {
	case r := <-done:
		testutil.AssertEqual(t, r, engine.WhiteFlagFall)
	case <-time.After(5 * time.Second):
		t.Fatal("ticker never flagged the game")
	}

	s.Close()
	s.Close()
	testutil.AssertTrue(t, errors.Is(s.Connect(), engine.ErrClosed))
}

func TestCloseWhileRunning(t *testing.T) {
	fc := newFakeClock()
	s, err := NewSession(engine.DefaultConfig(),
		WithClock(fc.Now), WithTickInterval(time.Millisecond))
	testutil.AssertNoError(t, err)

	ticks := make(chan struct{}, 1)
	s.OnTick(func(engine.Snapshot) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	testutil.AssertNoError(t, s.Connect())
	<-ticks

	s.Close()
	testutil.AssertEqual(t, s.Select(sq("e2")), engine.SelectIgnored)
	_, err = s.MoveTo(sq("e4"))
	testutil.AssertErrorIs(t, err, engine.ErrClosed)
}
