// Package local implements a two-player game played on one device.
package local

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"termchess-local/clock"
	"termchess-local/engine"
	"termchess-local/ledger"
	"termchess-local/obslog"
	"termchess-local/rules"
	"termchess-local/types"
)

// DefaultTickInterval is how often the running clock is re-evaluated.
const DefaultTickInterval = 150 * time.Millisecond

// Session implements the GameEngine interface for two humans sharing a board.
type Session struct {
	config   engine.GameConfig
	id       string
	now      func() time.Time
	interval time.Duration
	log      *zap.Logger

	board     *types.Board
	clock     *clock.State
	ledger    *ledger.Ledger
	status    engine.Status
	reason    engine.Reason
	selection types.Square
	shown     [2]int // last displayed time per side, for low-time crossings
	startedAt time.Time

	connected bool
	closed    bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	moveCallback func(res engine.MoveResult, snap engine.Snapshot)
	endCallback  func(reason engine.Reason, snap engine.Snapshot)
	cueCallback  func(cue engine.Cue, player types.Color)
	tickCallback func(snap engine.Snapshot)

	mu sync.Mutex
}

var _ engine.GameEngine = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now as the session's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithTickInterval sets the countdown granularity.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the session logger. Defaults to obslog.L().
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithGameID sets the game identifier. Defaults to a random UUID.
func WithGameID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// NewSession creates a game in its initial position with both clocks at the
// configured base time and White to move. The clock does not run until
// Connect is called; Tick can still be driven by hand.
func NewSession(cfg engine.GameConfig, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		config:   cfg,
		id:       uuid.NewString(),
		now:      time.Now,
		interval: DefaultTickInterval,
		log:      obslog.L(),
		board:    types.NewStandardBoard(),
		ledger:   ledger.New(),
		status:   engine.WaitingForSelection,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("game_id", s.id))

	s.startedAt = s.now()
	clk, err := clock.New(cfg.BaseSeconds, cfg.IncrementSeconds, s.startedAt)
	if err != nil {
		return nil, err
	}
	s.clock = clk
	s.shown = clk.Remaining
	return s, nil
}

// ID returns the game identifier.
func (s *Session) ID() string {
	return s.id
}

// Connect restarts the clock at the current time if no move has been made
// yet, and starts the countdown ticker.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return engine.ErrClosed
	}
	if s.connected {
		return nil
	}
	s.connected = true

	if s.ledger.Len() == 0 && !s.clock.Paused {
		s.startedAt = s.now()
		s.clock.MoveStartedAt = s.startedAt
		s.clock.Spent = 0
	}
	s.log.Info("game started",
		zap.Int("base_seconds", s.config.BaseSeconds),
		zap.Int("increment_seconds", s.config.IncrementSeconds))

	if s.status != engine.Terminated && !s.clock.Paused {
		s.startTicker()
	}
	return nil
}

// startTicker launches the countdown goroutine.
// Must be called while holding the lock.
func (s *Session) startTicker() {
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.run(ctx, s.interval)
}

// stopTicker cancels the countdown goroutine without waiting for it, so it
// is safe to call from the goroutine itself.
// Must be called while holding the lock.
func (s *Session) stopTicker() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) run(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Tick()
		}
	}
}

// Snapshot returns a copy of the current game state.
func (s *Session) Snapshot() engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(s.now())
}

// snapshot must be called while holding the lock.
func (s *Session) snapshot(now time.Time) engine.Snapshot {
	snap := engine.Snapshot{
		GameID:    s.id,
		StartedAt: s.startedAt,
		Config:    s.config,
		Board:     *s.board.Clone(),
		Active:    s.clock.Active,
		Status:    s.status,
		Reason:    s.reason,
		Paused:    s.clock.Paused,
		Records:   s.ledger.All(),
	}
	snap.Clocks[types.White] = s.clock.Displayed(types.White, now)
	snap.Clocks[types.Black] = s.clock.Displayed(types.Black, now)
	if s.status == engine.Terminated {
		snap.Clocks = s.clock.Remaining
	}
	if s.status == engine.PieceSelected {
		snap.Selection = s.selection
		snap.HasSelection = true
		snap.Destinations = rules.Destinations(s.board, s.selection)
	}
	return snap
}

// pending collects callbacks to run once the lock is released.
type pending []func()

func (p pending) fire() {
	for _, f := range p {
		f()
	}
}

// cue queues an audio cue. Must be called while holding the lock.
func (s *Session) cue(p *pending, c engine.Cue, player types.Color) {
	if cb := s.cueCallback; cb != nil {
		*p = append(*p, func() { cb(c, player) })
	}
}

// checkLowTime queues a cue for every threshold crossed by player since the
// last evaluation. Must be called while holding the lock.
func (s *Session) checkLowTime(p *pending, player types.Color, secs int) {
	for _, lvl := range clock.Crossings(s.shown[player], secs) {
		s.log.Debug("low time",
			zap.Stringer("player", player),
			zap.Stringer("level", lvl),
			zap.Int("remaining", secs))
		s.cue(p, engine.CueForLevel(lvl), player)
	}
	s.shown[player] = secs
}

// terminate ends the game on a flag-fall by player.
// Must be called while holding the lock.
func (s *Session) terminate(p *pending, player types.Color) {
	s.clock.Flag()
	s.status = engine.Terminated
	s.reason = engine.FlagFall(player)
	s.selection = types.Square{}
	s.stopTicker()

	s.log.Info("flag fall",
		zap.Stringer("player", player),
		zap.Stringer("reason", s.reason),
		zap.Int("moves", s.ledger.Len()))

	s.cue(p, engine.CueGameOver, player)
}

// ended queues the game-end callback. Must be called while holding the lock.
func (s *Session) ended(p *pending, now time.Time) {
	if cb := s.endCallback; cb != nil {
		reason, snap := s.reason, s.snapshot(now)
		*p = append(*p, func() { cb(reason, snap) })
	}
}

// Tick evaluates the running clock once: low-time cues for the side to move
// and a flag-fall when its displayed time reaches zero. It is a no-op while
// paused or after the game has ended.
func (s *Session) Tick() {
	var p pending
	s.mu.Lock()
	if s.closed || s.status == engine.Terminated || s.clock.Paused {
		s.mu.Unlock()
		return
	}
	now := s.now()
	active := s.clock.Active
	left := s.clock.Displayed(active, now)
	s.checkLowTime(&p, active, left)
	if left == 0 {
		s.terminate(&p, active)
		s.ended(&p, now)
	}
	if cb := s.tickCallback; cb != nil {
		snap := s.snapshot(now)
		p = append(p, func() { cb(snap) })
	}
	s.mu.Unlock()

	p.fire()
}

// Select handles a selection request.
func (s *Session) Select(sq types.Square) engine.SelectResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectSquare(sq)
}

// selectSquare must be called while holding the lock.
func (s *Session) selectSquare(sq types.Square) engine.SelectResult {
	if s.closed || s.status == engine.Terminated || s.clock.Paused {
		return engine.SelectIgnored
	}
	if s.status == engine.PieceSelected && sq == s.selection {
		s.status = engine.WaitingForSelection
		s.selection = types.Square{}
		return engine.Deselected
	}
	p, ok := s.board.At(sq)
	if !ok || p.Color != s.clock.Active {
		return engine.SelectIgnored
	}
	result := engine.Selected
	if s.status == engine.PieceSelected {
		result = engine.Reselected
	}
	s.status = engine.PieceSelected
	s.selection = sq
	return result
}

// MoveTo attempts to move the selected piece to to.
func (s *Session) MoveTo(to types.Square) (engine.MoveResult, error) {
	var p pending
	s.mu.Lock()
	res, err := s.moveTo(&p, to)
	s.mu.Unlock()

	p.fire()
	return res, err
}

// moveTo must be called while holding the lock.
func (s *Session) moveTo(p *pending, to types.Square) (engine.MoveResult, error) {
	switch {
	case s.closed:
		return engine.MoveResult{}, engine.ErrClosed
	case s.status == engine.Terminated:
		return engine.MoveResult{}, engine.ErrGameOver
	case s.clock.Paused:
		return engine.MoveResult{}, engine.ErrPaused
	case s.status != engine.PieceSelected:
		return engine.MoveResult{}, engine.ErrNoSelection
	}

	from := s.selection
	s.status = engine.WaitingForSelection
	s.selection = types.Square{}

	if !rules.IsLegal(s.board, from, to) {
		s.log.Debug("illegal move rejected",
			zap.Stringer("from", from),
			zap.Stringer("to", to))
		return engine.MoveResult{}, fmt.Errorf("%w: %s to %s", engine.ErrIllegalMove, from, to)
	}

	now := s.now()
	mover := s.clock.Active
	piece, _ := s.board.At(from)
	captured, took := rules.Execute(s.board, from, to)
	elapsed, flagged := s.clock.Settle(now)

	rec := s.ledger.Append(ledger.MoveRecord{
		Player:         mover,
		Notation:       rules.Notation(piece, from, to, took),
		ElapsedSeconds: elapsed,
		From:           from,
		To:             to,
		Captured:       took,
		RemainingAfter: s.clock.Remaining[mover],
	})
	res := engine.MoveResult{Record: rec, Piece: piece, Flagged: flagged}
	if took {
		res.Captured = captured
	}

	s.log.Debug("move",
		zap.Int("ordinal", rec.Ordinal),
		zap.Stringer("player", mover),
		zap.String("notation", rec.Notation),
		zap.Int("elapsed", elapsed),
		zap.Int("remaining", rec.RemainingAfter))

	if took {
		s.cue(p, engine.CueCapture, mover)
	} else {
		s.cue(p, engine.CueMove, mover)
	}
	s.checkLowTime(p, mover, rec.RemainingAfter)
	if flagged {
		s.terminate(p, mover)
	}

	if cb := s.moveCallback; cb != nil {
		snap := s.snapshot(now)
		*p = append(*p, func() { cb(res, snap) })
	}
	if flagged {
		s.ended(p, now)
	}
	return res, nil
}

// Click routes a square activation: a click on the selected square or on
// another piece of the side to move changes the selection, anything else
// with a selection is a move attempt.
func (s *Session) Click(sq types.Square) (engine.ClickResult, error) {
	var p pending
	s.mu.Lock()
	var (
		res engine.ClickResult
		err error
	)
	if s.status == engine.PieceSelected && !s.clock.Paused && !s.ownPiece(sq) && sq != s.selection {
		res.Moved = true
		res.Move, err = s.moveTo(&p, sq)
		if err != nil {
			res.Moved = false
		}
	} else {
		res.Selection = s.selectSquare(sq)
	}
	s.mu.Unlock()

	p.fire()
	return res, err
}

// ownPiece must be called while holding the lock.
func (s *Session) ownPiece(sq types.Square) bool {
	p, ok := s.board.At(sq)
	return ok && p.Color == s.clock.Active
}

// Pause stops the clock. Selections and moves are refused until Resume.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pause()
}

// pause must be called while holding the lock.
func (s *Session) pause() {
	if s.closed || s.status == engine.Terminated || s.clock.Paused {
		return
	}
	now := s.now()
	s.clock.Pause(now)
	s.stopTicker()
	s.log.Info("paused",
		zap.Stringer("player", s.clock.Active),
		zap.Int("elapsed", s.clock.Elapsed(now)))
}

// Resume restarts the clock from the current time.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume()
}

// resume must be called while holding the lock.
func (s *Session) resume() {
	if s.closed || s.status == engine.Terminated || !s.clock.Paused {
		return
	}
	s.clock.Resume(s.now())
	if s.connected {
		s.startTicker()
	}
	s.log.Info("resumed", zap.Stringer("player", s.clock.Active))
}

// TogglePause pauses a running game or resumes a paused one.
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock.Paused {
		s.resume()
	} else {
		s.pause()
	}
	return s.clock.Paused
}

// OnMove registers a callback for every executed move.
func (s *Session) OnMove(callback func(res engine.MoveResult, snap engine.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (s *Session) OnGameEnd(callback func(reason engine.Reason, snap engine.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endCallback = callback
}

// OnCue registers a callback for audio cues.
func (s *Session) OnCue(callback func(cue engine.Cue, player types.Color)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cueCallback = callback
}

// OnTick registers a callback for every clock tick.
func (s *Session) OnTick(callback func(snap engine.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickCallback = callback
}

// Close stops the ticker and waits for it to exit. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTicker()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Debug("session closed")
}
