// Package ledger keeps the append-only history of executed moves.
package ledger

import (
	"sync"

	"termchess-local/types"
)

// MoveRecord is one executed move. Records are never changed once appended.
type MoveRecord struct {
	Ordinal        int // 1-based position in the game
	Player         types.Color
	Notation       string
	ElapsedSeconds int
	From           types.Square
	To             types.Square
	Captured       bool
	RemainingAfter int // mover's clock after settlement, seconds
}

// Ledger is an ordered, append-only sequence of MoveRecords.
// It is safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	records []MoveRecord
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append stores rec with its ordinal set to the next position and returns
// the stored record.
func (l *Ledger) Append(rec MoveRecord) MoveRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec.Ordinal = len(l.records) + 1
	l.records = append(l.records, rec)
	return rec
}

// All returns a copy of every record in order.
func (l *Ledger) All() []MoveRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]MoveRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Last returns the most recent record, if any.
func (l *Ledger) Last() (MoveRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.records) == 0 {
		return MoveRecord{}, false
	}
	return l.records[len(l.records)-1], true
}
